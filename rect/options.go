package rect

// Option configures a Renderer during creation.
type Option func(*config)

// config holds optional renderer configuration.
type config struct {
	label           string
	initialCapacity int
}

// defaultConfig returns the default renderer configuration.
func defaultConfig() config {
	return config{
		label:           "rect",
		initialCapacity: 256,
	}
}

// WithLabel sets the debug label prefix used for GPU objects created by the
// renderer. Labels show up in graphics debuggers and backend error messages.
func WithLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.label = label
		}
	}
}

// WithInitialCapacity sets the rectangle count each frame's scratch buffer is
// pre-sized for. Frames exceeding it grow by amortized doubling, so this is a
// hint, not a limit.
func WithInitialCapacity(rects int) Option {
	return func(c *config) {
		if rects > 0 {
			c.initialCapacity = rects
		}
	}
}
