package rect

import "errors"

// Renderer errors. The renderer never swallows an error or drops rectangles
// silently: every failure is returned to the immediate caller, and a failed
// frame records no draw at all rather than a partial batch.
var (
	// ErrPipelineCreation is returned when shader compilation fails or the
	// requested output format cannot be used. Fatal at initialization; the
	// shader source is static, so there is no retry.
	ErrPipelineCreation = errors.New("rect: pipeline creation failed")

	// ErrSubmission is returned when frame commands cannot be recorded or
	// submitted because the underlying graphics context is in an invalid
	// state. The caller is expected to reinitialize the renderer after
	// resolving the device or surface issue, not to retry blindly.
	ErrSubmission = errors.New("rect: frame submission failed")

	// ErrAllocation is returned when growing the frame vertex buffer fails.
	// The frame is lost, but the previous buffer is retained and internal
	// state stays consistent, so the next BeginFrame proceeds safely.
	ErrAllocation = errors.New("rect: vertex buffer allocation failed")

	// ErrFrameOpen is returned by BeginFrame while another frame is still
	// recording. Frames follow a strict begin -> draw* -> end sequence.
	ErrFrameOpen = errors.New("rect: a frame is already recording")

	// ErrFrameEnded is returned when operating on a frame after End.
	ErrFrameEnded = errors.New("rect: frame has already ended")

	// ErrRendererDestroyed is returned when using a renderer after Destroy.
	ErrRendererDestroyed = errors.New("rect: renderer has been destroyed")

	// ErrNilDevice is returned by New when the host passes no device.
	ErrNilDevice = errors.New("rect: nil device or queue")
)
