package rect

import "golang.org/x/image/math/f32"

// Rect is a single rectangle draw request. Rectangles are transient: the
// caller builds them fresh each frame and the renderer keeps no reference
// after Draw returns.
//
// Pos is the minimum corner and Size the extent along +x/+y, both in clip
// space. A negative Size component is normalized before vertex emission, so
// {Pos: {0.5, 0.5}, Size: {-1, -1}} and {Pos: {-0.5, -0.5}, Size: {1, 1}}
// describe the same rectangle.
type Rect struct {
	// Pos is the minimum corner in clip space.
	Pos f32.Vec2

	// Size is the width and height in clip-space units.
	Size f32.Vec2

	// Color is the flat fill color, channels normalized to [0, 1].
	// Rectangles are always fully opaque.
	Color f32.Vec3

	// Clip optionally restricts the rectangle to a clip-space region.
	// The quad is intersected with Clip on the CPU before vertex emission,
	// which for solid axis-aligned quads is equivalent to a GPU scissor
	// without touching render pass state.
	Clip *Bounds
}

// Bounds is an axis-aligned clip-space extent.
type Bounds struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// bounds returns the rectangle's extent with negative sizes normalized and
// the optional clip applied.
func (r Rect) bounds() Bounds {
	b := Bounds{
		MinX: r.Pos[0],
		MinY: r.Pos[1],
		MaxX: r.Pos[0] + r.Size[0],
		MaxY: r.Pos[1] + r.Size[1],
	}.Canon()
	if r.Clip != nil {
		b = b.Intersect(r.Clip.Canon())
	}
	return b
}

// Canon returns the bounds with min and max swapped where needed so that
// MinX <= MaxX and MinY <= MaxY.
func (b Bounds) Canon() Bounds {
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	return b
}

// Empty reports whether the bounds enclose no area.
func (b Bounds) Empty() bool {
	return b.MinX >= b.MaxX || b.MinY >= b.MaxY
}

// Intersect returns the intersection of two bounds. A disjoint result is
// collapsed to a zero-area bounds at the clamped position rather than an
// inverted one, so downstream vertex emission stays degenerate but valid.
func (b Bounds) Intersect(o Bounds) Bounds {
	if o.MinX > b.MinX {
		b.MinX = o.MinX
	}
	if o.MinY > b.MinY {
		b.MinY = o.MinY
	}
	if o.MaxX < b.MaxX {
		b.MaxX = o.MaxX
	}
	if o.MaxY < b.MaxY {
		b.MaxY = o.MaxY
	}
	if b.MinX > b.MaxX {
		b.MaxX = b.MinX
	}
	if b.MinY > b.MaxY {
		b.MaxY = b.MinY
	}
	return b
}

// FromPixels converts a rectangle in framebuffer pixel coordinates
// (origin top-left, y growing downward) to clip-space position and size.
// screenW and screenH are the framebuffer dimensions in pixels.
//
// The conversion includes the y-flip between pixel space and WebGPU NDC:
// pixel row 0 maps to clip y = +1.
func FromPixels(screenW, screenH uint32, x, y, w, h float32) (pos, size f32.Vec2) {
	sw := float32(screenW)
	sh := float32(screenH)
	pos = f32.Vec2{
		(x/sw)*2 - 1,
		1 - ((y+h)/sh)*2,
	}
	size = f32.Vec2{
		(w / sw) * 2,
		(h / sh) * 2,
	}
	return pos, size
}
