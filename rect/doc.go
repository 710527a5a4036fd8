// Package rect renders batches of axis-aligned colored rectangles on the GPU.
//
// The editor uses rectangles for cursor highlights, selection backgrounds,
// and UI panels. All rectangles requested between BeginFrame and End are
// merged into one vertex buffer and drawn with a single draw call through a
// dedicated vertex+fragment WGSL pipeline.
//
// Coordinates are clip space: [-1, 1] on each axis, (-1, -1) at the
// bottom-left (WebGPU NDC). The renderer performs no transform of its own;
// callers working in pixel coordinates convert through FromPixels. Window and
// DPI concerns stay with the host.
//
// The renderer receives its GPU device from the host application and never
// creates one. A typical frame:
//
//	r, err := rect.New(device, queue, gputypes.TextureFormatBGRA8Unorm)
//	...
//	frame, err := r.BeginFrame()
//	frame.Draw(rect.Rect{Pos: f32.Vec2{-0.5, -0.5}, Size: f32.Vec2{1, 1}, Color: f32.Vec3{0, 1, 0}})
//	err = frame.End(renderPass) // records one draw call; submission is the caller's
//
// A Renderer instance is not safe for concurrent use. Frames follow a strict
// BeginFrame -> Draw* -> End sequence on one rendering goroutine; the caller
// provides any synchronization.
package rect
