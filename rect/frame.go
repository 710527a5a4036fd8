package rect

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame accumulates one frame's rectangle batch. Its lifetime is exactly one
// frame: acquired from BeginFrame, filled by Draw, uploaded and recorded by
// End, then discarded. The backing buffers are recycled through the
// renderer's ring, not reallocated per frame.
type Frame struct {
	r    *Renderer
	slot int

	// vertexCount is the number of vertices accumulated so far.
	vertexCount uint32

	ended bool
}

// BeginFrame starts a new frame and returns its handle. No GPU work is
// performed. Returns [ErrFrameOpen] if the previous frame has not been ended;
// frames follow a strict BeginFrame -> Draw* -> End sequence.
func (r *Renderer) BeginFrame() (*Frame, error) {
	if r.destroyed {
		return nil, ErrRendererDestroyed
	}
	if r.open {
		return nil, ErrFrameOpen
	}

	s := &r.frames[r.slot]
	if s.scratch == nil {
		s.scratch = make([]byte, 0, r.initialCapacity*vertsPerRect*vertexStride)
	} else {
		s.scratch = s.scratch[:0]
	}

	r.open = true
	return &Frame{r: r, slot: r.slot}, nil
}

// Draw appends one rectangle to the frame: pure in-memory accumulation, no
// GPU side effect. Six vertices (two CCW triangles) are emitted per call,
// even for zero-area or fully clipped rectangles, which become degenerate
// triangles that rasterize nothing. The scratch buffer grows by amortized
// doubling, so Draw may be called any number of times per frame.
//
// Draw on an ended frame is ignored.
func (f *Frame) Draw(rc Rect) {
	if f.ended {
		return
	}
	s := &f.r.frames[f.slot]
	s.scratch = appendRectVertices(s.scratch, rc.bounds(), rc.Color)
	f.vertexCount += vertsPerRect
}

// VertexCount returns the number of vertices accumulated so far.
func (f *Frame) VertexCount() uint32 {
	return f.vertexCount
}

// End uploads the accumulated batch to the GPU in a single write, binds the
// pipeline, and records exactly one draw call into rp. Recording only: the
// caller's rendering context owns queue submission and completion
// synchronization.
//
// The frame is released whether End succeeds or fails; a failed frame draws
// nothing rather than a partial batch, and the next BeginFrame proceeds
// safely. An empty frame records no draw and succeeds.
func (f *Frame) End(rp hal.RenderPassEncoder) error {
	if f.ended {
		return ErrFrameEnded
	}
	f.ended = true
	f.r.open = false

	if f.r.destroyed {
		return fmt.Errorf("%w: %w", ErrSubmission, ErrRendererDestroyed)
	}
	if rp == nil {
		return fmt.Errorf("%w: nil render pass encoder", ErrSubmission)
	}
	if f.vertexCount == 0 {
		return nil
	}

	r := f.r
	s := &r.frames[f.slot]

	// Grow the GPU vertex buffer geometrically when the batch outgrew it.
	// On failure the old buffer is kept, so renderer state is unchanged.
	need := uint64(len(s.scratch))
	if s.vertBuf == nil || s.bufSize < need {
		newSize := s.bufSize * 2
		if newSize < need {
			newSize = need
		}
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("%s_verts_%d", r.label, f.slot),
			Size:  newSize,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("%w: grow to %d bytes: %w", ErrAllocation, newSize, err)
		}
		if s.vertBuf != nil {
			r.device.DestroyBuffer(s.vertBuf)
		}
		s.vertBuf = buf
		s.bufSize = newSize
		slogger().Debug("rect: vertex buffer grown", "slot", f.slot, "bytes", newSize)
	}

	// One upload, one draw call for the whole batch.
	r.queue.WriteBuffer(s.vertBuf, 0, s.scratch)
	rp.SetPipeline(r.pipeline)
	rp.SetVertexBuffer(0, s.vertBuf, 0)
	rp.Draw(f.vertexCount, 1, 0, 0)

	// Advance the ring so the next frame fills the other slot while the
	// GPU reads this one.
	r.slot = (r.slot + 1) % frameRing
	return nil
}
