package rect

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment WebGPU (and DX12) require for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// gpuTimeout bounds the fence wait after submission.
const gpuTimeout = 5 * time.Second

// Offscreen is a headless render target for the rectangle renderer: a color
// texture the frame draws into, plus a staging buffer for GPU-to-CPU
// readback. It serves frame capture and environments without a window
// surface.
type Offscreen struct {
	r *Renderer

	tex  hal.Texture
	view hal.TextureView

	width, height uint32

	// staging is the readback buffer, created lazily on the first
	// RenderFrame and reused while the target size is unchanged.
	staging     hal.Buffer
	stagingSize uint64

	// pixels holds the last readback as tight-row RGBA.
	pixels []byte
}

// NewOffscreen creates an offscreen target of the given size, rendering with
// r's pipeline and output format.
func NewOffscreen(r *Renderer, width, height uint32) (*Offscreen, error) {
	o := &Offscreen{r: r}
	if err := o.Resize(width, height); err != nil {
		return nil, err
	}
	return o, nil
}

// Resize recreates the color texture if the requested dimensions differ from
// the current size. Same dimensions are a no-op. On failure partially created
// resources are released and the target is left unsized.
func (o *Offscreen) Resize(width, height uint32) error {
	if o.width == width && o.height == height && o.tex != nil {
		return nil
	}
	o.destroyTexture()

	tex, err := o.r.device.CreateTexture(&hal.TextureDescriptor{
		Label: o.r.label + "_offscreen_color",
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        o.r.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen color texture: %w", err)
	}
	o.tex = tex

	view, err := o.r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: o.r.label + "_offscreen_color_view",
	})
	if err != nil {
		o.destroyTexture()
		return fmt.Errorf("create offscreen color view: %w", err)
	}
	o.view = view

	o.width = width
	o.height = height
	return nil
}

// Size returns the current target dimensions.
func (o *Offscreen) Size() (uint32, uint32) {
	return o.width, o.height
}

// Destroy releases the target's GPU resources. Safe to call multiple times.
// The renderer is owned by the caller and is not destroyed.
func (o *Offscreen) Destroy() {
	o.destroyTexture()
	o.pixels = nil
}

func (o *Offscreen) destroyTexture() {
	if o.staging != nil {
		o.r.device.DestroyBuffer(o.staging)
		o.staging = nil
		o.stagingSize = 0
	}
	if o.view != nil {
		o.r.device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.tex != nil {
		o.r.device.DestroyTexture(o.tex)
		o.tex = nil
	}
	o.width = 0
	o.height = 0
}

// RenderFrame records the frame into a render pass targeting the offscreen
// texture (cleared to clear first), copies the result to a staging buffer,
// submits, waits for the GPU, and reads the pixels back. The result is
// available from Pixels until the next call.
//
// Unlike Frame.End alone, this owns encoding and submission: it is the
// headless equivalent of the host's swapchain pass. Encoding, submission,
// and fence failures wrap [ErrSubmission].
func (o *Offscreen) RenderFrame(frame *Frame, clear gputypes.Color) error {
	if o.tex == nil {
		return fmt.Errorf("%w: offscreen target has no texture", ErrSubmission)
	}

	encoder, err := o.r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: o.r.label + "_offscreen_encoder",
	})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", ErrSubmission, err)
	}
	if err := encoder.BeginEncoding(o.r.label + "_offscreen_frame"); err != nil {
		return fmt.Errorf("%w: begin encoding: %w", ErrSubmission, err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: o.r.label + "_offscreen_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       o.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	endErr := frame.End(rp)
	rp.End()
	if endErr != nil {
		encoder.DiscardEncoding()
		return endErr
	}

	// The render pass leaves the texture in render-attachment usage;
	// transition before the copy. No-op on backends without explicit
	// layout transitions.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	// Copy rows padded to the required pitch alignment. The staging buffer
	// is sized lazily and reused until the target dimensions change.
	bytesPerRow := o.width * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(o.height)

	if o.staging == nil || o.stagingSize != stagingSize {
		if o.staging != nil {
			o.r.device.DestroyBuffer(o.staging)
			o.staging = nil
			o.stagingSize = 0
		}
		buf, err := o.r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: o.r.label + "_offscreen_staging",
			Size:  stagingSize,
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			encoder.DiscardEncoding()
			return fmt.Errorf("%w: create staging buffer: %w", ErrAllocation, err)
		}
		o.staging = buf
		o.stagingSize = stagingSize
	}

	encoder.CopyTextureToBuffer(o.tex, o.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: o.height},
		TextureBase:  hal.ImageCopyTexture{Texture: o.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: o.width, Height: o.height, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%w: end encoding: %w", ErrSubmission, err)
	}
	defer o.r.device.FreeCommandBuffer(cmdBuf)

	fence, err := o.r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%w: create fence: %w", ErrSubmission, err)
	}
	defer o.r.device.DestroyFence(fence)

	if err := o.r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%w: submit: %w", ErrSubmission, err)
	}
	fenceOK, err := o.r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("%w: wait for GPU: ok=%v err=%v", ErrSubmission, fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := o.r.queue.ReadBuffer(o.staging, 0, readback); err != nil {
		return fmt.Errorf("%w: readback: %w", ErrSubmission, err)
	}

	o.pixels = depadRows(readback, o.pixels, bytesPerRow, alignedBytesPerRow, o.height)
	if isBGRAFormat(o.r.format) {
		swapBGRAToRGBA(o.pixels)
	}
	return nil
}

// Pixels returns the last readback as tight-row RGBA, row 0 at the top.
// Nil before the first successful RenderFrame. The slice is reused by
// subsequent calls.
func (o *Offscreen) Pixels() []byte {
	return o.pixels
}

// depadRows strips per-row copy padding from src into dst, reusing dst's
// backing array when large enough.
func depadRows(src, dst []byte, bytesPerRow, alignedBytesPerRow, rows uint32) []byte {
	tight := int(bytesPerRow) * int(rows)
	if cap(dst) < tight {
		dst = make([]byte, tight)
	} else {
		dst = dst[:tight]
	}
	for row := uint32(0); row < rows; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(dst[dstOff:dstOff+int(bytesPerRow)], src[srcOff:srcOff+int(bytesPerRow)])
	}
	return dst
}

// isBGRAFormat reports whether the format stores pixels byte-ordered B,G,R,A
// and therefore needs channel swapping for RGBA output.
func isBGRAFormat(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatBGRA8Unorm ||
		format == gputypes.TextureFormatBGRA8UnormSrgb
}

// swapBGRAToRGBA swaps the B and R channels in place.
func swapBGRAToRGBA(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
}
