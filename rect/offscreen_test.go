//go:build !nogpu

package rect

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

func TestNewOffscreen(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Destroy()

	o, err := NewOffscreen(r, 320, 240)
	if err != nil {
		t.Fatalf("NewOffscreen failed: %v", err)
	}
	defer o.Destroy()

	w, h := o.Size()
	if w != 320 || h != 240 {
		t.Errorf("expected size (320, 240), got (%d, %d)", w, h)
	}
	if o.tex == nil || o.view == nil {
		t.Error("expected texture and view after NewOffscreen")
	}
	if o.Pixels() != nil {
		t.Error("expected nil pixels before first RenderFrame")
	}
}

func TestOffscreenResizeIdempotent(t *testing.T) {
	_, o, cleanup := testTarget(t)
	defer cleanup()

	orig := o.tex
	if err := o.Resize(64, 64); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if o.tex != orig {
		t.Error("texture recreated for unchanged dimensions")
	}

	if err := o.Resize(128, 32); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if o.tex == orig {
		t.Error("expected new texture after dimension change")
	}
	w, h := o.Size()
	if w != 128 || h != 32 {
		t.Errorf("expected size (128, 32), got (%d, %d)", w, h)
	}
}

func TestOffscreenRenderFrame(t *testing.T) {
	r, o, cleanup := testTarget(t)
	defer cleanup()

	f, err := r.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame failed: %v", err)
	}
	f.Draw(Rect{Pos: f32.Vec2{-0.5, -0.5}, Size: f32.Vec2{1, 1}, Color: f32.Vec3{1, 0, 0}})

	clear := gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	if err := o.RenderFrame(f, clear); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	w, h := o.Size()
	pixels := o.Pixels()
	if len(pixels) != int(w)*int(h)*4 {
		t.Fatalf("expected %d pixel bytes, got %d", int(w)*int(h)*4, len(pixels))
	}

	// The frame is consumed by RenderFrame.
	if err := f.End(nil); !errors.Is(err, ErrFrameEnded) {
		t.Errorf("expected ErrFrameEnded after RenderFrame, got %v", err)
	}
}

func TestOffscreenRenderFrameWithoutTexture(t *testing.T) {
	r, o, cleanup := testTarget(t)
	defer cleanup()

	o.Destroy()

	f, err := r.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame failed: %v", err)
	}
	if err := o.RenderFrame(f, gputypes.Color{}); !errors.Is(err, ErrSubmission) {
		t.Fatalf("expected ErrSubmission without a texture, got %v", err)
	}
	_ = f.End(nil)
}

func TestOffscreenDestroy(t *testing.T) {
	_, o, cleanup := testTarget(t)
	defer cleanup()

	o.Destroy()

	if o.tex != nil || o.view != nil || o.staging != nil {
		t.Error("expected GPU resources released after Destroy")
	}
	w, h := o.Size()
	if w != 0 || h != 0 {
		t.Errorf("expected size (0, 0) after Destroy, got (%d, %d)", w, h)
	}
	if o.Pixels() != nil {
		t.Error("expected nil pixels after Destroy")
	}

	// Double-destroy should be safe.
	o.Destroy()
}

func TestDepadRows(t *testing.T) {
	const rows, tight, aligned = 3, 8, 16
	src := make([]byte, rows*aligned)
	for row := 0; row < rows; row++ {
		for i := 0; i < tight; i++ {
			src[row*aligned+i] = byte(row*tight + i)
		}
	}

	dst := depadRows(src, nil, tight, aligned, rows)
	if len(dst) != rows*tight {
		t.Fatalf("expected %d bytes, got %d", rows*tight, len(dst))
	}
	for i := range dst {
		if dst[i] != byte(i) {
			t.Fatalf("byte %d: expected %d, got %d", i, i, dst[i])
		}
	}

	// A large enough dst is reused.
	reused := depadRows(src, dst, tight, aligned, rows)
	if &reused[0] != &dst[0] {
		t.Error("expected dst backing array to be reused")
	}
}

func TestSwapBGRAToRGBA(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	swapBGRAToRGBA(pixels)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range want {
		if pixels[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], pixels[i])
		}
	}
}

func TestIsBGRAFormat(t *testing.T) {
	cases := []struct {
		format gputypes.TextureFormat
		want   bool
	}{
		{gputypes.TextureFormatBGRA8Unorm, true},
		{gputypes.TextureFormatBGRA8UnormSrgb, true},
		{gputypes.TextureFormatRGBA8Unorm, false},
		{gputypes.TextureFormatRGBA8UnormSrgb, false},
	}
	for _, tc := range cases {
		if got := isBGRAFormat(tc.format); got != tc.want {
			t.Errorf("isBGRAFormat(%v) = %v, want %v", tc.format, got, tc.want)
		}
	}
}

func TestOffscreenRenderFrameBGRASrgb(t *testing.T) {
	// The surface format an editor window actually gets is the sRGB BGRA
	// variant; readback through it must take the channel-swap path and
	// still produce tight RGBA output.
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := New(device, queue, gputypes.TextureFormatBGRA8UnormSrgb)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Destroy()

	o, err := NewOffscreen(r, 32, 32)
	if err != nil {
		t.Fatalf("NewOffscreen failed: %v", err)
	}
	defer o.Destroy()

	f, err := r.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame failed: %v", err)
	}
	f.Draw(Rect{Pos: f32.Vec2{-1, -1}, Size: f32.Vec2{2, 2}, Color: f32.Vec3{1, 0, 0}})

	if err := o.RenderFrame(f, gputypes.Color{A: 1}); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if len(o.Pixels()) != 32*32*4 {
		t.Fatalf("expected %d pixel bytes, got %d", 32*32*4, len(o.Pixels()))
	}
}

func TestOffscreenStagingBufferReuse(t *testing.T) {
	r, o, cleanup := testTarget(t)
	defer cleanup()

	render := func() {
		t.Helper()
		f, err := r.BeginFrame()
		if err != nil {
			t.Fatalf("BeginFrame failed: %v", err)
		}
		f.Draw(Rect{Pos: f32.Vec2{-1, -1}, Size: f32.Vec2{2, 2}})
		if err := o.RenderFrame(f, gputypes.Color{}); err != nil {
			t.Fatalf("RenderFrame failed: %v", err)
		}
	}

	render()
	if o.staging == nil {
		t.Fatal("expected staging buffer after first RenderFrame")
	}
	first := o.staging

	// Same target size: the staging buffer is reused, not recreated.
	render()
	if o.staging != first {
		t.Error("staging buffer recreated for an unchanged target size")
	}

	// A resize invalidates it; the next frame allocates a fresh one.
	if err := o.Resize(16, 16); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if o.staging != nil {
		t.Error("expected staging buffer released on Resize")
	}
	render()
	if o.staging == nil {
		t.Error("expected staging buffer after post-resize RenderFrame")
	}
}
