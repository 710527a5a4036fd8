// Package raster is the CPU reference for the GPU rectangle pipeline.
//
// It reproduces the pipeline's observable output (opaque flat fills,
// last-drawn-wins compositing, clip-space geometry with WebGPU NDC
// orientation) with plain pixel writes. Tests use it to verify what the
// shader pipeline is specified to produce, and headless environments without
// a GPU can use it as a fallback.
package raster

import (
	"image"
	"image/color"

	"github.com/crowlKats/devcode/rect"
)

// Fill renders the rectangles into img in order. Later rectangles overwrite
// earlier ones where they overlap, matching the opaque pipeline's
// order-dependent behavior; there is no alpha blending. Alpha is forced to
// 255, as the fragment stage forces alpha to 1.0.
func Fill(img *image.RGBA, rects []rect.Rect) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	for i := range rects {
		b := rectBounds(rects[i])
		if b.Empty() {
			continue
		}

		// Top-left pixel corner comes from (MinX, MaxY): clip y is up,
		// image rows grow down.
		x0, y0 := toPixel(b.MinX, b.MaxY, w, h)
		x1, y1 := toPixel(b.MaxX, b.MinY, w, h)

		x0 = clampInt(x0, 0, w)
		x1 = clampInt(x1, 0, w)
		y0 = clampInt(y0, 0, h)
		y1 = clampInt(y1, 0, h)

		c := toColor(rects[i].Color)
		for py := y0; py < y1; py++ {
			for px := x0; px < x1; px++ {
				img.SetRGBA(bounds.Min.X+px, bounds.Min.Y+py, c)
			}
		}
	}
}

// Clear fills the whole image with c at full opacity.
func Clear(img *image.RGBA, c color.RGBA) {
	c.A = 0xFF
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			img.SetRGBA(px, py, c)
		}
	}
}

// rectBounds mirrors the renderer's geometry normalization: canonical
// min/max corners with the optional clip intersected.
func rectBounds(r rect.Rect) rect.Bounds {
	b := rect.Bounds{
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

// toPixel converts a clip-space point to pixel coordinates with the y-flip
// between NDC (y up) and image rows (y down). Results are rounded to the
// nearest pixel edge.
func toPixel(x, y float32, w, h int) (px, py int) {
	fx := (x + 1) / 2 * float32(w)
	fy := (1 - y) / 2 * float32(h)
	return int(fx + 0.5), int(fy + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toColor quantizes normalized channels to 8-bit with rounding; out-of-range
// values are clamped rather than wrapped.
func toColor(c [3]float32) color.RGBA {
	return color.RGBA{
		R: quantize(c[0]),
		G: quantize(c[1]),
		B: quantize(c[2]),
		A: 0xFF,
	}
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}
