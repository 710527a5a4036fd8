package rect

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// vertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes  (location 0)
//	color    (vec3<f32>) = 12 bytes (location 1)
//
// Total = 20 bytes per vertex.
const vertexStride = 20

// vertsPerRect is the vertex count emitted per rectangle: two triangles
// sharing the quad diagonal.
const vertsPerRect = 6

// vertexLayout returns the vertex buffer layout for the rectangle pipeline.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

// appendRectVertices appends six encoded vertices covering b to dst.
// Both triangles wind counter-clockwise in NDC:
//
//	triangle 1: (min, min) -> (max, min) -> (min, max)
//	triangle 2: (max, min) -> (max, max) -> (min, max)
//
// A degenerate bounds (zero width or height) still emits six vertices; the
// GPU rasterizes nothing for them.
func appendRectVertices(dst []byte, b Bounds, color f32.Vec3) []byte {
	dst = growVertexBuffer(dst, vertsPerRect*vertexStride)

	n := len(dst)
	dst = dst[:n+vertsPerRect*vertexStride]
	buf := dst[n:]

	putVertex(buf[0*vertexStride:], b.MinX, b.MinY, color)
	putVertex(buf[1*vertexStride:], b.MaxX, b.MinY, color)
	putVertex(buf[2*vertexStride:], b.MinX, b.MaxY, color)
	putVertex(buf[3*vertexStride:], b.MaxX, b.MinY, color)
	putVertex(buf[4*vertexStride:], b.MaxX, b.MaxY, color)
	putVertex(buf[5*vertexStride:], b.MinX, b.MaxY, color)

	return dst
}

// growVertexBuffer ensures room for need more bytes, doubling the capacity
// until it fits. Amortized doubling keeps per-rectangle cost O(1) no matter
// how many rectangles a frame accumulates.
func growVertexBuffer(buf []byte, need int) []byte {
	if cap(buf)-len(buf) >= need {
		return buf
	}
	newCap := cap(buf) * 2
	if newCap == 0 {
		newCap = need
	}
	for newCap < len(buf)+need {
		newCap *= 2
	}
	grown := make([]byte, len(buf), newCap)
	copy(grown, buf)
	return grown
}

// putVertex writes a single vertex into buf.
// Layout: position (vec2<f32>) + color (vec3<f32>) = 20 bytes, little-endian.
func putVertex(buf []byte, x, y float32, color f32.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(color[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(color[1]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(color[2]))
}
