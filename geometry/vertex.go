package geometry

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// VertexStride is the size of one packed Vertex in bytes:
// position (3 x float32) + color (4 x float32).
const VertexStride = 28

// Vertex is a colored point in normalized device coordinates.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// VertexLayout returns the buffer layout matching Vertex:
// location 0 is the position (Float32x3), location 1 the color (Float32x4).
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}
}

// VertexBytes packs vertices into a little-endian buffer suitable for
// queue.WriteBuffer.
func VertexBytes(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		off := i * VertexStride
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
		off += 12
		for j, f := range v.Color {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// IndexBytes packs uint16 indices into a little-endian buffer. The result
// is padded to a multiple of 4 bytes, since buffer copies must be 4-byte
// aligned.
func IndexBytes(indices []uint16) []byte {
	n := len(indices) * 2
	if n%4 != 0 {
		n += 4 - n%4
	}
	buf := make([]byte, n)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
