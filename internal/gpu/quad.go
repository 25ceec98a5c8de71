package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex is one quad corner: an NDC position and a texture coordinate.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

// Vertex buffer layout: position at 0, texcoord at 12, tightly packed.
const (
	vertexPositionOffset = 0
	vertexUVOffset       = 12
	vertexStride         = 20
)

// QuadIndexCount is the number of indices drawn per frame.
const QuadIndexCount = 6

// QuadVertices cover the whole viewport. Texture v grows downward, so the
// top row of the canvas lands at the top of the window.
var QuadVertices = [4]Vertex{
	{Position: [3]float32{-1, 1, 0}, UV: [2]float32{0, 0}},  // top left
	{Position: [3]float32{1, 1, 0}, UV: [2]float32{1, 0}},   // top right
	{Position: [3]float32{-1, -1, 0}, UV: [2]float32{0, 1}}, // bottom left
	{Position: [3]float32{1, -1, 0}, UV: [2]float32{1, 1}},  // bottom right
}

// QuadIndices form two counter-clockwise triangles.
var QuadIndices = [QuadIndexCount]uint16{0, 2, 3, 0, 3, 1}

// quadVertexLayout describes Vertex to the pipeline.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{
					Format:         gputypes.VertexFormatFloat32x3,
					Offset:         vertexPositionOffset,
					ShaderLocation: 0,
				},
				{
					Format:         gputypes.VertexFormatFloat32x2,
					Offset:         vertexUVOffset,
					ShaderLocation: 1,
				},
			},
		},
	}
}

// buildQuadVertexData serializes QuadVertices little-endian.
func buildQuadVertexData() []byte {
	buf := make([]byte, len(QuadVertices)*vertexStride)
	for i, v := range QuadVertices {
		off := i * vertexStride
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(buf[off+vertexPositionOffset+j*4:], math.Float32bits(f))
		}
		for j, f := range v.UV {
			binary.LittleEndian.PutUint32(buf[off+vertexUVOffset+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// buildQuadIndexData serializes QuadIndices little-endian.
func buildQuadIndexData() []byte {
	buf := make([]byte, len(QuadIndices)*2)
	for i, idx := range QuadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
