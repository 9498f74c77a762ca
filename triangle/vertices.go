package triangle

import (
	"encoding/binary"
	"unsafe"

	"github.com/oliverbestmann/hellotriangle/glm"
	"github.com/oliverbestmann/hellotriangle/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
	"golang.org/x/mobile/exp/f32"
)

// Vertices of the triangle in normalized device coordinates.
var Vertices = [VertexCount]glm.Vec3f{
	{0.0, 1.0, 0.0},
	{-1.0, -1.0, 0.0},
	{1.0, -1.0, 0.0},
}

const VertexCount = 3

// VertexStride is the size of a single vertex in bytes.
const VertexStride = uint64(unsafe.Sizeof(glm.Vec3f{}))

// VertexDataSize is the size of the vertex data in bytes.
const VertexDataSize = VertexCount * VertexStride

// VertexData encodes the vertices as tightly packed little endian float32 values.
func VertexData() []byte {
	return f32.Bytes(binary.LittleEndian, glm.Flatten(Vertices[:])...)
}

func VertexLayout() pulse.VertexLayout {
	return pulse.VertexLayout{
		Stride: VertexStride,
		Attributes: []pulse.VertexAttribute{
			{
				// position
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: 0,
			},
		},
	}
}
