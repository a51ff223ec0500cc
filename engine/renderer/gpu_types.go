package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/light"
	"github.com/Carmen-Shannon/coverflow/engine/renderer/shader"
)

// FrameParams is everything that is constant across the draws of one frame.
// Serialized as the FrameUniform struct in coverflow.wgsl.
type FrameParams struct {
	Camera      camera.GPUCameraUniform // offset   0
	Light       light.GPULight          // offset 144
	ClearColor  [4]float32              // offset 208
	GroundColor [4]float32              // offset 224
}

// Marshal serializes the frame block for GPU upload.
//
// Returns:
//   - []byte: 240-byte buffer
func (f *FrameParams) Marshal() []byte {
	buf := make([]byte, shader.FrameUniformSize)
	copy(buf[0:], f.Camera.Marshal())
	copy(buf[144:], f.Light.Marshal())
	putVec4(buf[208:], f.ClearColor)
	putVec4(buf[224:], f.GroundColor)
	return buf
}

// DrawParams describes one box or ground draw. Serialized as the ObjectUniform struct in coverflow.wgsl.
type DrawParams struct {
	// Model is the column-major model matrix.
	Model [16]float32
	// Tint.rgb colors faces that have no texture and the letterbox area; Tint.a is the distance fade.
	Tint [4]float32
	// FrontUV and BackUV place the textures inside their faces.
	FrontUV, BackUV layout.UVRect
	// SideColor colors the box edges.
	SideColor [4]float32
}

// marshal serializes the draw block. hasFront and hasBack tell the shader whether a real texture is bound.
func (d *DrawParams) marshal(hasFront, hasBack bool) []byte {
	buf := make([]byte, shader.ObjectUniformSize)
	for i, v := range d.Model {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	putVec4(buf[64:], d.Tint)
	putVec4(buf[80:], [4]float32{d.FrontUV.OffsetU, d.FrontUV.OffsetV, d.FrontUV.ScaleU, d.FrontUV.ScaleV})
	putVec4(buf[96:], [4]float32{d.BackUV.OffsetU, d.BackUV.OffsetV, d.BackUV.ScaleU, d.BackUV.ScaleV})
	putVec4(buf[112:], [4]float32{flag(hasFront), flag(hasBack), 0, 0})
	putVec4(buf[128:], d.SideColor)
	return buf
}

func putVec4(buf []byte, v [4]float32) {
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
