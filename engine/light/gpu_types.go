package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULight is the GPU-aligned spotlight block that follows the camera block in the frame uniform buffer.
// Matches the SpotLight struct in coverflow.wgsl. Position and direction are in view space.
// Size: 64 bytes (WGSL aligned).
type GPULight struct {
	Position   [3]float32 // offset  0: view-space position
	LightRange float32    // offset 12: attenuation cutoff distance
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
	Direction  [3]float32 // offset 32: view-space cone axis
	InnerCone  float32    // offset 44: cos(inner half-angle)
	OuterCone  float32    // offset 48: cos(outer half-angle)
	Ambient    float32    // offset 52: ambient floor
	_pad       [2]float32 // offset 56: padding to 64 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	put(0, g.Position[0])
	put(4, g.Position[1])
	put(8, g.Position[2])
	put(12, g.LightRange)
	put(16, g.Color[0])
	put(20, g.Color[1])
	put(24, g.Color[2])
	put(28, g.Intensity)
	put(32, g.Direction[0])
	put(36, g.Direction[1])
	put(40, g.Direction[2])
	put(44, g.InnerCone)
	put(48, g.OuterCone)
	put(52, g.Ambient)
	return buf
}
