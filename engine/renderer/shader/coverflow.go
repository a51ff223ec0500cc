package shader

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/coverflow.wgsl
var coverflowSource string

// Bind group indices used by coverflow.wgsl.
const (
	GroupFrame  = 0
	GroupObject = 1
	GroupFront  = 2
	GroupBack   = 3
)

// Uniform block sizes in bytes, matching FrameUniform and ObjectUniform in coverflow.wgsl.
const (
	FrameUniformSize  = 240
	ObjectUniformSize = 144
)

// VertexStride is the byte size of one vertex: position, normal, uv and face kind.
const VertexStride = 36

// CoverflowSource returns the embedded WGSL source of the cover-flow pipeline.
func CoverflowSource() string {
	return coverflowSource
}

// NewCoverflowShaders builds the vertex and fragment stages of the cover-flow pipeline with their
// bind group and vertex layouts declared.
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
//   - error: an error if either stage is invalid
func NewCoverflowShaders() (Shader, Shader, error) {
	frame := uniformLayout("Frame Uniform Layout", FrameUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	object := uniformLayout("Object Uniform Layout", ObjectUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	front := textureLayout("Front Texture Layout")
	back := textureLayout("Back Texture Layout")

	vs, err := NewShader("coverflow_vs", ShaderTypeVertex, coverflowSource,
		WithEntryPoint("vs_main"),
		WithBindGroupLayout(GroupFrame, frame),
		WithBindGroupLayout(GroupObject, object),
		WithVertexLayouts(wgpu.VertexBufferLayout{
			ArrayStride: VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32, Offset: 32, ShaderLocation: 3},
			},
		}),
	)
	if err != nil {
		return nil, nil, err
	}
	fs, err := NewShader("coverflow_fs", ShaderTypeFragment, coverflowSource,
		WithEntryPoint("fs_main"),
		WithBindGroupLayout(GroupFrame, frame),
		WithBindGroupLayout(GroupObject, object),
		WithBindGroupLayout(GroupFront, front),
		WithBindGroupLayout(GroupBack, back),
	)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}

func uniformLayout(label string, size uint64, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		},
	}
}

func textureLayout(label string) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}
