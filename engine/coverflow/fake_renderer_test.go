package coverflow

import (
	"image"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"github.com/Carmen-Shannon/coverflow/engine/texture_cache"
)

type drawCall struct {
	mesh        renderer.MeshHandle
	params      renderer.DrawParams
	front, back renderer.TextureHandle
}

// recordingRenderer stands in for the GPU renderer and keeps every call.
type recordingRenderer struct {
	meshes   map[renderer.MeshHandle]string
	textures map[renderer.TextureHandle]string
	next     uint32
	released []renderer.TextureHandle

	frames    int
	ended     int
	draws     []drawCall
	lastFrame renderer.FrameParams
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		meshes:   make(map[renderer.MeshHandle]string),
		textures: make(map[renderer.TextureHandle]string),
	}
}

func (r *recordingRenderer) Resize(width, height int) error           { return nil }
func (r *recordingRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (r *recordingRenderer) UploadMesh(label string, mesh layout.Mesh) (renderer.MeshHandle, error) {
	r.next++
	h := renderer.MeshHandle(r.next)
	r.meshes[h] = label
	return h, nil
}

func (r *recordingRenderer) UploadTexture(label string, data *common.TextureStagingData) (renderer.TextureHandle, error) {
	r.next++
	h := renderer.TextureHandle(r.next)
	r.textures[h] = label
	return h, nil
}

func (r *recordingRenderer) ReleaseTexture(h renderer.TextureHandle) {
	delete(r.textures, h)
	r.released = append(r.released, h)
}

func (r *recordingRenderer) BeginFrame(frame renderer.FrameParams) error {
	r.frames++
	r.draws = r.draws[:0]
	r.lastFrame = frame
	return nil
}

func (r *recordingRenderer) Draw(mesh renderer.MeshHandle, params renderer.DrawParams, front, back renderer.TextureHandle) error {
	r.draws = append(r.draws, drawCall{mesh: mesh, params: params, front: front, back: back})
	return nil
}

func (r *recordingRenderer) EndFrame() { r.ended++ }
func (r *recordingRenderer) Present()  {}
func (r *recordingRenderer) Release()  {}

// boxDraws returns the draws of mesh label "Cover Box".
func (r *recordingRenderer) boxDraws() []drawCall {
	var out []drawCall
	for _, d := range r.draws {
		if r.meshes[d.mesh] == "Cover Box" {
			out = append(out, d)
		}
	}
	return out
}

type plainBackFaces struct{}

func (plainBackFaces) Render(content texture_cache.BackFaceContent) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 8)), nil
}

func squareLoader(path string, maxSize int) (*image.RGBA, texture_cache.Geometry, error) {
	if path == "" {
		return nil, texture_cache.Geometry{}, texture_cache.ErrNoImagePath
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 3)), texture_cache.Geometry{Aspect: 2.0 / 3.0, Width: 2, Height: 3}, nil
}
