package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/coverflow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/coverflow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// TextureHandle identifies a texture uploaded through the Renderer. The zero value means no texture.
type TextureHandle uint32

// MeshHandle identifies a mesh uploaded through the Renderer. The zero value means no mesh.
type MeshHandle uint32

// NoTexture is the zero TextureHandle.
const NoTexture TextureHandle = 0

// ErrUnknownHandle is returned when a handle does not name a live resource.
var ErrUnknownHandle = errors.New("unknown handle")

const coverflowPipelineKey = "coverflow"

// Surface is what the renderer needs from a window: a WebGPU surface descriptor and the framebuffer size.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	pipeline    pipeline.Pipeline
	sampler     *wgpu.Sampler
	frame       bind_group_provider.BindGroupProvider
	placeholder bind_group_provider.BindGroupProvider

	meshes     map[MeshHandle]bind_group_provider.BindGroupProvider
	textures   map[TextureHandle]bind_group_provider.BindGroupProvider
	nextHandle uint32

	// slots hold one object uniform buffer each; slotCursor is reset every frame.
	slots      []bind_group_provider.BindGroupProvider
	slotCursor int
	writes     []bind_group_provider.BufferWrite
	inFrame    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws the cover-flow scene. It hides every GPU object behind opaque handles so scene code
// can be driven by a recording fake in tests.
//
// A frame is BeginFrame, any number of Draw calls, EndFrame, then Present.
// All methods must be called from the thread that created the Renderer.
type Renderer interface {
	// Resize reconfigures the surface for a new size. A zero size is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface attachments could not be recreated
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode. A call to Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// UploadMesh uploads geometry and returns its handle.
	//
	// Parameters:
	//   - label: a debug label
	//   - mesh: the geometry
	//
	// Returns:
	//   - MeshHandle: the handle to draw with
	//   - error: an error if the upload fails
	UploadMesh(label string, mesh layout.Mesh) (MeshHandle, error)

	// UploadTexture uploads RGBA pixels and returns a texture handle.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the staged pixels
	//
	// Returns:
	//   - TextureHandle: the handle, never NoTexture on success
	//   - error: an error if the upload fails
	UploadTexture(label string, data *common.TextureStagingData) (TextureHandle, error)

	// ReleaseTexture frees a texture. Unknown handles and NoTexture are ignored.
	//
	// Parameters:
	//   - h: the handle to free
	ReleaseTexture(h TextureHandle)

	// BeginFrame acquires the swapchain image and uploads the frame uniforms.
	//
	// Parameters:
	//   - frame: camera, light and colors for this frame
	//
	// Returns:
	//   - error: an error if no swapchain image is available
	BeginFrame(frame FrameParams) error

	// Draw records one draw of mesh with the given uniforms and textures.
	// NoTexture for front or back shades that face with the tint color.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - params: per-draw uniforms
	//   - front: the front face texture
	//   - back: the back face texture
	//
	// Returns:
	//   - error: an error if the mesh is unknown or no frame is open
	Draw(mesh MeshHandle, params DrawParams, front, back TextureHandle) error

	// EndFrame flushes uniform writes and submits the frame.
	EndFrame()

	// Present displays the submitted frame.
	Present()

	// Release frees every GPU resource owned by the Renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given window and registers the cover-flow pipeline.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the window whose surface is rendered to, usually a window.Window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the GPU could not be initialized
func NewRenderer(backendType RendererBackendType, win Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      zap.NewNop(),
		meshes:      make(map[MeshHandle]bind_group_provider.BindGroupProvider),
		textures:    make(map[TextureHandle]bind_group_provider.BindGroupProvider),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		return nil, err
	}
	if err := r.initPipeline(); err != nil {
		r.Release()
		return nil, err
	}

	r.logger.Info("renderer ready",
		zap.Int("width", win.Width()),
		zap.Int("height", win.Height()),
		zap.Uint32("msaa", uint32(msaa)),
	)
	return r, nil
}

// initPipeline registers the cover-flow pipeline and creates the shared frame, sampler and
// placeholder resources.
func (r *renderer) initPipeline() error {
	vs, fs, err := shader.NewCoverflowShaders()
	if err != nil {
		return err
	}
	p := pipeline.NewPipeline(coverflowPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("register pipeline: %w", err)
	}
	r.pipeline = p

	r.sampler, err = r.backend.CreateSampler(common.CoverSampler())
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}

	r.frame = bind_group_provider.NewBindGroupProvider("Frame")
	if err := r.backend.InitBindGroup(r.frame, p.BindGroupLayout(shader.GroupFrame), fs.BindGroupLayoutDescriptors()[shader.GroupFrame], nil); err != nil {
		return fmt.Errorf("frame bind group: %w", err)
	}

	// A 1x1 white texture fills texture slots for faces without an image.
	r.placeholder, err = r.newTextureProvider("Placeholder", &common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	return err
}

func (r *renderer) newTextureProvider(label string, data *common.TextureStagingData) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitTexture(provider, 0, *data); err != nil {
		provider.Release()
		return nil, err
	}
	// Front and back share one layout shape, so one bind group serves either slot.
	desc := r.pipeline.Shader(shader.ShaderTypeFragment).BindGroupLayoutDescriptors()[shader.GroupFront]
	if err := r.backend.InitBindGroup(provider, r.pipeline.BindGroupLayout(shader.GroupFront), desc, r.sampler); err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) UploadMesh(label string, mesh layout.Mesh) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)
	err := r.backend.InitMeshBuffers(provider,
		common.SliceToBytes(mesh.Vertices),
		common.SliceToBytes(mesh.Indices),
		len(mesh.Indices),
	)
	if err != nil {
		provider.Release()
		return 0, fmt.Errorf("upload mesh %s: %w", label, err)
	}
	r.nextHandle++
	h := MeshHandle(r.nextHandle)
	r.meshes[h] = provider
	return h, nil
}

func (r *renderer) UploadTexture(label string, data *common.TextureStagingData) (TextureHandle, error) {
	if data == nil {
		return NoTexture, fmt.Errorf("upload texture %s: no pixels", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	provider, err := r.newTextureProvider(label, data)
	if err != nil {
		return NoTexture, fmt.Errorf("upload texture %s: %w", label, err)
	}
	r.nextHandle++
	h := TextureHandle(r.nextHandle)
	r.textures[h] = provider
	return h, nil
}

func (r *renderer) ReleaseTexture(h TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if provider, ok := r.textures[h]; ok {
		provider.Release()
		delete(r.textures, h)
	}
}

func (r *renderer) BeginFrame(frame FrameParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clearColor := wgpu.Color{
		R: float64(frame.ClearColor[0]),
		G: float64(frame.ClearColor[1]),
		B: float64(frame.ClearColor[2]),
		A: 1,
	}
	if err := r.backend.BeginFrame(clearColor); err != nil {
		return err
	}
	r.inFrame = true
	r.slotCursor = 0
	r.writes = append(r.writes[:0], bind_group_provider.BufferWrite{
		Provider: r.frame,
		Binding:  0,
		Data:     frame.Marshal(),
	})
	return nil
}

func (r *renderer) Draw(mesh MeshHandle, params DrawParams, front, back TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return errors.New("draw outside of a frame")
	}
	meshProvider, ok := r.meshes[mesh]
	if !ok {
		return fmt.Errorf("mesh %d: %w", mesh, ErrUnknownHandle)
	}
	slot, err := r.nextSlot()
	if err != nil {
		return err
	}
	frontProvider, hasFront := r.textures[front]
	if !hasFront {
		frontProvider = r.placeholder
	}
	backProvider, hasBack := r.textures[back]
	if !hasBack {
		backProvider = r.placeholder
	}

	r.writes = append(r.writes, bind_group_provider.BufferWrite{
		Provider: slot,
		Binding:  0,
		Data:     params.marshal(hasFront, hasBack),
	})
	r.backend.DrawCall(r.pipeline, meshProvider, []bind_group_provider.BindGroupProvider{
		r.frame, slot, frontProvider, backProvider,
	})
	return nil
}

// nextSlot returns the next free object uniform slot, growing the pool on demand.
func (r *renderer) nextSlot() (bind_group_provider.BindGroupProvider, error) {
	if r.slotCursor < len(r.slots) {
		s := r.slots[r.slotCursor]
		r.slotCursor++
		return s, nil
	}
	slot := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Object Slot %d", len(r.slots)))
	desc := r.pipeline.Shader(shader.ShaderTypeFragment).BindGroupLayoutDescriptors()[shader.GroupObject]
	if err := r.backend.InitBindGroup(slot, r.pipeline.BindGroupLayout(shader.GroupObject), desc, nil); err != nil {
		slot.Release()
		return nil, fmt.Errorf("object slot: %w", err)
	}
	r.slots = append(r.slots, slot)
	r.slotCursor++
	return slot, nil
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return
	}
	// Queue writes land before the submitted commands execute.
	r.backend.WriteBuffers(r.writes)
	r.backend.EndFrame()
	r.writes = r.writes[:0]
	r.inFrame = false
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for h, p := range r.textures {
		p.Release()
		delete(r.textures, h)
	}
	for h, p := range r.meshes {
		p.Release()
		delete(r.meshes, h)
	}
	for _, s := range r.slots {
		s.Release()
	}
	r.slots = nil
	if r.placeholder != nil {
		r.placeholder.Release()
		r.placeholder = nil
	}
	if r.frame != nil {
		r.frame.Release()
		r.frame = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	r.backend.Release()
}
