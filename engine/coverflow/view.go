// Package coverflow ties the carousel together: it owns the focus and model binding, advances the
// animations, routes input through the interaction controller and draws each frame.
package coverflow

import (
	"time"

	"github.com/Carmen-Shannon/coverflow/engine/animation"
	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"github.com/Carmen-Shannon/coverflow/engine/interaction"
	"github.com/Carmen-Shannon/coverflow/engine/layout"
	"github.com/Carmen-Shannon/coverflow/engine/light"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"github.com/Carmen-Shannon/coverflow/engine/texture_cache"
	"go.uber.org/zap"
)

// DefaultWindowRadius is how many visible items on each side of the focus are drawn.
const DefaultWindowRadius = 10

// View is one cover-flow carousel. Every method must be called from the render thread.
type View interface {
	// SetModelAndIndex points the view at a model and focuses row. A new model identity or a changed
	// visible count invalidates the texture cache and jumps straight to row; otherwise a move to another
	// row scrolls there.
	//
	// Parameters:
	//   - model: the host binding
	//   - row: the row to focus
	//   - rows: the visible-row view, nil to use model
	SetModelAndIndex(model HostBinding, row int, rows VisibleRows)

	// DeferSelectionEffect runs fn now when no scroll is running. Otherwise fn runs once when the scroll
	// commits; a later call replaces an earlier pending fn.
	//
	// Parameters:
	//   - fn: the side effect
	DeferSelectionEffect(fn func())

	// Frame advances animations and the camera to now.
	//
	// Parameters:
	//   - now: the frame time
	Frame(now time.Time)

	// Render draws the carousel. It draws nothing and returns false while the focused row is hidden.
	//
	// Parameters:
	//   - r: the renderer to draw with
	//
	// Returns:
	//   - bool: whether a frame was drawn
	//   - error: an error if the frame could not be started
	Render(r renderer.Renderer) (bool, error)

	// NeedsFrame reports whether the view changes on the next frame.
	NeedsFrame() bool

	// SetViewportSize informs the view of the framebuffer size.
	SetViewportSize(width, height int)

	// Controller returns the input controller to feed window events to.
	Controller() interaction.Controller

	// FocusRow returns the committed focused row, false when it is hidden or unset.
	FocusRow() (int, bool)

	// TextureCache returns the view's texture cache.
	TextureCache() texture_cache.TextureCache

	// Camera returns the view's camera.
	Camera() camera.Camera

	// Release frees the view's textures.
	//
	// Parameters:
	//   - r: the renderer the textures were created with
	Release(r renderer.Renderer) error
}

type viewImpl struct {
	model    HostBinding
	rows     VisibleRows
	source   string
	identity string
	count    int
	hasModel bool

	// focusRow is the committed focus; targetRow is the latest row the host asked for.
	focusRow      int
	targetRow     int
	focusPosition float32
	deferred      func()

	snap      snapshot
	snapValid bool
	dirty     bool

	// stepping holds host echoes back while Step sends a run of OnNavigate calls; only the last is applied.
	stepping    bool
	pendingEcho *echo

	params     layout.Params
	anims      animation.AnimationSet
	controller interaction.Controller
	cache      texture_cache.TextureCache
	camera     camera.Camera
	light      light.Light

	boxMesh    renderer.MeshHandle
	groundMesh renderer.MeshHandle

	width, height  int
	windowRadius   int
	prefetchRadius int

	clearColor       [4]float32
	groundColor      [4]float32
	placeholderColor [4]float32
	sideColor        [4]float32

	clock             func() time.Time
	logger            *zap.Logger
	controllerOptions []interaction.ControllerBuilderOption
	cacheOptions      []texture_cache.TextureCacheBuilderOption
}

var _ View = &viewImpl{}
var _ animation.Scene = &viewImpl{}
var _ interaction.Navigator = &viewImpl{}
var _ interaction.Viewport = &viewImpl{}

// NewView creates a View with its own camera, light, animation set and texture cache unless
// options supply them.
//
// Parameters:
//   - options: variadic list of ViewBuilderOption
//
// Returns:
//   - View: the view
//   - error: an error if the texture cache cannot be created
func NewView(options ...ViewBuilderOption) (View, error) {
	v := &viewImpl{
		params:           layout.DefaultParams(),
		windowRadius:     DefaultWindowRadius,
		prefetchRadius:   texture_cache.DefaultPrefetchRadius,
		clearColor:       [4]float32{0.055, 0.058, 0.07, 1},
		groundColor:      [4]float32{0.11, 0.115, 0.13, 1},
		placeholderColor: [4]float32{0.32, 0.33, 0.37, 1},
		sideColor:        [4]float32{0.07, 0.07, 0.08, 1},
		clock:            time.Now,
		logger:           zap.NewNop(),
		dirty:            true,
	}
	for _, opt := range options {
		opt(v)
	}

	if v.anims == nil {
		v.anims = animation.NewAnimationSet(animation.WithLogger(v.logger))
	}
	if v.camera == nil {
		v.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if v.light == nil {
		v.light = light.NewSpotLight()
	}
	if v.cache == nil {
		opts := append([]texture_cache.TextureCacheBuilderOption{
			texture_cache.WithBoxAspect(v.params.BoxAspect()),
			texture_cache.WithPrefetchRadius(v.prefetchRadius),
			texture_cache.WithLogger(v.logger),
		}, v.cacheOptions...)
		cache, err := texture_cache.NewTextureCache(opts...)
		if err != nil {
			return nil, err
		}
		v.cache = cache
	}

	ctrlOpts := append([]interaction.ControllerBuilderOption{
		interaction.WithSpacing(v.params.Spacing),
		interaction.WithLogger(v.logger),
	}, v.controllerOptions...)
	v.controller = interaction.NewController(v, v, v.anims, ctrlOpts...)
	return v, nil
}

// visible returns the row snapshot for the current frame or input pass.
func (v *viewImpl) visible() snapshot {
	if !v.snapValid {
		v.snap = takeSnapshot(v.rows)
		v.snapValid = true
	}
	return v.snap
}

// echo is a SetModelAndIndex call held back during Step.
type echo struct {
	model HostBinding
	row   int
	rows  VisibleRows
}

func (v *viewImpl) SetModelAndIndex(model HostBinding, row int, rows VisibleRows) {
	if model == nil {
		return
	}
	if v.stepping {
		v.pendingEcho = &echo{model: model, row: row, rows: rows}
		return
	}
	if rows == nil {
		rows = model
	}
	now := v.clock()

	source := sourceKey(model)
	modelChanged := !v.hasModel || source != v.source
	v.model, v.rows, v.source = model, rows, source
	v.snapValid = false
	snap := v.visible()
	identity := identityOf(model)
	v.dirty = true

	if modelChanged || identity != v.identity || snap.len() != v.count {
		v.identity, v.count, v.hasModel = identity, snap.len(), true
		v.reset(row, modelChanged)
		return
	}

	if row == v.targetRow {
		return
	}
	to, ok := snap.rank(row)
	if !ok {
		v.logger.Debug("focus row hidden", zap.Int("row", row))
		v.anims.Cancel(animation.KindScroll)
		v.focusRow, v.targetRow = row, row
		return
	}
	v.anims.StartScroll(v.currentPosition(snap), float32(to), row, now)
	v.targetRow = row
	v.prefetch(row)
}

// reset drops all per-model state and focuses row without animating.
func (v *viewImpl) reset(row int, modelChanged bool) {
	if modelChanged {
		v.cache.SetSource(v.model)
	} else {
		v.cache.Invalidate()
	}
	v.anims.Cancel(animation.KindScroll)
	v.anims.Cancel(animation.KindMomentum)
	v.anims.Cancel(animation.KindSettle)
	v.anims.ClearRotations()
	v.controller.SetOffset(0)

	v.focusRow, v.targetRow = row, row
	if rank, ok := v.visible().rank(row); ok {
		v.focusPosition = float32(rank)
	}
	v.logger.Debug("model reset", zap.String("identity", v.identity), zap.Int("visible", v.count), zap.Int("row", row))
	v.replayDeferred()
	v.prefetch(row)
}

// currentPosition is the focus position a new scroll starts from.
func (v *viewImpl) currentPosition(snap snapshot) float32 {
	if v.anims.IsActive(animation.KindScroll) {
		return v.focusPosition
	}
	rank, _ := snap.rank(v.focusRow)
	return float32(rank)
}

func (v *viewImpl) replayDeferred() {
	if fn := v.deferred; fn != nil {
		v.deferred = nil
		fn()
	}
}

func (v *viewImpl) DeferSelectionEffect(fn func()) {
	if fn == nil {
		return
	}
	if !v.anims.IsActive(animation.KindScroll) {
		fn()
		return
	}
	v.deferred = fn
}

// prefetch asks the cache to decode the rows around row in the background.
func (v *viewImpl) prefetch(row int) {
	snap := v.visible()
	center, ok := snap.rank(row)
	if !ok || v.model == nil {
		return
	}
	lo := max(center-v.prefetchRadius, 0)
	hi := min(center+v.prefetchRadius, snap.len()-1)
	sources := make([]texture_cache.PrefetchSource, 0, hi-lo+1)
	for rank := lo; rank <= hi; rank++ {
		r := snap.rows[rank]
		sources = append(sources, texture_cache.PrefetchSource{Row: r, Path: v.model.ImagePath(r)})
	}
	v.cache.StartPrefetch(center-lo, v.prefetchRadius, sources)
}

func (v *viewImpl) Frame(now time.Time) {
	v.snapValid = false
	v.anims.Advance(now, v)
	v.camera.Update()
}

func (v *viewImpl) NeedsFrame() bool {
	return v.dirty || v.anims.Active() || v.controller.Dragging()
}

func (v *viewImpl) SetViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = width, height
	v.camera.SetAspect(float32(width) / float32(height))
	v.dirty = true
}

func (v *viewImpl) Controller() interaction.Controller {
	return v.controller
}

func (v *viewImpl) FocusRow() (int, bool) {
	if !v.hasModel {
		return 0, false
	}
	_, ok := v.visible().rank(v.focusRow)
	return v.focusRow, ok
}

func (v *viewImpl) TextureCache() texture_cache.TextureCache {
	return v.cache
}

func (v *viewImpl) Camera() camera.Camera {
	return v.camera
}

func (v *viewImpl) Release(r renderer.Renderer) error {
	return v.cache.Close(r)
}

// Scene

func (v *viewImpl) SetFocusPosition(pos float32) {
	v.focusPosition = pos
}

func (v *viewImpl) CommitScroll(row int) {
	v.focusRow = row
	if rank, ok := v.visible().rank(row); ok {
		v.focusPosition = float32(rank)
	}
	v.replayDeferred()
	if v.model != nil {
		v.model.OnScrollAnimationComplete(row)
	}
	v.dirty = true
}

func (v *viewImpl) SetCameraZ(z float32) {
	v.camera.Controller().SetCameraZ(z)
}

func (v *viewImpl) SetPan(x, y float32) {
	v.camera.Controller().SetPan(x, y)
}

func (v *viewImpl) DragOffset() float32 {
	return v.controller.Offset()
}

func (v *viewImpl) SetDragOffset(offset float32) {
	v.controller.SetOffset(offset)
}

func (v *viewImpl) ApplyOffsetDelta(delta float32) bool {
	return v.controller.ApplyOffsetDelta(delta)
}

// Navigator

func (v *viewImpl) IsAtBoundary(direction int) bool {
	snap := v.visible()
	rank, ok := snap.rank(v.focusRow)
	if !ok {
		return true
	}
	if direction < 0 {
		return rank <= 0
	}
	return rank >= snap.len()-1
}

func (v *viewImpl) Navigate(direction int) {
	if v.anims.IsActive(animation.KindScroll) {
		v.anims.Cancel(animation.KindScroll)
		v.CommitScroll(v.targetRow)
	}
	snap := v.visible()
	rank, ok := snap.rank(v.focusRow)
	if !ok {
		return
	}
	next := rank + direction
	if next < 0 || next >= snap.len() {
		return
	}
	row := snap.rows[next]
	v.focusRow, v.targetRow = row, row
	v.focusPosition = float32(next)
	v.dirty = true
	v.prefetch(row)
	if v.model != nil {
		v.model.OnNavigate(direction)
	}
}

func (v *viewImpl) Step(n int) {
	if n == 0 || v.model == nil {
		return
	}
	snap := v.visible()
	rank, ok := snap.rank(v.targetRow)
	if !ok {
		return
	}
	dest := min(max(rank+n, 0), snap.len()-1)
	if dest == rank {
		return
	}
	if j, ok := v.model.(Jumper); ok {
		j.OnNavigateTo(snap.rows[dest])
		return
	}

	direction := 1
	if dest < rank {
		direction = -1
	}
	model := v.model
	v.stepping = true
	for i := rank; i != dest; i += direction {
		model.OnNavigate(direction)
	}
	v.stepping = false
	if e := v.pendingEcho; e != nil {
		v.pendingEcho = nil
		v.SetModelAndIndex(e.model, e.row, e.rows)
	}
}

// Viewport

func (v *viewImpl) WorldPerPixel() float32 {
	return v.camera.WorldPerPixel(float32(v.height))
}

func (v *viewImpl) Pan() (float32, float32) {
	return v.camera.Controller().Pan()
}

func (v *viewImpl) PanBy(dx, dy float32) {
	v.camera.Controller().PanBy(dx, dy)
	v.dirty = true
}

func (v *viewImpl) CameraZ() float32 {
	return v.camera.Controller().CameraZ()
}

func (v *viewImpl) MinCameraZ() float32 {
	return v.camera.Controller().MinCameraZ()
}

func (v *viewImpl) MaxCameraZ() float32 {
	return v.camera.Controller().MaxCameraZ()
}

func (v *viewImpl) DefaultCameraZ() float32 {
	return v.camera.Controller().DefaultCameraZ()
}

func (v *viewImpl) Fov() float32 {
	return v.camera.Fov()
}

func (v *viewImpl) SetFov(fov float32) {
	v.camera.SetFov(fov)
	v.dirty = true
}
