package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/coverflow"
	"github.com/Carmen-Shannon/coverflow/engine/profiler"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"github.com/Carmen-Shannon/coverflow/engine/window"
	"go.uber.org/zap"
)

// ErrNoView is returned by Run when the engine was built without a view.
var ErrNoView = errors.New("engine has no view")

// engine implements the Engine interface.
// Owns the window, the renderer and the view, and drives them from the thread that created the window.
type engine struct {
	quit    atomic.Bool
	running bool

	window        window.Window
	windowOptions []window.WindowBuilderOption

	renderer        renderer.Renderer
	rendererOptions []renderer.RendererBuilderOption

	view coverflow.View

	logger *zap.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	frameInterval time.Duration // minimum frame duration while animating
	idleTimeout   time.Duration // longest block in WaitEvents while idle

	keyCallback func(key int, mods common.ModifierKey)

	// heldButton is the mouse button currently driving a pointer gesture, or -1.
	heldButton int
	now        func() time.Time
}

// Engine is the main entry point for the engine.
// It runs the event and frame loop that connects the window, the renderer and the cover-flow view.
type Engine interface {
	// Window returns the window. Nil until Run creates it, unless one was supplied with WithWindow.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// View returns the cover-flow view driven by the engine.
	//
	// Returns:
	//   - coverflow.View: the view
	View() coverflow.View

	// EnableProfiler enables frame statistics output to the logger.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetFrameRate sets the frame rate cap used while the view is animating.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetFrameRate(fps float64)

	// SetKeyCallback registers a function called for every key press after the view's controller
	// has handled it. Hosts use it for their own bindings.
	//
	// Parameters:
	//   - callback: function receiving the key code and held modifiers
	SetKeyCallback(callback func(key int, mods common.ModifierKey))

	// Run creates the window and renderer if needed and runs the loop until the window closes or Quit
	// is called. GPU resources held by the view are released before it returns.
	//
	// Returns:
	//   - error: an error if the window or renderer could not be created
	Run() error

	// Quit asks the loop to stop after the current iteration.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, view, profiling, frame rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:          zap.NewNop(),
		profileInterval: 5 * time.Second,
		frameInterval:   time.Second / 60,
		idleTimeout:     500 * time.Millisecond,
		heldButton:      -1,
		now:             time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	e.profiler = profiler.NewProfiler(e.logger, e.profileInterval)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) View() coverflow.View {
	return e.view
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.frameInterval = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetKeyCallback(callback func(key int, mods common.ModifierKey)) {
	e.keyCallback = callback
}

func (e *engine) Quit() {
	e.quit.Store(true)
}

func (e *engine) Run() (err error) {
	if e.view == nil {
		return ErrNoView
	}

	// GLFW and the wgpu surface must stay on the thread that created them.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if e.window == nil {
		w, err := window.NewWindow(e.windowOptions...)
		if err != nil {
			return err
		}
		e.window = w
	}
	defer func() {
		if cerr := e.window.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close window: %w", cerr)
		}
	}()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	e.renderer = r
	defer func() {
		if verr := e.view.Release(r); verr != nil {
			e.logger.Warn("release view", zap.Error(verr))
		}
		r.Release()
		e.renderer = nil
	}()

	e.bindInput()
	e.view.SetViewportSize(e.window.Width(), e.window.Height())

	e.running = true
	defer func() { e.running = false }()
	e.logger.Info("engine running",
		zap.Duration("frame_interval", e.frameInterval),
		zap.Duration("idle_timeout", e.idleTimeout),
	)

	for !e.quit.Load() && e.window.IsRunning() {
		if e.view.NeedsFrame() {
			e.window.PollEvents()
		} else {
			e.window.WaitEvents(e.idleTimeout)
		}
		if !e.view.NeedsFrame() {
			continue
		}
		e.frame()
	}
	return nil
}

// frame advances and draws one frame, then sleeps out the rest of the frame interval.
func (e *engine) frame() {
	start := e.now()
	e.view.Frame(start)

	drawn, err := e.view.Render(e.renderer)
	if err != nil {
		// A lost or outdated surface recovers on the next configure; keep the loop alive.
		e.logger.Warn("render frame", zap.Error(err))
	}
	if drawn && e.profilingEnabled {
		e.profiler.Tick(e.now())
	}

	if remaining := e.frameInterval - e.now().Sub(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

// bindInput routes window events to the view's controller and keeps the surface sized to the framebuffer.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(e.handleResize)
	e.window.SetMouseButtonCallback(e.handleMouseButton)
	e.window.SetMouseMoveCallback(e.handleMouseMove)
	e.window.SetScrollCallback(e.handleScroll)
	e.window.SetDoubleClickCallback(e.handleDoubleClick)
	e.window.SetKeyDownCallback(e.handleKeyDown)
}

func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized.
		return
	}
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.Warn("resize surface", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
			return
		}
	}
	e.view.SetViewportSize(width, height)
}

func (e *engine) handleMouseButton(button int, pressed bool, x, y float64) {
	c := e.view.Controller()
	now := e.now()
	if pressed {
		if e.heldButton >= 0 {
			return
		}
		if button != common.MouseButtonLeft && button != common.MouseButtonMiddle {
			return
		}
		e.heldButton = button
		c.PointerDown(button, x, y, now)
		return
	}
	if button != e.heldButton {
		return
	}
	e.heldButton = -1
	c.PointerUp(button, x, y, now)
}

func (e *engine) handleMouseMove(x, y float64) {
	if e.heldButton < 0 {
		return
	}
	e.view.Controller().PointerMove(e.heldButton, x, y, e.now())
}

func (e *engine) handleScroll(delta float64, mods common.ModifierKey) {
	e.view.Controller().Wheel(delta, mods, e.now())
}

func (e *engine) handleDoubleClick(button int) {
	e.view.Controller().DoubleClick(button, e.now())
}

func (e *engine) handleKeyDown(key int, mods common.ModifierKey) {
	e.view.Controller().Key(key, e.now())
	if e.keyCallback != nil {
		e.keyCallback(key, mods)
	}
}
