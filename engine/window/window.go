package window

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// All methods must be called from the thread that created the window.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta (positive away from the user) and held modifiers
	SetScrollCallback(callback func(delta float64, mods common.ModifierKey))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code and held modifiers
	SetKeyDownCallback(callback func(key int, mods common.ModifierKey))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it was pressed, and the cursor position
	SetMouseButtonCallback(callback func(button int, pressed bool, x, y float64))

	// SetDoubleClickCallback sets the callback for double clicks, synthesized from two presses of the same
	// button within DoubleClickInterval and DoubleClickDistance.
	//
	// Parameters:
	//   - callback: function receiving the button
	SetDoubleClickCallback(callback func(button int))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in pixels
	SetMouseMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// PollEvents dispatches pending events without blocking.
	PollEvents()

	// WaitEvents blocks until an event arrives or timeout passes, then dispatches pending events.
	//
	// Parameters:
	//   - timeout: the longest time to block
	WaitEvents(timeout time.Duration)

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound resizing from below.
	minWidth  int
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	clicks clickTracker

	onResize      func(width, height int)
	onScroll      func(delta float64, mods common.ModifierKey)
	onKeyDown     func(key int, mods common.ModifierKey)
	onMouseButton func(button int, pressed bool, x, y float64)
	onDoubleClick func(button int)
	onMouseMove   func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Cover Flow",
		minWidth:  480,
		minHeight: 270,
		width:     1280,
		height:    720,
		clicks:    clickTracker{interval: DoubleClickInterval, distance: DoubleClickDistance},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float64, mods common.ModifierKey)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int, mods common.ModifierKey)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button int, pressed bool, x, y float64)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetDoubleClickCallback(callback func(button int)) {
	w.onDoubleClick = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) PollEvents() {
	platformPollEvents(w)
}

func (w *engineWindow) WaitEvents(timeout time.Duration) {
	platformWaitEvents(w, timeout)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatchButton forwards a button event and synthesizes double clicks from presses.
func (w *engineWindow) dispatchButton(button int, pressed bool, x, y float64, now time.Time) {
	if w.onMouseButton != nil {
		w.onMouseButton(button, pressed, x, y)
	}
	if pressed && w.clicks.press(button, x, y, now) && w.onDoubleClick != nil {
		w.onDoubleClick(button)
	}
}

// isCloseKey reports whether pressing key closes the window instead of reaching the key callback.
func isCloseKey(key int) bool {
	return key == common.KeyEsc
}
