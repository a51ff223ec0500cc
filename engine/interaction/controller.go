// Package interaction turns pointer, wheel and key input into cover-flow navigation, camera changes
// and animation starts.
package interaction

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/animation"
	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"go.uber.org/zap"
)

const (
	// DefaultMomentumThreshold is the release speed, in cover widths per second, above which momentum starts.
	DefaultMomentumThreshold float32 = 1.5
	// DefaultRotationDebounce is the shortest time between two wheel-driven flips.
	DefaultRotationDebounce = 200 * time.Millisecond
	// DefaultZoomStep is the camera z change per wheel notch.
	DefaultZoomStep float32 = 0.35
	// DefaultFovStep is the field-of-view change per wheel notch, in radians.
	DefaultFovStep = float32(2 * math.Pi / 180)
	// MinFov and MaxFov bound the field of view, in radians.
	MinFov = camera.MinFov
	MaxFov = camera.MaxFov

	settleThreshold float32 = 0.001
)

// Navigator is the list the controller moves through. Every answer is against the visible rows only.
type Navigator interface {
	// IsAtBoundary reports whether the focus is the first (direction -1) or last (+1) visible row.
	IsAtBoundary(direction int) bool
	// Navigate moves the focus one visible row in direction immediately, as a drag crossing does.
	Navigate(direction int)
	// Step asks for an animated move of n visible rows, clamped to the list ends.
	Step(n int)
	// FocusRow returns the focused row, false when it is not visible.
	FocusRow() (int, bool)
}

// Viewport is the camera state the controller reads and adjusts.
type Viewport interface {
	// WorldPerPixel returns the world distance one screen pixel covers at the carousel plane.
	WorldPerPixel() float32
	Pan() (x, y float32)
	PanBy(dx, dy float32)
	CameraZ() float32
	MinCameraZ() float32
	MaxCameraZ() float32
	DefaultCameraZ() float32
	Fov() float32
	// SetFov applies a new field of view immediately.
	SetFov(fov float32)
}

// Controller is the cover-flow input state machine. Primary drag, middle drag and wheel modes are
// independent; one never changes the state of another. Not safe for concurrent use.
type Controller interface {
	// PointerDown starts a drag with button at (x, y).
	//
	// Parameters:
	//   - button: the mouse button
	//   - x, y: cursor position in pixels
	//   - now: event time
	PointerDown(button int, x, y float64, now time.Time)

	// PointerMove continues the drag held with button.
	//
	// Parameters:
	//   - button: the button the move belongs to
	//   - x, y: cursor position in pixels
	//   - now: event time
	PointerMove(button int, x, y float64, now time.Time)

	// PointerUp ends the drag held with button. A primary release starts momentum or settle.
	//
	// Parameters:
	//   - button: the released button
	//   - x, y: cursor position in pixels
	//   - now: event time
	PointerUp(button int, x, y float64, now time.Time)

	// Wheel handles one scroll event. No modifier flips the focused item, Ctrl zooms,
	// Ctrl+Shift changes the field of view.
	//
	// Parameters:
	//   - delta: vertical scroll amount, positive away from the user
	//   - mods: held modifiers
	//   - now: event time
	Wheel(delta float64, mods common.ModifierKey, now time.Time)

	// DoubleClick handles a synthesized double click. Middle resets pan and zoom.
	DoubleClick(button int, now time.Time)

	// Key handles a key press. Left and Right step one item, Home and End jump to the ends.
	Key(key int, now time.Time)

	// Offset returns the continuous drag offset in cover widths.
	Offset() float32

	// SetOffset overwrites the drag offset without navigating.
	SetOffset(offset float32)

	// ApplyOffsetDelta moves the drag offset by delta with the same rebase and clamping as a live drag.
	//
	// Parameters:
	//   - delta: change in cover widths
	//
	// Returns:
	//   - bool: whether a boundary clamped the move
	ApplyOffsetDelta(delta float32) bool

	// Dragging reports whether the primary button is held.
	Dragging() bool

	// Drag returns a copy of the primary drag state.
	Drag() DragState
}

type controllerImpl struct {
	nav   Navigator
	view  Viewport
	anims animation.AnimationSet

	drag    DragState
	panning bool
	panX    float64
	panY    float64

	lastToggle time.Time

	spacing           float32
	momentumThreshold float32
	velocityWindow    time.Duration
	rotationDebounce  time.Duration
	zoomStep          float32
	fovStep           float32
	logger            *zap.Logger
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller.
//
// Parameters:
//   - nav: the visible-row navigator
//   - view: the camera viewport
//   - anims: the animation set the controller starts animations on
//   - options: variadic list of ControllerBuilderOption
//
// Returns:
//   - Controller: the controller
func NewController(nav Navigator, view Viewport, anims animation.AnimationSet, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		nav:               nav,
		view:              view,
		anims:             anims,
		spacing:           0.65,
		momentumThreshold: DefaultMomentumThreshold,
		velocityWindow:    DefaultVelocityWindow,
		rotationDebounce:  DefaultRotationDebounce,
		zoomStep:          DefaultZoomStep,
		fovStep:           DefaultFovStep,
		logger:            zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controllerImpl) PointerDown(button int, x, y float64, now time.Time) {
	switch button {
	case common.MouseButtonLeft:
		c.anims.Cancel(animation.KindMomentum)
		c.anims.Cancel(animation.KindSettle)
		c.drag.PointerDown = true
		c.drag.Button = button
		c.drag.LastX, c.drag.LastY = x, y
		c.drag.Velocity = 0
		c.drag.ResetHistory()
		c.drag.LastAt = now
	case common.MouseButtonMiddle:
		c.anims.Cancel(animation.KindPanReset)
		c.panning = true
		c.panX, c.panY = x, y
	}
}

func (c *controllerImpl) PointerMove(button int, x, y float64, now time.Time) {
	switch {
	case button == common.MouseButtonLeft && c.drag.PointerDown:
		dx := x - c.drag.LastX
		c.drag.LastX, c.drag.LastY = x, y
		if dx == 0 {
			return
		}
		delta := float32(dx) * c.view.WorldPerPixel() / c.spacing
		c.drag.Record(delta, now)
		c.ApplyOffsetDelta(delta)
	case button == common.MouseButtonMiddle && c.panning:
		wpp := c.view.WorldPerPixel()
		dx, dy := x-c.panX, y-c.panY
		c.panX, c.panY = x, y
		c.view.PanBy(-float32(dx)*wpp, float32(dy)*wpp)
	}
}

func (c *controllerImpl) PointerUp(button int, x, y float64, now time.Time) {
	switch button {
	case common.MouseButtonLeft:
		if !c.drag.PointerDown {
			return
		}
		c.PointerMove(button, x, y, now)
		c.drag.PointerDown = false
		c.drag.Velocity = c.drag.VelocityAt(now, c.velocityWindow)

		switch {
		case common.Abs(c.drag.Velocity) > c.momentumThreshold:
			c.anims.StartMomentum(c.drag.Velocity, now)
		case common.Abs(c.drag.Offset) > settleThreshold:
			c.anims.StartSettle(c.drag.Offset, now)
		default:
			c.drag.Offset = 0
		}
		c.logger.Debug("drag released", zap.Float32("velocity", c.drag.Velocity), zap.Float32("offset", c.drag.Offset))
	case common.MouseButtonMiddle:
		c.panning = false
	}
}

func (c *controllerImpl) Wheel(delta float64, mods common.ModifierKey, now time.Time) {
	if delta == 0 {
		return
	}
	switch {
	case mods.Has(common.ModControl | common.ModShift):
		fov := common.Clamp(c.view.Fov()-float32(delta)*c.fovStep, MinFov, MaxFov)
		c.view.SetFov(fov)
	case mods.Has(common.ModControl):
		target := c.view.CameraZ()
		if c.anims.IsActive(animation.KindZoom) {
			target = c.anims.Zoom().Target
		}
		target = common.Clamp(target-float32(delta)*c.zoomStep, c.view.MinCameraZ(), c.view.MaxCameraZ())
		c.anims.RetargetZoom(c.view.CameraZ(), target, now)
	case mods == 0:
		if !c.lastToggle.IsZero() && now.Sub(c.lastToggle) < c.rotationDebounce {
			return
		}
		row, ok := c.nav.FocusRow()
		if !ok {
			return
		}
		c.lastToggle = now
		c.anims.ToggleRotation(row, now)
	}
}

func (c *controllerImpl) DoubleClick(button int, now time.Time) {
	if button != common.MouseButtonMiddle {
		return
	}
	c.panning = false
	px, py := c.view.Pan()
	c.anims.StartPanReset(
		[3]float32{px, py, c.view.CameraZ()},
		[3]float32{0, 0, c.view.DefaultCameraZ()},
		now,
	)
}

func (c *controllerImpl) Key(key int, now time.Time) {
	if c.drag.PointerDown {
		return
	}
	switch key {
	case common.KeyLeft:
		c.nav.Step(-1)
	case common.KeyRight:
		c.nav.Step(1)
	case common.KeyHome:
		c.nav.Step(math.MinInt32)
	case common.KeyEnd:
		c.nav.Step(math.MaxInt32)
	}
}

func (c *controllerImpl) Offset() float32 {
	return c.drag.Offset
}

func (c *controllerImpl) SetOffset(offset float32) {
	c.drag.Offset = offset
}

func (c *controllerImpl) ApplyOffsetDelta(delta float32) bool {
	offset, clamped := Rebase(c.drag.Offset+delta, c.nav)
	c.drag.Offset = clampOffset(offset)
	return clamped
}

func (c *controllerImpl) Dragging() bool {
	return c.drag.PointerDown
}

func (c *controllerImpl) Drag() DragState {
	return c.drag
}
