// Package animation holds the cover-flow animation state machine: one tagged record per animation kind,
// advanced from a caller-supplied clock so the whole set can be driven deterministically.
package animation

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"go.uber.org/zap"
)

// Scene is the set of shared scene parameters animations write to.
// The cover-flow view implements it; tests use a recording fake.
type Scene interface {
	// SetFocusPosition places the interpolated focus, in visible ranks.
	SetFocusPosition(pos float32)
	// CommitScroll makes row the focused row once a scroll animation finishes.
	CommitScroll(row int)
	// SetCameraZ sets the zoom distance offset.
	SetCameraZ(z float32)
	// SetPan sets the camera pan.
	SetPan(x, y float32)
	// DragOffset returns the continuous drag offset in cover widths.
	DragOffset() float32
	// SetDragOffset overwrites the continuous drag offset.
	SetDragOffset(offset float32)
	// ApplyOffsetDelta moves the drag offset the same way a live drag would, including index crossings.
	// It reports whether a list boundary clamped the move.
	ApplyOffsetDelta(delta float32) bool
}

// AnimationSet owns every animation of one cover-flow view.
// It is not safe for concurrent use; the render thread owns it.
type AnimationSet interface {
	// Advance moves every active animation to now, writing results into scene.
	// Finished animations clear their active flag and report exactly their target.
	//
	// Parameters:
	//   - now: the current frame time
	//   - scene: receiver of the animated values
	Advance(now time.Time, scene Scene)

	// Active reports whether any animation is still running.
	Active() bool

	// IsActive reports whether an animation of the given kind is running.
	// For KindRotation it reports whether any item is still turning.
	IsActive(kind Kind) bool

	// Cancel stops the animation of the given kind without applying its target.
	Cancel(kind Kind)

	// StartScroll starts (or replaces) the scroll animation.
	//
	// Parameters:
	//   - from, to: focus positions in visible ranks
	//   - row: the row to commit when the animation completes
	//   - now: start time
	StartScroll(from, to float32, row int, now time.Time)

	// Scroll returns a copy of the scroll record.
	Scroll() ScrollRecord

	// RetargetZoom points the zoom animation at target. A running animation keeps its elapsed time
	// and start value; only its target changes. An idle one starts from current.
	//
	// Parameters:
	//   - current: the camera z right now
	//   - target: the new camera z target
	//   - now: current time
	RetargetZoom(current, target float32, now time.Time)

	// Zoom returns a copy of the zoom record.
	Zoom() Record

	// StartPanReset eases pan and zoom from the given values to the given resting values.
	//
	// Parameters:
	//   - from: current pan x, pan y and camera z
	//   - to: resting pan x, pan y and camera z
	//   - now: start time
	StartPanReset(from, to [3]float32, now time.Time)

	// PanReset returns a copy of the pan-reset record.
	PanReset() PanResetRecord

	// StartMomentum continues a released drag at velocity (cover widths per second).
	StartMomentum(velocity float32, now time.Time)

	// Momentum returns a copy of the momentum record.
	Momentum() MomentumRecord

	// StartSettle eases the residual drag offset back to zero.
	StartSettle(offset float32, now time.Time)

	// Settle returns a copy of the settle record.
	Settle() Record

	// ToggleRotation flips row between front (0) and back (π), taking the shorter path if it is mid-turn.
	ToggleRotation(row int, now time.Time)

	// RotationAngle returns the row's current flip angle, 0 if it has none.
	RotationAngle(row int) float32

	// ClearRotations drops every rotation record.
	ClearRotations()
}

var _ AnimationSet = &animationSetImpl{}

type animationSetImpl struct {
	scroll    ScrollRecord
	zoom      Record
	panReset  PanResetRecord
	momentum  MomentumRecord
	settle    Record
	rotations map[int]*RotationRecord

	lastAdvance time.Time

	scrollDuration   time.Duration
	zoomDuration     time.Duration
	panResetDuration time.Duration
	settleDuration   time.Duration
	rotationSpeed    float32
	friction         float32
	velocityEpsilon  float32
	maxStep          time.Duration
	logger           *zap.Logger
}

// NewAnimationSet creates an idle AnimationSet.
//
// Parameters:
//   - options: variadic list of AnimationSetBuilderOption to configure timings
//
// Returns:
//   - AnimationSet: the new set
func NewAnimationSet(options ...AnimationSetBuilderOption) AnimationSet {
	a := &animationSetImpl{
		rotations:        make(map[int]*RotationRecord),
		scrollDuration:   DefaultScrollDuration,
		zoomDuration:     DefaultZoomDuration,
		panResetDuration: DefaultPanResetDuration,
		settleDuration:   DefaultSettleDuration,
		rotationSpeed:    DefaultRotationSpeed,
		friction:         DefaultFriction,
		velocityEpsilon:  DefaultVelocityEpsilon,
		maxStep:          DefaultMaxStep,
		logger:           zap.NewNop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animationSetImpl) Advance(now time.Time, scene Scene) {
	dt := now.Sub(a.lastAdvance)
	if a.lastAdvance.IsZero() || dt < 0 {
		dt = 0
	}
	if dt > a.maxStep {
		dt = a.maxStep
	}
	a.lastAdvance = now
	seconds := float32(dt.Seconds())

	if a.panReset.Active {
		f, done := a.panReset.step(now)
		x, y, z := a.panReset.values(f)
		scene.SetPan(x, y)
		scene.SetCameraZ(z)
		if done {
			a.finished(KindPanReset)
		}
	}

	if a.zoom.Active {
		v, done := a.zoom.step(now)
		scene.SetCameraZ(v)
		if done {
			a.finished(KindZoom)
		}
	}

	if a.momentum.Active {
		clamped := scene.ApplyOffsetDelta(a.momentum.Velocity * seconds)
		a.momentum.Velocity *= float32(math.Pow(float64(a.friction), float64(seconds*60)))
		if clamped || common.Abs(a.momentum.Velocity) < a.velocityEpsilon {
			a.momentum = MomentumRecord{}
			a.finished(KindMomentum)
			a.StartSettle(scene.DragOffset(), now)
		}
	}

	if a.settle.Active {
		v, done := a.settle.step(now)
		scene.SetDragOffset(v)
		if done {
			a.finished(KindSettle)
		}
	}

	a.advanceRotations(seconds)

	if a.scroll.Active {
		v, done := a.scroll.step(now)
		scene.SetFocusPosition(v)
		if done {
			a.finished(KindScroll)
			scene.CommitScroll(a.scroll.Row)
		}
	}
}

func (a *animationSetImpl) advanceRotations(seconds float32) {
	twoPi := float32(2 * math.Pi)
	maxTurn := a.rotationSpeed * seconds
	for row, r := range a.rotations {
		diff := common.WrapAngle(r.Target - r.Angle)
		if common.Abs(diff) <= maxTurn {
			r.Angle = r.Target
		} else if diff > 0 {
			r.Angle += maxTurn
		} else {
			r.Angle -= maxTurn
		}
		r.Angle = float32(math.Mod(float64(r.Angle), float64(twoPi)))
		if r.Angle < 0 {
			r.Angle += twoPi
		}
		if r.Angle == r.Target && r.Target == 0 {
			delete(a.rotations, row)
		}
	}
}

func (a *animationSetImpl) Active() bool {
	return a.scroll.Active || a.zoom.Active || a.panReset.Active || a.momentum.Active || a.settle.Active || a.IsActive(KindRotation)
}

func (a *animationSetImpl) IsActive(kind Kind) bool {
	switch kind {
	case KindScroll:
		return a.scroll.Active
	case KindZoom:
		return a.zoom.Active
	case KindPanReset:
		return a.panReset.Active
	case KindMomentum:
		return a.momentum.Active
	case KindSettle:
		return a.settle.Active
	case KindRotation:
		for _, r := range a.rotations {
			if r.Angle != r.Target {
				return true
			}
		}
	}
	return false
}

func (a *animationSetImpl) Cancel(kind Kind) {
	switch kind {
	case KindScroll:
		a.scroll.Active = false
	case KindZoom:
		a.zoom.Active = false
	case KindPanReset:
		a.panReset.Active = false
	case KindMomentum:
		a.momentum = MomentumRecord{}
	case KindSettle:
		a.settle.Active = false
	case KindRotation:
		a.ClearRotations()
	}
}

// wake resets the frame clock when the set goes from idle to busy, so the first step
// after a quiet period does not see the whole idle gap as elapsed time.
func (a *animationSetImpl) wake(now time.Time) {
	if !a.Active() {
		a.lastAdvance = now
	}
}

func (a *animationSetImpl) started(kind Kind) {
	a.logger.Debug("animation started", zap.Stringer("kind", kind))
}

func (a *animationSetImpl) finished(kind Kind) {
	a.logger.Debug("animation finished", zap.Stringer("kind", kind))
}

func (a *animationSetImpl) StartScroll(from, to float32, row int, now time.Time) {
	a.wake(now)
	a.scroll.begin(from, to, a.scrollDuration, common.Smoothstep, now)
	a.scroll.Row = row
	a.logger.Debug("animation started", zap.Stringer("kind", KindScroll), zap.Int("row", row))
}

func (a *animationSetImpl) Scroll() ScrollRecord {
	return a.scroll
}

func (a *animationSetImpl) RetargetZoom(current, target float32, now time.Time) {
	a.wake(now)
	if a.panReset.Active {
		a.panReset.Active = false
	}
	if a.zoom.Active {
		a.zoom.Target = target
		return
	}
	a.zoom.begin(current, target, a.zoomDuration, common.EaseOutCubic, now)
	a.started(KindZoom)
}

func (a *animationSetImpl) Zoom() Record {
	return a.zoom
}

func (a *animationSetImpl) StartPanReset(from, to [3]float32, now time.Time) {
	a.wake(now)
	a.zoom.Active = false
	a.panReset.begin(0, 1, a.panResetDuration, common.Smoothstep, now)
	a.panReset.From = from
	a.panReset.To = to
	a.started(KindPanReset)
}

func (a *animationSetImpl) PanReset() PanResetRecord {
	return a.panReset
}

func (a *animationSetImpl) StartMomentum(velocity float32, now time.Time) {
	a.wake(now)
	a.settle.Active = false
	a.momentum = MomentumRecord{Active: true, Velocity: velocity}
	a.logger.Debug("animation started", zap.Stringer("kind", KindMomentum), zap.Float32("velocity", velocity))
}

func (a *animationSetImpl) Momentum() MomentumRecord {
	return a.momentum
}

func (a *animationSetImpl) StartSettle(offset float32, now time.Time) {
	a.wake(now)
	a.momentum = MomentumRecord{}
	a.settle.begin(offset, 0, a.settleDuration, common.EaseOutCubic, now)
	a.started(KindSettle)
}

func (a *animationSetImpl) Settle() Record {
	return a.settle
}

func (a *animationSetImpl) ToggleRotation(row int, now time.Time) {
	a.wake(now)
	r, ok := a.rotations[row]
	if !ok {
		a.rotations[row] = &RotationRecord{Angle: 0, Target: math.Pi}
		return
	}
	if r.Target == 0 {
		r.Target = math.Pi
	} else {
		r.Target = 0
	}
}

func (a *animationSetImpl) RotationAngle(row int) float32 {
	if r, ok := a.rotations[row]; ok {
		return r.Angle
	}
	return 0
}

func (a *animationSetImpl) ClearRotations() {
	clear(a.rotations)
}
