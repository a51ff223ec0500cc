package animation

import (
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
)

// Kind tags an animation record.
type Kind int

const (
	KindScroll Kind = iota
	KindZoom
	KindPanReset
	KindMomentum
	KindSettle
	KindRotation
)

// String returns a short name for the kind, used in log fields.
func (k Kind) String() string {
	switch k {
	case KindScroll:
		return "scroll"
	case KindZoom:
		return "zoom"
	case KindPanReset:
		return "pan-reset"
	case KindMomentum:
		return "momentum"
	case KindSettle:
		return "settle"
	case KindRotation:
		return "rotation"
	}
	return "unknown"
}

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(float32) float32

// Record is the state shared by every duration-based animation.
type Record struct {
	Active    bool
	Start     float32
	Target    float32
	Progress  float32
	StartedAt time.Time
	Duration  time.Duration
	Ease      Easing
}

// begin (re)starts the record from start toward target.
func (r *Record) begin(start, target float32, d time.Duration, ease Easing, now time.Time) {
	r.Active = true
	r.Start = start
	r.Target = target
	r.Progress = 0
	r.StartedAt = now
	r.Duration = d
	r.Ease = ease
}

// Value returns the eased value at the record's current progress.
func (r *Record) Value() float32 {
	if !r.Active || r.Progress >= 1 {
		return r.Target
	}
	ease := r.Ease
	if ease == nil {
		ease = common.Smoothstep
	}
	return common.Lerp(r.Start, r.Target, ease(r.Progress))
}

// step advances progress to now. It returns the eased value and whether the record just finished;
// a finished record reports exactly its target and is no longer active.
func (r *Record) step(now time.Time) (float32, bool) {
	if !r.Active {
		return r.Target, false
	}
	if r.Duration <= 0 {
		r.Progress = 1
	} else {
		elapsed := now.Sub(r.StartedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		r.Progress = common.Clamp(float32(float64(elapsed)/float64(r.Duration)), 0, 1)
	}
	if r.Progress >= 1 {
		r.Active = false
		return r.Target, true
	}
	return r.Value(), false
}

// ScrollRecord interpolates the focus position between two visible ranks and commits a row at the end.
type ScrollRecord struct {
	Record
	// Row is the row committed as focused when the scroll completes.
	Row int
}

// PanResetRecord eases pan x, pan y and camera z to their resting values on one shared timeline.
type PanResetRecord struct {
	Record
	From [3]float32
	To   [3]float32
}

// values returns pan x, pan y and camera z for the given eased fraction.
func (r *PanResetRecord) values(f float32) (float32, float32, float32) {
	return common.Lerp(r.From[0], r.To[0], f), common.Lerp(r.From[1], r.To[1], f), common.Lerp(r.From[2], r.To[2], f)
}

// MomentumRecord carries the drag velocity after release.
type MomentumRecord struct {
	Active   bool
	Velocity float32
}

// RotationRecord is one item's flip state. Angle stays in [0, 2π).
type RotationRecord struct {
	Angle  float32
	Target float32
}
