package interaction

import (
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
)

const (
	// historySize is the capacity of the drag sample ring.
	historySize = 32
	// DefaultVelocityWindow is how far back release velocity looks.
	DefaultVelocityWindow = 100 * time.Millisecond
)

// DragSample is one recorded pointer move.
type DragSample struct {
	// Delta is the offset change in cover widths, before boundary clamping.
	Delta float32
	// DT is the time since the previous sample.
	DT time.Duration
	At time.Time
}

// DragState is the primary-button drag tracked between press and release.
type DragState struct {
	PointerDown bool
	Button      int
	LastX       float64
	LastY       float64
	LastAt      time.Time
	// Offset is the continuous drag offset in cover widths, kept within (-0.5, 0.5) by Rebase.
	Offset float32
	// Velocity is the release velocity in cover widths per second.
	Velocity float32

	history [historySize]DragSample
	head    int
	count   int
}

// Record appends a sample to the history ring, overwriting the oldest once full.
func (d *DragState) Record(delta float32, at time.Time) {
	dt := time.Duration(0)
	if !d.LastAt.IsZero() {
		dt = at.Sub(d.LastAt)
	}
	d.history[d.head] = DragSample{Delta: delta, DT: dt, At: at}
	d.head = (d.head + 1) % historySize
	if d.count < historySize {
		d.count++
	}
	d.LastAt = at
}

// ResetHistory forgets every recorded sample.
func (d *DragState) ResetHistory() {
	d.head = 0
	d.count = 0
	d.LastAt = time.Time{}
}

// Samples returns the recorded samples, oldest first.
func (d *DragState) Samples() []DragSample {
	out := make([]DragSample, 0, d.count)
	start := (d.head - d.count + historySize) % historySize
	for i := 0; i < d.count; i++ {
		out = append(out, d.history[(start+i)%historySize])
	}
	return out
}

// VelocityAt returns the average speed over the window ending at now. Time the pointer spent still
// before now counts toward the span, and a sample whose interval began before the window is counted
// from the window start.
//
// Parameters:
//   - now: the release time
//   - window: how far back to look
//
// Returns:
//   - float32: cover widths per second, 0 when there are no recent samples
func (d *DragState) VelocityAt(now time.Time, window time.Duration) float32 {
	from := now.Add(-window)
	start := now
	var sum float32
	for i := 0; i < d.count; i++ {
		s := d.history[(d.head-1-i+historySize)%historySize]
		if !s.At.After(from) {
			break
		}
		sum += s.Delta
		begin := s.At.Add(-s.DT)
		if begin.Before(from) {
			begin = from
		}
		if begin.Before(start) {
			start = begin
		}
	}
	span := now.Sub(start)
	if span <= 0 {
		return 0
	}
	return sum / float32(span.Seconds())
}

// Rebase folds offset back into (-0.5, 0.5), navigating once per whole cover crossed. At a list end the
// offset is clamped to 0 on that side instead.
//
// Parameters:
//   - offset: the unrebased offset
//   - nav: the navigator consulted for boundaries and told about crossings
//
// Returns:
//   - float32: the rebased offset
//   - bool: whether a boundary clamped it
func Rebase(offset float32, nav Navigator) (float32, bool) {
	for {
		switch {
		case offset > 0 && nav.IsAtBoundary(1):
			return 0, true
		case offset < 0 && nav.IsAtBoundary(-1):
			return 0, true
		case offset > 0.5:
			nav.Navigate(1)
			offset -= 1
		case offset < -0.5:
			nav.Navigate(-1)
			offset += 1
		default:
			return offset, false
		}
	}
}

// clampOffset snaps values too small to see to zero.
func clampOffset(offset float32) float32 {
	if common.Abs(offset) <= settleThreshold {
		return 0
	}
	return offset
}
