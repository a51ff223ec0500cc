package interaction

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/Carmen-Shannon/coverflow/engine/animation"
)

type fakeNav struct {
	focus, count int
	navigated    []int
	steps        []int
}

func (n *fakeNav) IsAtBoundary(direction int) bool {
	if direction < 0 {
		return n.focus <= 0
	}
	return n.focus >= n.count-1
}

func (n *fakeNav) Navigate(direction int) {
	n.focus += direction
	n.navigated = append(n.navigated, direction)
}

func (n *fakeNav) Step(steps int) {
	n.steps = append(n.steps, steps)
}

func (n *fakeNav) FocusRow() (int, bool) {
	return n.focus, true
}

type fakeViewport struct {
	wpp        float32
	panX, panY float32
	camZ       float32
	fov        float32
}

func (v *fakeViewport) WorldPerPixel() float32  { return v.wpp }
func (v *fakeViewport) Pan() (float32, float32) { return v.panX, v.panY }
func (v *fakeViewport) PanBy(dx, dy float32)    { v.panX += dx; v.panY += dy }
func (v *fakeViewport) CameraZ() float32        { return v.camZ }
func (v *fakeViewport) MinCameraZ() float32     { return -1 }
func (v *fakeViewport) MaxCameraZ() float32     { return 2 }
func (v *fakeViewport) DefaultCameraZ() float32 { return 0.5 }
func (v *fakeViewport) Fov() float32            { return v.fov }
func (v *fakeViewport) SetFov(fov float32)      { v.fov = fov }

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestController(focus, count int, wpp float32) (Controller, *fakeNav, *fakeViewport, animation.AnimationSet) {
	nav := &fakeNav{focus: focus, count: count}
	view := &fakeViewport{wpp: wpp, fov: float32(45 * math.Pi / 180)}
	anims := animation.NewAnimationSet()
	return NewController(nav, view, anims), nav, view, anims
}

func near(a, b float32) bool {
	return common.Abs(a-b) < 1e-4
}

func TestRebaseIdempotence(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float32
		want   int
	}{
		{"quarters forward", []float32{0.25, 0.25, 0.25, 0.25}, 1},
		{"tenths forward", []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, 1},
		{"one jump back", []float32{-1}, -1},
		{"uneven back", []float32{-0.3, -0.45, -0.05, -0.2}, -1},
		{"two units", []float32{0.7, 0.7, 0.6}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, nav, _, _ := newTestController(10, 21, 0.01)
			for _, d := range tt.deltas {
				c.ApplyOffsetDelta(d)
			}
			if !near(c.Offset(), 0) {
				t.Errorf("offset = %v, want 0", c.Offset())
			}
			sum := 0
			for _, d := range nav.navigated {
				sum += d
			}
			if sum != tt.want || len(nav.navigated) != int(math.Abs(float64(tt.want))) {
				t.Errorf("navigated = %v, want %d events summing to %d", nav.navigated, int(math.Abs(float64(tt.want))), tt.want)
			}
		})
	}
}

func TestRebaseNeverOscillates(t *testing.T) {
	nav := &fakeNav{focus: 5, count: 21}
	got, clamped := Rebase(0.5, nav)
	if clamped || got != 0.5 || len(nav.navigated) != 0 {
		t.Errorf("Rebase(0.5) = %v, %v with %v, want 0.5 untouched", got, clamped, nav.navigated)
	}
	got, _ = Rebase(1.5, nav)
	if got != 0.5 || len(nav.navigated) != 1 {
		t.Errorf("Rebase(1.5) = %v with %v, want 0.5 after one step", got, nav.navigated)
	}
}

func TestBoundaryClamp(t *testing.T) {
	c, nav, _, _ := newTestController(0, 5, 0.01)
	for i := 0; i < 50; i++ {
		if !c.ApplyOffsetDelta(-0.13) {
			t.Fatalf("delta %d at first row not reported as clamped", i)
		}
		if c.Offset() < 0 {
			t.Fatalf("offset went to %v below the first row", c.Offset())
		}
	}
	if len(nav.navigated) != 0 {
		t.Errorf("navigated = %v at first row", nav.navigated)
	}

	c, nav, _, _ = newTestController(4, 5, 0.01)
	for i := 0; i < 50; i++ {
		c.ApplyOffsetDelta(0.13)
		if c.Offset() > 0 {
			t.Fatalf("offset went to %v past the last row", c.Offset())
		}
	}
	if len(nav.navigated) != 0 {
		t.Errorf("navigated = %v at last row", nav.navigated)
	}
}

func TestDragPastFirstRow(t *testing.T) {
	// 50 px map to 2.0 offset units.
	wpp := float32(2.0 * 0.65 / 50)
	c, nav, _, _ := newTestController(0, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 200, 100, t0)
	for i := 1; i <= 10; i++ {
		c.PointerMove(common.MouseButtonLeft, 200-float64(i)*5, 100, t0.Add(time.Duration(i)*10*time.Millisecond))
	}
	if c.Offset() != 0 {
		t.Errorf("offset = %v, want clamped at 0", c.Offset())
	}
	if len(nav.navigated) != 0 {
		t.Errorf("navigated = %v, want none", nav.navigated)
	}
}

func TestDragCrossesOneItem(t *testing.T) {
	wpp := float32(0.65 / 100)
	c, nav, _, _ := newTestController(5, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 0, 0, t0)
	c.PointerMove(common.MouseButtonLeft, 120, 0, t0.Add(16*time.Millisecond))

	if len(nav.navigated) != 1 || nav.navigated[0] != 1 {
		t.Fatalf("navigated = %v, want [1]", nav.navigated)
	}
	if nav.focus != 6 {
		t.Errorf("focus = %d, want 6", nav.focus)
	}
	if !near(c.Offset(), 0.2) {
		t.Errorf("offset = %v, want 0.2", c.Offset())
	}
}

func TestFastReleaseStartsMomentum(t *testing.T) {
	wpp := float32(0.65 / 100)
	c, _, _, anims := newTestController(10, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 0, 0, t0)
	for i := 1; i <= 5; i++ {
		c.PointerMove(common.MouseButtonLeft, float64(i)*10, 0, t0.Add(time.Duration(i)*10*time.Millisecond))
	}
	c.PointerUp(common.MouseButtonLeft, 50, 0, t0.Add(50*time.Millisecond))

	// 10 px per 10 ms is 10 cover widths per second.
	if v := c.Drag().Velocity; !near(v, 10) {
		t.Errorf("velocity = %v, want 10", v)
	}
	if !anims.IsActive(animation.KindMomentum) {
		t.Error("momentum not started")
	}
	if c.Dragging() {
		t.Error("still dragging after release")
	}
}

func TestSlowReleaseSettles(t *testing.T) {
	wpp := float32(0.65 / 100)
	c, _, _, anims := newTestController(10, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 0, 0, t0)
	c.PointerMove(common.MouseButtonLeft, 30, 0, t0.Add(20*time.Millisecond))
	c.PointerUp(common.MouseButtonLeft, 30, 0, t0.Add(600*time.Millisecond))

	if anims.IsActive(animation.KindMomentum) {
		t.Error("momentum started after the pointer rested")
	}
	s := anims.Settle()
	if !s.Active || !near(s.Start, 0.3) || s.Target != 0 {
		t.Errorf("settle = %+v, want active from 0.3 to 0", s)
	}
}

func TestPauseBeforeReleaseSettles(t *testing.T) {
	wpp := float32(0.65 / 100)
	c, _, _, anims := newTestController(10, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 0, 0, t0)
	for i := 1; i <= 4; i++ {
		c.PointerMove(common.MouseButtonLeft, float64(i)*5, 0, t0.Add(time.Duration(i)*8*time.Millisecond))
	}
	c.PointerUp(common.MouseButtonLeft, 20, 0, t0.Add(122*time.Millisecond))

	// Only the moves at 24 ms and 32 ms fall in the window: 10 px over 100 ms.
	if v := c.Drag().Velocity; !near(v, 1) {
		t.Errorf("velocity = %v, want 1", v)
	}
	if anims.IsActive(animation.KindMomentum) {
		t.Error("momentum started after the pointer paused")
	}
	if s := anims.Settle(); !s.Active || !near(s.Start, 0.2) {
		t.Errorf("settle = %+v, want active from 0.2", s)
	}
}

func TestFlickAfterHoldStartsMomentum(t *testing.T) {
	wpp := float32(0.65 / 100)
	c, _, _, anims := newTestController(10, 21, wpp)

	c.PointerDown(common.MouseButtonLeft, 0, 0, t0)
	c.PointerMove(common.MouseButtonLeft, 30, 0, t0.Add(2*time.Second))
	c.PointerUp(common.MouseButtonLeft, 30, 0, t0.Add(2*time.Second+5*time.Millisecond))

	// The hold is clipped to the window: 30 px over 100 ms.
	if v := c.Drag().Velocity; !near(v, 3) {
		t.Errorf("velocity = %v, want 3", v)
	}
	if !anims.IsActive(animation.KindMomentum) {
		t.Error("momentum not started")
	}
}

func TestVelocityAtWithoutRecentSamples(t *testing.T) {
	var d DragState
	d.LastAt = t0
	d.Record(0.5, t0.Add(10*time.Millisecond))
	if v := d.VelocityAt(t0.Add(time.Second), DefaultVelocityWindow); v != 0 {
		t.Errorf("velocity = %v, want 0", v)
	}
	if v := d.VelocityAt(t0.Add(10*time.Millisecond), DefaultVelocityWindow); !near(v, 50) {
		t.Errorf("velocity = %v, want 50", v)
	}
}

func TestWheelTogglesRotationWithDebounce(t *testing.T) {
	c, _, _, anims := newTestController(3, 10, 0.01)

	c.Wheel(1, 0, t0)
	if !anims.IsActive(animation.KindRotation) {
		t.Fatal("rotation not started")
	}
	c.Wheel(1, 0, t0.Add(50*time.Millisecond))
	if !anims.IsActive(animation.KindRotation) {
		t.Fatal("debounced wheel toggled the rotation back")
	}
	c.Wheel(1, 0, t0.Add(300*time.Millisecond))
	if anims.IsActive(animation.KindRotation) {
		t.Error("wheel after the debounce did not toggle back")
	}
}

func TestCtrlWheelRetargetsZoom(t *testing.T) {
	c, _, view, anims := newTestController(3, 10, 0.01)

	c.Wheel(-1, common.ModControl, t0)
	z := anims.Zoom()
	if !z.Active || !near(z.Target, DefaultZoomStep) {
		t.Fatalf("zoom = %+v, want target %v", z, DefaultZoomStep)
	}
	c.Wheel(-100, common.ModControl, t0.Add(10*time.Millisecond))
	z = anims.Zoom()
	if z.Target != view.MaxCameraZ() {
		t.Errorf("target = %v, want clamped to %v", z.Target, view.MaxCameraZ())
	}
	if z.StartedAt != t0 {
		t.Error("retarget restarted the zoom clock")
	}
}

func TestCtrlShiftWheelChangesFov(t *testing.T) {
	c, _, view, anims := newTestController(3, 10, 0.01)
	before := view.fov

	c.Wheel(1, common.ModControl|common.ModShift, t0)
	if !near(view.fov, before-DefaultFovStep) {
		t.Errorf("fov = %v, want %v", view.fov, before-DefaultFovStep)
	}
	c.Wheel(1000, common.ModControl|common.ModShift, t0)
	if view.fov != MinFov {
		t.Errorf("fov = %v, want clamped to %v", view.fov, MinFov)
	}
	if anims.Active() {
		t.Error("fov change started an animation")
	}
}

func TestMiddleDragPans(t *testing.T) {
	c, nav, view, _ := newTestController(3, 10, 0.01)

	c.PointerDown(common.MouseButtonMiddle, 100, 100, t0)
	c.PointerMove(common.MouseButtonMiddle, 5000, 40, t0.Add(10*time.Millisecond))
	c.PointerUp(common.MouseButtonMiddle, 5000, 40, t0.Add(20*time.Millisecond))

	if !near(view.panX, -49) || !near(view.panY, -0.6) {
		t.Errorf("pan = (%v, %v), want (-49, -0.6)", view.panX, view.panY)
	}
	if c.Offset() != 0 || len(nav.navigated) != 0 {
		t.Error("pan moved the carousel")
	}

	c.PointerMove(common.MouseButtonMiddle, 0, 0, t0.Add(30*time.Millisecond))
	if !near(view.panX, -49) {
		t.Error("pan changed after release")
	}
}

func TestMiddleDoubleClickResetsPan(t *testing.T) {
	c, _, view, anims := newTestController(3, 10, 0.01)
	view.panX, view.panY, view.camZ = 1, 2, 1.5

	c.DoubleClick(common.MouseButtonLeft, t0)
	if anims.IsActive(animation.KindPanReset) {
		t.Fatal("primary double click reset the pan")
	}
	c.DoubleClick(common.MouseButtonMiddle, t0)
	p := anims.PanReset()
	if !p.Active {
		t.Fatal("pan reset not started")
	}
	if p.From != [3]float32{1, 2, 1.5} || p.To != [3]float32{0, 0, 0.5} {
		t.Errorf("pan reset from %v to %v", p.From, p.To)
	}
}

func TestKeysStep(t *testing.T) {
	c, nav, _, _ := newTestController(3, 10, 0.01)
	c.Key(common.KeyLeft, t0)
	c.Key(common.KeyRight, t0)
	c.Key(common.KeyHome, t0)
	c.Key(common.KeyEnd, t0)
	c.Key(common.KeySpace, t0)

	want := []int{-1, 1, math.MinInt32, math.MaxInt32}
	if len(nav.steps) != len(want) {
		t.Fatalf("steps = %v, want %v", nav.steps, want)
	}
	for i := range want {
		if nav.steps[i] != want[i] {
			t.Errorf("steps[%d] = %d, want %d", i, nav.steps[i], want[i])
		}
	}
}

func TestHistoryRingWraps(t *testing.T) {
	var d DragState
	d.LastAt = t0
	for i := 1; i <= historySize+8; i++ {
		d.Record(float32(i), t0.Add(time.Duration(i)*time.Millisecond))
	}
	s := d.Samples()
	if len(s) != historySize {
		t.Fatalf("len = %d, want %d", len(s), historySize)
	}
	if s[0].Delta != 9 || s[len(s)-1].Delta != float32(historySize+8) {
		t.Errorf("oldest %v newest %v", s[0].Delta, s[len(s)-1].Delta)
	}
}
