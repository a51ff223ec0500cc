package animation

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const frame = 16 * time.Millisecond

type fakeScene struct {
	focus     float32
	commits   []int
	cameraZ   float32
	panX      float32
	panY      float32
	offset    float32
	clampAt   float32
	crossings int
}

func (s *fakeScene) SetFocusPosition(pos float32) { s.focus = pos }
func (s *fakeScene) CommitScroll(row int)         { s.commits = append(s.commits, row) }
func (s *fakeScene) SetCameraZ(z float32)         { s.cameraZ = z }
func (s *fakeScene) SetPan(x, y float32)          { s.panX, s.panY = x, y }
func (s *fakeScene) DragOffset() float32          { return s.offset }
func (s *fakeScene) SetDragOffset(o float32)      { s.offset = o }

// ApplyOffsetDelta rebases at ±0.5 and clamps once the cumulative travel reaches clampAt (if set).
func (s *fakeScene) ApplyOffsetDelta(delta float32) bool {
	s.offset += delta
	for s.offset > 0.5 {
		s.offset--
		s.crossings++
	}
	for s.offset < -0.5 {
		s.offset++
		s.crossings--
	}
	if s.clampAt != 0 && float32(s.crossings) >= s.clampAt && s.offset > 0 {
		s.offset = 0
		return true
	}
	return false
}

// drive advances the set frame by frame until it goes idle or the limit passes, returning the elapsed time.
func drive(a AnimationSet, s Scene, start time.Time, limit time.Duration) time.Duration {
	now := start
	for elapsed := time.Duration(0); elapsed <= limit; elapsed += frame {
		now = start.Add(elapsed)
		a.Advance(now, s)
		if !a.Active() {
			return elapsed
		}
	}
	return limit + frame
}

func TestAnimationsSelfTerminate(t *testing.T) {
	start := time.Unix(1000, 0)

	tests := []struct {
		name     string
		duration time.Duration
		begin    func(a AnimationSet)
		check    func(t *testing.T, s *fakeScene)
	}{
		{
			name:     "scroll",
			duration: DefaultScrollDuration,
			begin:    func(a AnimationSet) { a.StartScroll(5, 6, 6, start) },
			check: func(t *testing.T, s *fakeScene) {
				if s.focus != 6 {
					t.Errorf("focus = %v, want 6", s.focus)
				}
				if len(s.commits) != 1 || s.commits[0] != 6 {
					t.Errorf("commits = %v, want [6]", s.commits)
				}
			},
		},
		{
			name:     "zoom",
			duration: DefaultZoomDuration,
			begin:    func(a AnimationSet) { a.RetargetZoom(0, 1.5, start) },
			check: func(t *testing.T, s *fakeScene) {
				if s.cameraZ != 1.5 {
					t.Errorf("cameraZ = %v, want 1.5", s.cameraZ)
				}
			},
		},
		{
			name:     "pan reset",
			duration: DefaultPanResetDuration,
			begin:    func(a AnimationSet) { a.StartPanReset([3]float32{2, -1, 3}, [3]float32{0, 0, 0}, start) },
			check: func(t *testing.T, s *fakeScene) {
				if s.panX != 0 || s.panY != 0 || s.cameraZ != 0 {
					t.Errorf("pan = (%v, %v, %v), want origin", s.panX, s.panY, s.cameraZ)
				}
			},
		},
		{
			name:     "settle",
			duration: DefaultSettleDuration,
			begin:    func(a AnimationSet) { a.StartSettle(0.4, start) },
			check: func(t *testing.T, s *fakeScene) {
				if s.offset != 0 {
					t.Errorf("offset = %v, want exactly 0", s.offset)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnimationSet()
			s := &fakeScene{offset: 0.4}
			tt.begin(a)
			if !a.Active() {
				t.Fatal("animation not active after start")
			}
			took := drive(a, s, start, 2*tt.duration)
			if took > tt.duration+frame {
				t.Errorf("still active after %v, nominal %v", took, tt.duration)
			}
			tt.check(t, s)
		})
	}
}

func TestScrollReplacesPrevious(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAnimationSet()
	s := &fakeScene{}

	a.StartScroll(5, 6, 6, start)
	a.Advance(start.Add(100*time.Millisecond), s)
	mid := s.focus
	if mid <= 5 || mid >= 6 {
		t.Fatalf("mid-scroll focus = %v", mid)
	}

	a.StartScroll(mid, 7, 7, start.Add(100*time.Millisecond))
	drive(a, s, start.Add(100*time.Millisecond), time.Second)
	if len(s.commits) != 1 || s.commits[0] != 7 {
		t.Errorf("commits = %v, want only the replacement [7]", s.commits)
	}
}

func TestZoomRetargetKeepsElapsedTime(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAnimationSet()
	s := &fakeScene{}

	a.RetargetZoom(0, 1, start)
	a.Advance(start.Add(100*time.Millisecond), s)
	before := a.Zoom()

	a.RetargetZoom(s.cameraZ, 2, start.Add(100*time.Millisecond))
	after := a.Zoom()
	if !after.StartedAt.Equal(before.StartedAt) || after.Start != before.Start {
		t.Fatalf("retarget restarted the animation: before %+v after %+v", before, after)
	}
	if after.Target != 2 {
		t.Fatalf("target = %v, want 2", after.Target)
	}

	a.Advance(start.Add(DefaultZoomDuration), s)
	if a.IsActive(KindZoom) || s.cameraZ != 2 {
		t.Errorf("zoom should end on the new target at the original deadline, got z=%v active=%v", s.cameraZ, a.IsActive(KindZoom))
	}
}

func TestRotationTakesShorterPathAtConstantSpeed(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAnimationSet()
	s := &fakeScene{}

	a.ToggleRotation(3, start)
	for i := 0; i <= 25; i++ {
		a.Advance(start.Add(time.Duration(i)*10*time.Millisecond), s)
	}
	if got := a.RotationAngle(3); math.Abs(float64(got)-math.Pi/2) > 1e-4 {
		t.Fatalf("quarter-second angle = %v, want π/2", got)
	}

	drive(a, s, start.Add(250*time.Millisecond), time.Second)
	if got := a.RotationAngle(3); got != math.Pi {
		t.Fatalf("angle = %v, want exactly π", got)
	}
	if a.IsActive(KindRotation) {
		t.Fatal("rotation still active at rest")
	}

	// Reverse mid-turn: it heads back the way it came instead of continuing around.
	now := start.Add(2 * time.Second)
	a.ToggleRotation(3, now)
	a.Advance(now, s)
	a.Advance(now.Add(100*time.Millisecond), s)
	partway := a.RotationAngle(3)
	a.ToggleRotation(3, now.Add(100*time.Millisecond))
	a.Advance(now.Add(150*time.Millisecond), s)
	if got := a.RotationAngle(3); got >= partway+1e-4 || got <= partway-1 {
		t.Fatalf("after reversing at %v the angle moved to %v", partway, got)
	}
	drive(a, s, now.Add(150*time.Millisecond), time.Second)
	if got := a.RotationAngle(3); got != math.Pi {
		t.Errorf("angle = %v, want π", got)
	}

	// Flipping back to the front removes the record.
	a.ToggleRotation(3, now.Add(5*time.Second))
	drive(a, s, now.Add(5*time.Second), time.Second)
	if got := a.RotationAngle(3); got != 0 {
		t.Errorf("angle = %v after flipping back, want 0", got)
	}
}

func TestMomentumHandsOffToSettle(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAnimationSet()
	s := &fakeScene{}

	a.StartMomentum(8, start)
	a.Advance(start, s)
	drive(a, s, start, 10*time.Second)

	if a.Active() {
		t.Fatal("momentum never came to rest")
	}
	if s.offset != 0 {
		t.Errorf("offset = %v, want 0 after settle", s.offset)
	}
	if s.crossings < 1 {
		t.Errorf("momentum crossed %d indices, want at least 1", s.crossings)
	}
}

func TestMomentumStopsAtBoundary(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAnimationSet()
	s := &fakeScene{clampAt: 1}

	a.StartMomentum(40, start)
	a.Advance(start, s)
	for i := 1; i < 10 && a.IsActive(KindMomentum); i++ {
		a.Advance(start.Add(time.Duration(i)*frame), s)
	}
	if a.IsActive(KindMomentum) {
		t.Fatal("momentum kept running after hitting the boundary")
	}
	if !a.IsActive(KindSettle) && s.offset != 0 {
		t.Errorf("expected settle to take over, offset = %v", s.offset)
	}
	if s.crossings != 1 {
		t.Errorf("crossings = %d, want 1", s.crossings)
	}
}

func TestLogsStartAndFinish(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAnimationSet(WithLogger(zap.New(core)))
	s := &fakeScene{}
	start := time.Unix(1000, 0)

	a.StartScroll(0, 1, 1, start)
	drive(a, s, start, time.Second)

	var got []string
	for _, e := range logs.All() {
		if e.LoggerName != "animation" {
			t.Errorf("logger name = %q, want animation", e.LoggerName)
		}
		got = append(got, e.Message+" "+e.ContextMap()["kind"].(string))
	}
	want := []string{"animation started scroll", "animation finished scroll"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("logs = %v, want %v", got, want)
	}
}
