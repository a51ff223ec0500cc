package profiler

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfilerReportsFrameTimes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(zap.New(core), time.Second)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := p.Tick(t0); ok {
		t.Fatal("first tick reported")
	}
	now := t0
	for i := 0; i < 40; i++ {
		now = now.Add(20 * time.Millisecond)
		if _, ok := p.Tick(now); ok {
			t.Fatalf("reported early at frame %d", i)
		}
	}
	now = now.Add(220 * time.Millisecond)
	s, ok := p.Tick(now)
	if !ok {
		t.Fatal("no report after the interval")
	}
	if s.Frames != 41 {
		t.Errorf("frames = %d, want 41", s.Frames)
	}
	if math.Abs(s.MaxFrameMs-220) > 1e-9 {
		t.Errorf("max frame = %v ms, want 220", s.MaxFrameMs)
	}
	if want := 1020.0 / 41; math.Abs(s.AvgFrameMs-want) > 1e-6 {
		t.Errorf("avg frame = %v ms, want %v", s.AvgFrameMs, want)
	}
	if logs.Len() != 1 || logs.All()[0].Message != "frame stats" {
		t.Errorf("logged %d entries", logs.Len())
	}
}

func TestProfilerIgnoresIdleGaps(t *testing.T) {
	p := NewProfiler(nil, time.Second)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.Tick(t0)
	p.Tick(t0.Add(16 * time.Millisecond))

	s, ok := p.Tick(t0.Add(10 * time.Second))
	if !ok {
		t.Fatal("no report")
	}
	if s.Frames != 1 || s.MaxFrameMs != 16 {
		t.Errorf("stats = %+v, want only the 16 ms frame", s)
	}
}
