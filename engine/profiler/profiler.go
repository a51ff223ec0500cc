package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Stats is one reporting interval's summary.
type Stats struct {
	Frames     int
	FPS        float64
	AvgFrameMs float64
	MaxFrameMs float64
	HeapMB     float64
	AllocMBps  float64
	GCCount    uint32
	MaxPauseUs uint64
}

// Profiler accumulates frame times and memory statistics and reports them through a zap logger
// at a fixed interval. Frames are delimited by calls to Tick; idle gaps between frames longer than
// the interval are not counted as frame time.
type Profiler struct {
	logger         *zap.Logger
	updateInterval time.Duration

	frameCount     int
	frameTotal     time.Duration
	frameMax       time.Duration
	lastTick       time.Time
	lastReport     time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler reporting every interval.
// An interval <= 0 defaults to 5 seconds, and a nil logger to zap.NewNop().
//
// Parameters:
//   - logger: destination for the stats lines
//   - interval: how often stats are reported
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *zap.Logger, interval time.Duration) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Profiler{
		logger:         logger.Named("profiler"),
		updateInterval: interval,
	}
}

// Tick records the end of a frame at now.
// Logs and returns the interval statistics when the update interval has elapsed.
//
// Parameters:
//   - now: the time the frame finished
//
// Returns:
//   - Stats: the reported statistics, valid only when the second return is true
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick(now time.Time) (Stats, bool) {
	if p.lastReport.IsZero() {
		p.lastReport, p.lastTick = now, now
		return Stats{}, false
	}

	if dt := now.Sub(p.lastTick); dt < p.updateInterval {
		p.frameCount++
		p.frameTotal += dt
		if dt > p.frameMax {
			p.frameMax = dt
		}
	}
	p.lastTick = now

	elapsed := now.Sub(p.lastReport)
	if elapsed < p.updateInterval || p.frameCount == 0 {
		return Stats{}, false
	}

	s := p.collect(elapsed)
	p.logger.Info("frame stats",
		zap.Int("frames", s.Frames),
		zap.Float64("fps", s.FPS),
		zap.Float64("avg_frame_ms", s.AvgFrameMs),
		zap.Float64("max_frame_ms", s.MaxFrameMs),
		zap.Float64("heap_mb", s.HeapMB),
		zap.Float64("alloc_mb_per_s", s.AllocMBps),
		zap.Uint32("gc", s.GCCount),
		zap.Uint64("max_gc_pause_us", s.MaxPauseUs),
	)

	p.frameCount = 0
	p.frameTotal = 0
	p.frameMax = 0
	p.lastReport = now
	return s, true
}

// collect builds Stats for the interval and advances the memory baselines.
func (p *Profiler) collect(elapsed time.Duration) Stats {
	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		Frames:     p.frameCount,
		FPS:        float64(p.frameCount) / p.frameTotal.Seconds(),
		AvgFrameMs: float64(p.frameTotal.Microseconds()) / 1000 / float64(p.frameCount),
		MaxFrameMs: float64(p.frameMax.Microseconds()) / 1000,
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		AllocMBps:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:    p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
			s.MaxPauseUs = pause
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
