// Package telemetry aggregates per-tick simulation statistics into
// fixed-length windows and exposes them for structured logging and CSV
// export.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/Endebert/sandspiel/grid"
)

// WindowStats holds aggregated statistics for one tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"window_start"`
	WindowEndTick   int64 `csv:"window_end"`

	TickDurationMeanMs   float64 `csv:"tick_duration_mean_ms"`
	TickDurationStdDevMs float64 `csv:"tick_duration_stddev_ms"`

	FailedLocksTotal   uint64  `csv:"failed_locks_total"`
	FailedLocksPerTick float64 `csv:"failed_locks_per_tick"`

	LiveCells      int `csv:"live_cells"`
	SandCount      int `csv:"sand"`
	WaterCount     int `csv:"water"`
	FireCount      int `csv:"fire"`
	SmokeCount     int `csv:"smoke"`
	VaporCount     int `csv:"vapor"`
	WoodCount      int `csv:"wood"`
	SandGenCount   int `csv:"sand_generator"`
	WaterGenCount  int `csv:"water_generator"`
}

// Window accumulates per-tick samples between two calls to Finish.
type Window struct {
	startTick     int64
	tickDurations []float64
	failedLocks   []uint64
}

// NewWindow starts a window beginning at startTick.
func NewWindow(startTick int64) *Window {
	return &Window{startTick: startTick}
}

// Observe records one tick's duration (in seconds) and the number of
// failed neighbor try-locks reported for that tick.
func (w *Window) Observe(tickDuration float64, failedLocks uint64) {
	w.tickDurations = append(w.tickDurations, tickDuration*1000)
	w.failedLocks = append(w.failedLocks, failedLocks)
}

// Finish closes the window at endTick, computing duration statistics
// from the observed samples via gonum and taking a census snapshot of
// the grid as it stood at endTick. The returned Window covers the next
// interval, starting immediately after endTick.
func (w *Window) Finish(endTick int64, census map[grid.Material]int) (WindowStats, *Window) {
	var meanMs, stdDevMs float64
	if len(w.tickDurations) > 0 {
		meanMs, stdDevMs = stat.MeanStdDev(w.tickDurations, nil)
	}

	var failedTotal uint64
	for _, f := range w.failedLocks {
		failedTotal += f
	}
	perTick := 0.0
	if n := len(w.failedLocks); n > 0 {
		perTick = float64(failedTotal) / float64(n)
	}

	live := 0
	for m, n := range census {
		if m != grid.Air {
			live += n
		}
	}

	stats := WindowStats{
		WindowStartTick:      w.startTick,
		WindowEndTick:        endTick,
		TickDurationMeanMs:   meanMs,
		TickDurationStdDevMs: stdDevMs,
		FailedLocksTotal:     failedTotal,
		FailedLocksPerTick:   perTick,
		LiveCells:            live,
		SandCount:            census[grid.Sand],
		WaterCount:           census[grid.Water],
		FireCount:            census[grid.Fire],
		SmokeCount:           census[grid.Smoke],
		VaporCount:           census[grid.Vapor],
		WoodCount:            census[grid.Wood],
		SandGenCount:         census[grid.SandGenerator],
		WaterGenCount:        census[grid.WaterGenerator],
	}

	return stats, NewWindow(endTick + 1)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("tick_duration_mean_ms", s.TickDurationMeanMs),
		slog.Float64("tick_duration_stddev_ms", s.TickDurationStdDevMs),
		slog.Uint64("failed_locks_total", s.FailedLocksTotal),
		slog.Float64("failed_locks_per_tick", s.FailedLocksPerTick),
		slog.Int("live_cells", s.LiveCells),
		slog.Int("sand", s.SandCount),
		slog.Int("water", s.WaterCount),
		slog.Int("fire", s.FireCount),
		slog.Int("smoke", s.SmokeCount),
		slog.Int("vapor", s.VaporCount),
		slog.Int("wood", s.WoodCount),
		slog.Int("sand_generator", s.SandGenCount),
		slog.Int("water_generator", s.WaterGenCount),
	)
}

// LogStats logs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("tick window", "stats", s)
}
