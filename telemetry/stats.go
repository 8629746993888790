package telemetry

import "log/slog"

// FrameStats holds the surface counters for one stats window.
type FrameStats struct {
	WindowEnd uint64  `csv:"window_end"` // Total ticks at window end
	WallSec   float64 `csv:"wall_sec"`

	Presented uint64 `csv:"presented"` // Frames presented during the window
	Skipped   uint64 `csv:"skipped"`   // Ticks dropped for lack of a drawable
	Reseeds   uint64 `csv:"reseeds"`
	Strokes   uint64 `csv:"strokes"` // Gestures released during the window

	Mode          string  `csv:"mode"`
	ReliefPasses  int     `csv:"relief_passes"` // Cumulative
	ReliefReruns  int     `csv:"relief_reruns"` // Cumulative
	QueueDepthMax int     `csv:"queue_depth_max"`
	PresentRate   float64 `csv:"present_rate"` // Presented frames per second
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEnd),
		slog.Float64("wall_sec", s.WallSec),
		slog.Uint64("presented", s.Presented),
		slog.Uint64("skipped", s.Skipped),
		slog.Uint64("reseeds", s.Reseeds),
		slog.Uint64("strokes", s.Strokes),
		slog.String("mode", s.Mode),
		slog.Int("relief_passes", s.ReliefPasses),
		slog.Int("relief_reruns", s.ReliefReruns),
		slog.Int("queue_depth_max", s.QueueDepthMax),
		slog.Float64("present_rate", s.PresentRate),
	)
}

// LogStats logs the window using slog.
func (s FrameStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"presented", s.Presented,
		"skipped", s.Skipped,
		"reseeds", s.Reseeds,
		"strokes", s.Strokes,
		"mode", s.Mode,
		"relief_passes", s.ReliefPasses,
		"relief_reruns", s.ReliefReruns,
		"present_rate", s.PresentRate,
	)
}
