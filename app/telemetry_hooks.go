package app

import (
	"image"
	"log/slog"
	"time"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/relief"
	"github.com/pthm-cable/mercurial/telemetry"
)

// observeRelief records a finished pass. It runs on the relief worker.
func (a *App) observeRelief(r relief.Result) {
	pass := telemetry.ReliefPass{
		Pass:       r.Pass,
		Rerun:      r.Rerun,
		DurationUS: r.Duration.Microseconds(),
		Coverage:   maskCoverage(r.Mask),
	}
	if r.Mask != nil {
		pass.Width = r.Mask.Bounds().Dx()
		pass.Height = r.Mask.Bounds().Dy()
	}
	if r.Err != nil {
		pass.Error = r.Err.Error()
	}
	a.reliefLog.Record(pass)
}

// maskCoverage is the share of mask texels that are set.
func maskCoverage(mask *image.Gray) float64 {
	if mask == nil || len(mask.Pix) == 0 {
		return 0
	}
	set := 0
	for _, p := range mask.Pix {
		if p >= 128 {
			set++
		}
	}
	return float64(set) / float64(len(mask.Pix))
}

// windowFrames is the stats window length in frames.
func (a *App) windowFrames() uint64 {
	fps := config.Cfg().Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	n := uint64(a.opts.StatsWindowSec * float64(fps))
	if n == 0 {
		n = 1
	}
	return n
}

// flushTelemetry closes the stats window when it is full, or always when force is set.
func (a *App) flushTelemetry(force bool) {
	if a.frame == a.windowFrame {
		if force {
			a.writeRelief()
		}
		return
	}
	if !force && a.frame-a.windowFrame < a.windowFrames() {
		return
	}

	now := time.Now()
	wall := now.Sub(a.windowStart).Seconds()
	cur := a.surface.Stats()
	base := a.windowBase
	summary := a.reliefLog.Summary()

	stats := telemetry.FrameStats{
		WindowEnd:     cur.Ticks,
		WallSec:       wall,
		Presented:     cur.Presented - base.Presented,
		Skipped:       cur.Skipped - base.Skipped,
		Reseeds:       cur.Reseeds - base.Reseeds,
		Strokes:       cur.Strokes - base.Strokes,
		Mode:          cur.Mode.String(),
		ReliefPasses:  summary.Passes,
		ReliefReruns:  summary.Reruns,
		QueueDepthMax: a.surface.QueueDepthMax(),
	}
	if wall > 0 {
		stats.PresentRate = float64(stats.Presented) / wall
	}
	perfStats := a.perf.Stats()

	if a.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
		if summary.Passes > 0 {
			summary.LogStats()
		}
	}

	if err := a.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := a.output.WritePerf(perfStats, a.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	a.writeRelief()

	a.windowStart = now
	a.windowFrame = a.frame
	a.windowBase = cur
}

func (a *App) writeRelief() {
	if err := a.output.WriteRelief(a.reliefLog.Flush()); err != nil {
		slog.Error("failed to write relief", "error", err)
	}
}
