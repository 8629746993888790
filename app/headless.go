package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/renderer"
)

// StrokePoint is the scripted contact at tick i of a stroke lasting ticks frames:
// one turn of a circle of the given radius around (cx, cy), in view coordinates.
func StrokePoint(i, ticks int, cx, cy, radius float32) pointer.Point {
	if ticks <= 0 {
		return pointer.Point{X: cx, Y: cy}
	}
	angle := 2 * math.Pi * float64(i) / float64(ticks)
	sin, cos := math.Sincos(angle)
	return pointer.Point{
		X: cx + radius*float32(cos),
		Y: cy + radius*float32(sin),
	}
}

// RunHeadless draws the scripted stroke, releases it, waits for the relief pass and
// writes the mask and the shaded result to the output directory. maxTicks caps the
// stroke length when positive.
func (a *App) RunHeadless(maxTicks int) error {
	cfg := config.Cfg()
	ticks := cfg.Headless.StrokeTicks
	if maxTicks > 0 && maxTicks < ticks {
		ticks = maxTicks
	}
	center := float32(cfg.Derived.ViewSize) / 2
	radius := float32(cfg.Headless.StrokeRadius)

	slog.Info("drawing scripted stroke", "ticks", ticks, "radius", radius, "force", cfg.Headless.Force)
	for i := 0; i < ticks; i++ {
		ev := pointer.Event{
			Positions: []pointer.Point{StrokePoint(i, ticks, center, center, radius)},
			Force:     float32(cfg.Headless.Force),
			HasForce:  true,
		}
		if i == 0 {
			a.surface.PointerDown(ev)
		} else {
			a.surface.PointerMove(ev)
		}

		a.perf.StartTick()
		a.refreshShading()
		err := a.surface.Tick()
		a.perf.EndTick()
		if err != nil && !errors.Is(err, renderer.ErrNoDrawable) {
			return fmt.Errorf("stroke tick %d: %w", i, err)
		}
		a.frame++
		a.flushTelemetry(false)
	}

	a.surface.PointerUp()
	a.surface.Wait()
	a.surface.Drain()

	shaded := a.surface.Shaded()
	summary := a.reliefLog.Summary()
	st := a.surface.Stats()
	slog.Info("stroke shaded",
		"mode", st.Mode.String(),
		"presented", st.Presented,
		"skipped", st.Skipped,
		"relief_passes", summary.Passes,
		"relief_failures", summary.Failures,
		"shaded", shaded != nil,
	)
	a.flushTelemetry(true)

	if last := a.surface.LastPresented(); last != nil {
		if err := a.output.WriteImage("mask.png", last.Snapshot()); err != nil {
			return err
		}
	}
	if shaded == nil {
		return errors.New("headless stroke produced no shaded image")
	}
	return a.output.WriteImage("final.png", shaded)
}
