package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/renderer"
	"github.com/pthm-cable/mercurial/surface"
	"github.com/pthm-cable/mercurial/telemetry"
	"github.com/pthm-cable/mercurial/ui"
)

const controlsText = "Draw: left mouse / touch | C: clear | Wheel/+/-: zoom | Right drag/arrows: pan | Home: reset view | Tab: perf"

// Draw renders the canvas, the parameter panel and the HUD, and closes the frame
// Update opened.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	a.drawCanvas()
	a.perf.StartPhase(telemetry.PhaseDraw)
	if changed := a.panel.Draw(); changed > 0 {
		a.refreshShading()
	}

	st := a.surface.Stats()
	summary := a.reliefLog.Summary()
	a.hud.Draw(ui.HUDData{
		Title:        "Mercurial",
		Device:       a.device.Name(),
		Mode:         st.Mode.String(),
		FPS:          rl.GetFPS(),
		Presented:    st.Presented,
		Skipped:      st.Skipped,
		Strokes:      st.Strokes,
		ReliefPasses: summary.Passes,
		ReliefState:  a.surface.ReliefState(),
	})
	if a.showPerf {
		a.drawPerf()
	}
	a.hud.DrawControls(int32(a.screenHeight), controlsText)

	rl.EndDrawing()
	a.perf.EndTick()
}

// drawCanvas draws the displayed image into the camera's screen rectangle. Live GPU
// drawables are drawn straight from their texture; everything else is uploaded
// only when the displayed image changes.
func (a *App) drawCanvas() {
	x, y, w, h := a.camera.ScreenRect()
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	if a.surface.Mode() == surface.ModeLive {
		if td, ok := a.surface.LastPresented().(renderer.TextureDrawable); ok {
			tex := td.Texture2D()
			// Render textures are stored bottom-up
			src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
			rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
			return
		}
	}

	img := a.surface.DisplayedImage()
	if img == nil {
		return
	}
	// Live software frames are new images every tick, shaded ones are reused.
	if img != a.shown || a.surface.Mode() == surface.ModeLive {
		a.perf.StartPhase(telemetry.PhaseSnapshot)
		a.display.Upload(img)
		a.shown = img
	}
	a.display.Draw(dst)
}

func (a *App) drawPerf() {
	stats := a.perf.Stats()
	data := ui.PerfPanelData{Avg: stats.AvgTick, P95: stats.P95Tick}
	for _, ph := range telemetry.Phases() {
		data.Rows = append(data.Rows, ui.PerfRow{
			Name: ph.String(),
			Avg:  stats.PhaseAvg[ph],
			Pct:  stats.PhasePct[ph],
		})
	}
	a.perfPanel.Draw(data)
}
