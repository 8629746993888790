package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Device       string
	Mode         string
	FPS          int32
	Presented    uint64
	Skipped      uint64
	Strokes      uint64
	ReliefPasses int
	ReliefState  string
}

// HUD is the status box in the top-left corner of the canvas.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a HUD with the default theme.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), width: 230}
}

// Draw renders the title followed by one label/value row per counter.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme
	rows := [][2]string{
		{"Device", data.Device},
		{"FPS", fmt.Sprint(data.FPS)},
		{"Mode", data.Mode},
		{"Frames", fmt.Sprintf("%d (%d skipped)", data.Presented, data.Skipped)},
		{"Strokes", fmt.Sprint(data.Strokes)},
		{"Relief", fmt.Sprintf("%d passes, %s", data.ReliefPasses, data.ReliefState)},
	}
	height := 2*t.Padding + t.LineHeight*int32(len(rows)+1)
	r.DrawPanel(0, 0, h.width, height)

	x, y := t.Padding, t.Padding
	y = r.DrawSectionHeader(x, y, data.Title)
	for _, row := range rows {
		y = r.DrawLabelValue(x, y, row[0], row[1])
	}
}

// Height is the vertical space Draw occupies.
func (h *HUD) Height() int32 {
	t := h.renderer.Theme
	return 2*t.Padding + t.LineHeight*7
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfRow is one phase line of the perf panel.
type PerfRow struct {
	Name string
	Avg  time.Duration
	Pct  float64 // Share of the average frame
}

// PerfPanelData holds frame phase timings for display.
type PerfPanelData struct {
	Rows []PerfRow
	Avg  time.Duration
	P95  time.Duration
}

// PerfPanel renders the frame phase timings.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a perf panel anchored at (x, y).
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// Draw renders the panel. Phases over half the frame are red, over a quarter orange.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x, y := p.x, p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("avg %s  p95 %s", data.Avg.Round(time.Microsecond), data.P95.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, row := range data.Rows {
		color := rl.LightGray
		switch {
		case row.Pct > 50:
			color = rl.Red
		case row.Pct > 25:
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-9s %8s %5.1f%%", row.Name, row.Avg.Round(time.Microsecond), row.Pct), x, y, 12, color)
		y += 14
	}
}
