package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawLabelledSlider draws name, slider and readout on one row and returns the
// slider's value, which differs from value when the user dragged it.
func (r *Renderer) DrawLabelledSlider(x, y, width int32, name, readout string, value, min, max float32) float32 {
	t := r.Theme
	rl.DrawText(name, x, y+2, t.FontSize, t.LabelColor)

	sliderW := width - t.LabelWidth - t.ReadoutWidth
	bounds := rl.Rectangle{
		X:      float32(x + t.LabelWidth),
		Y:      float32(y),
		Width:  float32(sliderW),
		Height: float32(t.SliderHeight),
	}
	next := gui.SliderBar(bounds, "", "", value, min, max)

	rl.DrawText(readout, x+t.LabelWidth+sliderW+6, y+2, t.FontSize, t.ValueColor)
	return next
}

// DrawMarker draws a numbered light handle.
func (r *Renderer) DrawMarker(cx, cy float32, label string, c colorful.Color, darkLabel bool) {
	rad := r.Theme.MarkerRadius
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, rad+1, r.Theme.MarkerOutline)
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, rad, toRL(c))

	textColor := rl.White
	if darkLabel {
		textColor = rl.Black
	}
	w := rl.MeasureText(label, r.Theme.FontSize)
	rl.DrawText(label, int32(cx)-w/2, int32(cy)-r.Theme.FontSize/2, r.Theme.FontSize, textColor)
}

// toRL converts a colour to an opaque raylib colour.
func toRL(c colorful.Color) rl.Color {
	cr, cg, cb := c.Clamped().RGB255()
	return rl.Color{R: cr, G: cg, B: cb, A: 255}
}
