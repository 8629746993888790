package ui

import (
	"fmt"
	"image"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/lightrig"
)

// ParameterRig is the part of the light rig the panel edits.
type ParameterRig interface {
	ListParameterGroups() []lightrig.Group
	OnParameterChanged(p *lightrig.Parameter) error
	Snapshot() lightrig.Snapshot
}

// Row is one laid-out line of the parameter panel.
type Row struct {
	Kind      RowKind
	Title     string              // Group name for headers
	Parameter *lightrig.Parameter // Set for sliders
	Y         int32
}

// Layout places a header per group followed by one slider row per parameter,
// starting at top. It returns the rows and the Y just below the last one.
func Layout(groups []lightrig.Group, top int32, t Theme) ([]Row, int32) {
	var rows []Row
	y := top
	for _, g := range groups {
		rows = append(rows, Row{Kind: RowHeader, Title: g.Name, Y: y})
		y += t.LineHeight
		for _, p := range g.Parameters {
			rows = append(rows, Row{Kind: RowSlider, Parameter: p, Y: y})
			y += t.LineHeight
		}
		y += t.Padding / 2
	}
	return rows, y
}

// ParameterPanel is the right-hand panel: the shading image preview with light
// markers on top, then one slider per rig parameter.
type ParameterPanel struct {
	renderer *Renderer
	rig      ParameterRig
	x, y     int32
	width    int32
	height   int32

	preview *ImageTexture
}

// NewParameterPanel creates a panel occupying the given screen column.
func NewParameterPanel(rig ParameterRig, x, y, width, height int32) *ParameterPanel {
	return &ParameterPanel{
		renderer: NewRenderer(),
		rig:      rig,
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		preview:  &ImageTexture{},
	}
}

// SetBounds moves the panel after a window resize.
func (p *ParameterPanel) SetBounds(x, y, width, height int32) {
	p.x, p.y, p.width, p.height = x, y, width, height
}

// PreviewSize is the edge of the preview square in screen pixels.
func (p *ParameterPanel) PreviewSize() int32 {
	return p.width - 2*p.renderer.Theme.Padding
}

// SetPreview uploads a new shading image for display.
func (p *ParameterPanel) SetPreview(img image.Image) {
	p.preview.Upload(img)
}

// Draw renders the panel and applies slider edits to the rig. It returns the
// number of parameters changed this frame.
func (p *ParameterPanel) Draw() int {
	r := p.renderer
	t := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.height)

	left := p.x + t.Padding
	inner := p.width - 2*t.Padding
	top := p.y + t.Padding

	size := p.PreviewSize()
	if p.preview.Valid() {
		p.preview.Draw(rl.Rectangle{X: float32(left), Y: float32(top), Width: float32(size), Height: float32(size)})
	}
	for _, m := range lightrig.Markers(p.rig.Snapshot(), float64(size)) {
		r.DrawMarker(float32(left)+float32(m.X), float32(top)+float32(m.Y), fmt.Sprint(m.Index), m.Color, m.DarkLabel)
	}

	rows, _ := Layout(p.rig.ListParameterGroups(), top+size+t.Padding, t)
	changed := 0
	for _, row := range rows {
		if row.Kind == RowHeader {
			r.DrawSectionHeader(left, row.Y, row.Title)
			continue
		}
		param := row.Parameter
		cur := float32(param.Value())
		next := r.DrawLabelledSlider(left, row.Y, inner, param.Name, param.Label(),
			cur, float32(param.Bounds.Min), float32(param.Bounds.Max))
		if next == cur {
			continue
		}
		param.SetValue(float64(next))
		if err := p.rig.OnParameterChanged(param); err != nil {
			slog.Warn("parameter change rejected", "parameter", param.Name, "error", err)
			continue
		}
		changed++
	}
	return changed
}

// Close releases the preview texture.
func (p *ParameterPanel) Close() {
	p.preview.Unload()
}
