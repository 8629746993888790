// Package ui draws the parameter panel and HUD around the painting surface.
// Layout is computed separately from drawing so it can be reasoned about without
// a window.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	MarkerOutline  rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32 // Parameter name column
	ReadoutWidth   int32 // Numeric readout column
	SliderHeight   int32
	FontSize       int32
	HeaderFontSize int32
	MarkerRadius   float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		MarkerOutline:  rl.Color{R: 0, G: 0, B: 0, A: 160},
		Padding:        10,
		LineHeight:     22,
		LabelWidth:     80,
		ReadoutWidth:   40,
		SliderHeight:   16,
		FontSize:       12,
		HeaderFontSize: 14,
		MarkerRadius:   9,
	}
}

// RowKind distinguishes the rows of a parameter panel.
type RowKind int

const (
	RowHeader RowKind = iota // Group name
	RowSlider                // One parameter
)
