package components

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color returns the light colour at full saturation. Hue 1 is the same as hue 0.
func (e Emission) Color() colorful.Color {
	return colorful.Hsv(math.Mod(e.Hue, 1)*360, 1, e.Brightness)
}

// Luminance returns the perceived white level of the light colour in [0,1].
func (e Emission) Luminance() float64 {
	c := e.Color()
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
