// Package texture provides the CPU-side single-channel image planes shared by the
// software device, the post-process chain and the relief shader.
package texture

import (
	"image"
	"image/color"
)

// Texture is a square-or-rectangular plane of float32 intensities in row-major order.
// Values are nominally in [0, 1]; the paint kernel and filters keep them there.
type Texture struct {
	Width, Height int
	Pix           []float32
}

// New allocates a zeroed texture.
func New(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// At returns the intensity at (x, y). Coordinates are clamped to the edges.
func (t *Texture) At(x, y int) float32 {
	x = clampInt(x, 0, t.Width-1)
	y = clampInt(y, 0, t.Height-1)
	return t.Pix[y*t.Width+x]
}

// Set writes v at (x, y). Out-of-range writes are dropped.
func (t *Texture) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pix[y*t.Width+x] = v
}

// Fill sets every texel to v.
func (t *Texture) Fill(v float32) {
	for i := range t.Pix {
		t.Pix[i] = v
	}
}

// Clear sets every texel to zero.
func (t *Texture) Clear() {
	clear(t.Pix)
}

// SameSize reports whether o has the same dimensions.
func (t *Texture) SameSize(o *Texture) bool {
	return t.Width == o.Width && t.Height == o.Height
}

// CopyFrom copies o into t. Both must be the same size.
func (t *Texture) CopyFrom(o *Texture) {
	copy(t.Pix, o.Pix)
}

// Gray converts the texture to an 8-bit grayscale image.
func (t *Texture) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, t.Width, t.Height))
	for i, v := range t.Pix {
		img.Pix[i] = toByte(v)
	}
	return img
}

// FromImage builds a texture from any image using its luminance.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := New(b.Dx(), b.Dy())

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < t.Height; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+t.Width]
			for x, p := range row {
				t.Pix[y*t.Width+x] = float32(p) / 255
			}
		}
		return t
	}

	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			t.Pix[y*t.Width+x] = float32(c.Y) / 255
		}
	}
	return t
}

// toByte maps a [0,1] intensity to a byte with rounding.
func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
