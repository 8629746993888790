package lightrig

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// shininessScale maps material shininess to a Phong exponent.
const shininessScale = 128

var viewDir = r3.Vec{X: 0, Y: 0, Z: 1}

// RenderPreview renders the unit sphere under the snapshot's lights with an
// orthographic camera on +Z, so the sphere fills a size×size image. Pixel (x, y)
// shows the surface whose normal is ((2x/size)-1, 1-(2y/size)), which is what makes
// the image usable as a sphere map.
func RenderPreview(snap Snapshot, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}

	colors := make([]colorful.Color, LightCount)
	for i, l := range snap.Lights {
		colors[i] = l.Emission.Color()
	}
	mat := snap.Material
	exponent := mat.Shininess * shininessScale

	inv := 2 / float64(size)
	for py := 0; py < size; py++ {
		y := 1 - (float64(py)+0.5)*inv
		for px := 0; px < size; px++ {
			x := (float64(px)+0.5)*inv - 1
			d := x*x + y*y
			if d > 1 {
				img.SetRGBA(px, py, color.RGBA{A: 255})
				continue
			}
			n := r3.Vec{X: x, Y: y, Z: math.Sqrt(1 - d)}

			r := snap.Ambient * mat.Diffuse
			g, b := r, r
			for i, l := range snap.Lights {
				dl, sl := phong(n, l.Position, exponent)
				c := colors[i]
				w := dl*mat.Diffuse + sl*mat.Specular
				r += w * c.R
				g += w * c.G
				b += w * c.B
			}
			img.SetRGBA(px, py, color.RGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: 255})
		}
	}
	return img
}

// phong returns the diffuse and specular factors at surface point n (which is also
// its normal on the unit sphere) for a light at pos.
func phong(n, pos r3.Vec, exponent float64) (diffuse, specular float64) {
	toLight := r3.Sub(pos, n)
	if r3.Norm(toLight) == 0 {
		return 0, 0
	}
	l := r3.Unit(toLight)
	ndl := r3.Dot(n, l)
	if ndl <= 0 {
		return 0, 0
	}
	reflected := r3.Sub(r3.Scale(2*ndl, n), l)
	rdv := r3.Dot(reflected, viewDir)
	if rdv > 0 {
		specular = math.Pow(rdv, exponent)
	}
	return ndl, specular
}

func unit8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Marker is a light's on-screen handle over the preview.
type Marker struct {
	Index     int // 1-based label
	X, Y      float64
	Color     colorful.Color
	DarkLabel bool // Label should be drawn dark on a light marker
}

// Markers places one marker per light over a preview drawn width pixels wide,
// mapping the planar light range onto it with +Y up.
func Markers(snap Snapshot, width float64) []Marker {
	span := BoundsPlanar.Max - BoundsPlanar.Min
	out := make([]Marker, 0, LightCount)
	for i, l := range snap.Lights {
		out = append(out, Marker{
			Index:     i + 1,
			X:         width * (l.Position.X - BoundsPlanar.Min) / span,
			Y:         width - width*(l.Position.Y-BoundsPlanar.Min)/span,
			Color:     l.Emission.Color(),
			DarkLabel: l.Emission.Luminance() >= 0.5,
		})
	}
	return out
}
