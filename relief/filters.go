// Package relief turns the presented binary mask into a shaded, embossed image:
// the mask becomes alpha, alpha is smoothed into a height field, and the height
// field's normals look up colours in a sphere-mapped shading image.
package relief

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/mercurial/lightrig"
	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/postproc"
	"github.com/pthm-cable/mercurial/texture"
)

// sphereMapSize is the edge the shading image is resampled to before lookups.
const sphereMapSize = 256

// specularWeight scales the snapshot's highlight on top of the shading image.
const specularWeight = 0.25

// MaskToAlpha maps mask luminance to alpha in [0,1].
func MaskToAlpha(mask *image.Gray) *texture.Texture {
	return texture.FromImage(mask)
}

// HeightFieldFromMask smooths alpha into a height field whose edges ramp over
// roughly radius pixels. Heights stay in [0,1].
func HeightFieldFromMask(alpha *texture.Texture, radius float64, pool *parallel.Pool) *texture.Texture {
	height := texture.New(alpha.Width, alpha.Height)
	postproc.Blur(alpha, height, radius/3, pool)
	return height
}

// SphereMap resamples a shading image to the fixed lookup size with bilinear filtering.
func SphereMap(shading image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, sphereMapSize, sphereMapSize))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), shading, shading.Bounds(), xdraw.Src, nil)
	return dst
}

// ShadedMaterial lights the height field. Normals come from central differences
// scaled by scale; each normal picks its colour from the sphere map at
// ((nx+1)/2, (1-ny)/2), a Blinn highlight from the snapshot's lights is added,
// and the result is premultiplied by alpha.
func ShadedMaterial(height, alpha *texture.Texture, sphere *image.RGBA, snap lightrig.Snapshot, scale float64, pool *parallel.Pool) *image.RGBA {
	w, h := height.Width, height.Height
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	lights := make([]highlight, 0, lightrig.LightCount)
	for _, l := range snap.Lights {
		if l.Emission.Brightness <= 0 || r3.Norm(l.Position) == 0 {
			continue
		}
		c := l.Emission.Color()
		lights = append(lights, highlight{dir: r3.Unit(l.Position), r: c.R, g: c.G, b: c.B})
	}
	exponent := snap.Material.Shininess * 128

	rows := func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				a := alpha.Pix[y*w+x]
				if a <= 0 {
					continue
				}
				dx := float64(height.At(x+1, y)-height.At(x-1, y)) / 2 * scale
				dy := float64(height.At(x, y+1)-height.At(x, y-1)) / 2 * scale
				// Image rows grow downwards, normals use +Y up.
				n := r3.Unit(r3.Vec{X: -dx, Y: dy, Z: 1})

				base := sampleSphere(sphere, n)
				r, g, b := float64(base.R)/255, float64(base.G)/255, float64(base.B)/255
				for _, l := range lights {
					s := l.specular(n, exponent) * specularWeight
					r += s * l.r
					g += s * l.g
					b += s * l.b
				}

				af := float64(a)
				out.SetRGBA(x, y, color.RGBA{
					R: toByte(r * af),
					G: toByte(g * af),
					B: toByte(b * af),
					A: toByte(af),
				})
			}
		}
	}
	if pool != nil {
		pool.Run(h, rows)
	} else {
		rows(0, h)
	}
	return out
}

type highlight struct {
	dir     r3.Vec
	r, g, b float64
}

// specular is the Blinn highlight for a distant light seen from +Z.
func (l highlight) specular(n r3.Vec, exponent float64) float64 {
	half := r3.Unit(r3.Add(l.dir, r3.Vec{Z: 1}))
	d := r3.Dot(n, half)
	if d <= 0 || exponent <= 0 {
		return 0
	}
	return math.Pow(d, exponent)
}

func sampleSphere(sphere *image.RGBA, n r3.Vec) color.RGBA {
	size := sphere.Bounds().Dx()
	u := (n.X + 1) / 2
	v := (1 - n.Y) / 2
	x := clampIndex(int(u*float64(size)), size)
	y := clampIndex(int(v*float64(size)), size)
	return sphere.RGBAAt(x, y)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
