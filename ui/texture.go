package ui

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	xdraw "golang.org/x/image/draw"
)

// ImageTexture keeps a GPU texture in sync with a Go image, recreating it when
// the size changes.
type ImageTexture struct {
	tex    rl.Texture2D
	w, h   int
	loaded bool
}

// Upload replaces the texture contents with img composited over black.
func (t *ImageTexture) Upload(img image.Image) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	if !t.loaded || t.w != b.Dx() || t.h != b.Dy() {
		t.Unload()
		blank := rl.GenImageColor(b.Dx(), b.Dy(), rl.Black)
		t.tex = rl.LoadTextureFromImage(blank)
		rl.UnloadImage(blank)
		rl.SetTextureFilter(t.tex, rl.FilterBilinear)
		t.w, t.h = b.Dx(), b.Dy()
		t.loaded = true
	}
	rl.UpdateTexture(t.tex, OpaquePixels(img))
}

// Valid reports whether anything was uploaded.
func (t *ImageTexture) Valid() bool {
	return t.loaded
}

// Draw stretches the texture over dst.
func (t *ImageTexture) Draw(dst rl.Rectangle) {
	if !t.loaded {
		return
	}
	src := rl.Rectangle{Width: float32(t.w), Height: float32(t.h)}
	rl.DrawTexturePro(t.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the texture.
func (t *ImageTexture) Unload() {
	if t.loaded {
		rl.UnloadTexture(t.tex)
		t.loaded = false
	}
}

// OpaquePixels flattens img into row-major pixels composited over black. Alpha-
// premultiplied inputs already hold their composited colour, so only alpha changes.
func OpaquePixels(img image.Image) []color.RGBA {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}

	w, h := b.Dx(), b.Dy()
	pixels := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			pixels[y*w+x] = color.RGBA{R: row[i], G: row[i+1], B: row[i+2], A: 255}
		}
	}
	return pixels
}
