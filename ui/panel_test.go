package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/pthm-cable/mercurial/lightrig"
)

func TestLayout(t *testing.T) {
	theme := DefaultTheme()
	groups := lightrig.DefaultGroups()
	rows, bottom := Layout(groups, 100, theme)

	params := 0
	for _, g := range groups {
		params += len(g.Parameters)
	}
	if len(rows) != len(groups)+params {
		t.Fatalf("expected %d rows, got %d", len(groups)+params, len(rows))
	}
	if rows[0].Kind != RowHeader || rows[0].Title != "Material" || rows[0].Y != 100 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Kind != RowSlider || rows[1].Parameter.Name != "Shininess" {
		t.Errorf("unexpected second row %+v", rows[1])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Y <= rows[i-1].Y {
			t.Fatalf("row %d not below row %d", i, i-1)
		}
	}
	if bottom <= rows[len(rows)-1].Y {
		t.Errorf("bottom %d not below last row %d", bottom, rows[len(rows)-1].Y)
	}
}

func TestOpaquePixels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})
	px := OpaquePixels(gray)
	if len(px) != 2 {
		t.Fatalf("expected 2 pixels, got %d", len(px))
	}
	if px[0] != (color.RGBA{A: 255}) || px[1] != (color.RGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("unexpected pixels %v", px)
	}

	// Premultiplied transparent texels become black
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if got := OpaquePixels(rgba)[0]; got != (color.RGBA{A: 255}) {
		t.Errorf("expected opaque black, got %v", got)
	}

	// Offset bounds are normalised
	sub := image.NewRGBA(image.Rect(5, 5, 7, 6))
	sub.SetRGBA(6, 5, color.RGBA{R: 9, A: 255})
	if got := OpaquePixels(sub); got[1].R != 9 {
		t.Errorf("expected offset image to be read from its origin, got %v", got)
	}
}
