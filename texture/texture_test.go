package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestAtClampsToEdges(t *testing.T) {
	tex := New(3, 2)
	tex.Set(0, 0, 0.25)
	tex.Set(2, 1, 0.75)

	tests := []struct {
		x, y int
		want float32
	}{
		{-5, -5, 0.25},
		{0, -1, 0.25},
		{10, 10, 0.75},
		{2, 7, 0.75},
	}
	for _, tt := range tests {
		if got := tex.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSetDropsOutOfRange(t *testing.T) {
	tex := New(2, 2)
	tex.Set(-1, 0, 1)
	tex.Set(0, 2, 1)
	tex.Set(2, 0, 1)
	for i, v := range tex.Pix {
		if v != 0 {
			t.Errorf("texel %d written by an out-of-range Set: %v", i, v)
		}
	}
}

func TestGrayRoundTrip(t *testing.T) {
	tex := New(4, 1)
	copy(tex.Pix, []float32{-1, 0, 0.5, 2})

	g := tex.Gray()
	want := []uint8{0, 0, 128, 255}
	for i, w := range want {
		if g.Pix[i] != w {
			t.Errorf("pixel %d = %d, want %d", i, g.Pix[i], w)
		}
	}

	back := FromImage(g)
	if !back.SameSize(tex) {
		t.Fatalf("expected %dx%d, got %dx%d", tex.Width, tex.Height, back.Width, back.Height)
	}
	if back.Pix[3] != 1 || back.Pix[0] != 0 {
		t.Errorf("unexpected round trip %v", back.Pix)
	}
}

func TestFromImageUsesSubImageBounds(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(2, 2, color.Gray{Y: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	tex := FromImage(sub)
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("expected 2x2, got %dx%d", tex.Width, tex.Height)
	}
	if tex.At(0, 0) != 1 {
		t.Errorf("expected the sub-image origin to be lit, got %v", tex.At(0, 0))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.White)
	if got := FromImage(rgba).At(0, 0); got != 1 {
		t.Errorf("expected white to map to 1, got %v", got)
	}
}
