package app

import (
	"math"
	"testing"
)

func TestStrokePoint(t *testing.T) {
	tests := []struct {
		name string
		i    int
		x, y float32
	}{
		{"start", 0, 150, 100},
		{"quarter", 25, 100, 150},
		{"half", 50, 50, 100},
		{"three quarters", 75, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StrokePoint(tt.i, 100, 100, 100, 50)
			if math.Abs(float64(p.X-tt.x)) > 1e-3 || math.Abs(float64(p.Y-tt.y)) > 1e-3 {
				t.Errorf("expected (%v,%v), got (%v,%v)", tt.x, tt.y, p.X, p.Y)
			}
		})
	}

	if p := StrokePoint(3, 0, 10, 20, 5); p.X != 10 || p.Y != 20 {
		t.Errorf("expected the center for an empty stroke, got %+v", p)
	}
}
