package paint

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/texture"
)

func noise(n, bound int, seed int64) []int32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int32, n)
	for i := range out {
		out[i] = rng.Int31n(int32(bound))
	}
	return out
}

func TestCheckGeometry(t *testing.T) {
	tests := []struct {
		count, width int
		groups       int
		wantErr      bool
	}{
		{1024, 32, 32, false},
		{2048, 32, 64, false},
		{2048, 64, 32, false},
		{1000, 32, 0, true},
		{2048, 0, 0, true},
	}

	for _, tt := range tests {
		groups, err := CheckGeometry(tt.count, tt.width)
		if tt.wantErr {
			if !errors.Is(err, ErrLaneGeometry) {
				t.Errorf("%d/%d: expected ErrLaneGeometry, got %v", tt.count, tt.width, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d/%d: unexpected error %v", tt.count, tt.width, err)
		}
		if groups != tt.groups {
			t.Errorf("%d/%d: expected %d groups, got %d", tt.count, tt.width, tt.groups, groups)
		}
	}
}

func TestNewKernelRejectsIndivisibleLanes(t *testing.T) {
	if _, err := NewKernel(1000, 32, 64, 1, nil); !errors.Is(err, ErrLaneGeometry) {
		t.Errorf("expected ErrLaneGeometry, got %v", err)
	}
}

func TestDispatchDepositsAroundContact(t *testing.T) {
	k, err := NewKernel(1024, 32, 20, 1, parallel.NewPool(4))
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.New(256, 256)

	sample := pointer.Released()
	sample.Points[0] = pointer.Point{X: 128, Y: 128}
	sample.Force = 1

	k.Dispatch(Args{Noise: noise(1024, 1024, 1), UpperBound: 1024, Sample: sample}, dst)

	painted := 0
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			if dst.At(x, y) == 0 {
				continue
			}
			painted++
			dx, dy := float32(x)-128, float32(y)-128
			if dx*dx+dy*dy > 22*22 {
				t.Fatalf("deposit at (%d,%d) outside radius", x, y)
			}
		}
	}
	if painted == 0 {
		t.Error("expected ink around the contact")
	}
}

func TestDispatchSkipsSentinels(t *testing.T) {
	k, err := NewKernel(256, 32, 20, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.New(64, 64)

	sample := pointer.Released()
	sample.Force = 1
	k.Dispatch(Args{Noise: noise(256, 256, 2), UpperBound: 256, Sample: sample}, dst)

	for i, v := range dst.Pix {
		if v != 0 {
			t.Fatalf("texel %d painted with only sentinel contacts", i)
		}
	}
}

func TestDispatchAccumulatesWithoutClearing(t *testing.T) {
	k, err := NewKernel(256, 32, 10, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.New(128, 128)

	first := pointer.Released()
	first.Points[0] = pointer.Point{X: 20, Y: 20}
	first.Force = 1
	k.Dispatch(Args{Noise: noise(256, 256, 3), UpperBound: 256, Sample: first}, dst)

	second := pointer.Released()
	second.Points[0] = pointer.Point{X: 100, Y: 100}
	second.Force = 1
	k.Dispatch(Args{Noise: noise(256, 256, 4), UpperBound: 256, Sample: second}, dst)

	if dst.At(20, 20) == 0 && countNear(dst, 20, 20, 12) == 0 {
		t.Error("expected first stroke to persist")
	}
	if countNear(dst, 100, 100, 12) == 0 {
		t.Error("expected second stroke to be painted")
	}
}

func TestDispatchDropsOutOfRange(t *testing.T) {
	k, err := NewKernel(256, 32, 50, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.New(32, 32)

	sample := pointer.Released()
	sample.Points[0] = pointer.Point{X: 0, Y: 0}
	sample.Force = 1
	// Must not panic with deposits far outside the texture
	k.Dispatch(Args{Noise: noise(256, 256, 5), UpperBound: 256, Sample: sample}, dst)
}

func TestZeroForceDepositsAtContact(t *testing.T) {
	k, err := NewKernel(64, 32, 50, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.New(32, 32)

	sample := pointer.Released()
	sample.Points[0] = pointer.Point{X: 16, Y: 16}
	sample.Force = 0
	k.Dispatch(Args{Noise: noise(64, 64, 6), UpperBound: 64, Sample: sample}, dst)

	if countNear(dst, 16, 16, 0) != 1 {
		t.Error("expected a single deposit exactly at the contact")
	}
}

func countNear(t *texture.Texture, cx, cy, r int) int {
	n := 0
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
				continue
			}
			if t.Pix[y*t.Width+x] > 0 {
				n++
			}
		}
	}
	return n
}
