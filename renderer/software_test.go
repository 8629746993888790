package renderer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/paint"
	"github.com/pthm-cable/mercurial/pointer"
)

func init() {
	config.MustInit("")
}

func testOptions() Options {
	return Options{
		CanvasSize:     128,
		ParticleCount:  256,
		ExecutionWidth: 32,
		MaxRadius:      24,
		Ink:            1,
		BlurSigma:      3,
		Cutoff:         0.5,
		Maximum:        1,
		Drawables:      2,
	}
}

func testNoise(n int) []int32 {
	rng := rand.New(rand.NewSource(7))
	out := make([]int32, n)
	for i := range out {
		out[i] = rng.Int31n(int32(n))
	}
	return out
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig()
	cfg := config.Cfg()
	if opts.CanvasSize != cfg.Canvas.Size || opts.ParticleCount != cfg.Particles.Count {
		t.Errorf("options do not mirror config: %+v", opts)
	}
	if opts.Cutoff != 0.5 || opts.Maximum != 1 {
		t.Errorf("expected threshold 0.5/1.0, got %f/%f", opts.Cutoff, opts.Maximum)
	}
}

func TestSoftwareDeviceRejectsLaneGeometry(t *testing.T) {
	opts := testOptions()
	opts.ParticleCount = 250
	if _, err := NewSoftwareDevice(opts, nil); !errors.Is(err, paint.ErrLaneGeometry) {
		t.Errorf("expected ErrLaneGeometry, got %v", err)
	}
}

func TestSoftwareDeviceReportsGeometry(t *testing.T) {
	d, err := NewSoftwareDevice(testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.ExecutionWidth() != 32 || d.ThreadGroups() != 8 {
		t.Errorf("expected width 32 and 8 groups, got %d and %d", d.ExecutionWidth(), d.ThreadGroups())
	}
}

func TestDrawableRingExhaustion(t *testing.T) {
	d, err := NewSoftwareDevice(testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}

	a := d.NextDrawable()
	b := d.NextDrawable()
	if a == nil || b == nil {
		t.Fatal("expected two drawables")
	}
	if d.NextDrawable() != nil {
		t.Fatal("expected ring to be exhausted")
	}

	// Presenting b then a returns b to the ring
	b.Present()
	if d.NextDrawable() != nil {
		t.Fatal("displayed and acquired drawables must not be handed out")
	}
	a.Present()
	if d.NextDrawable() != b {
		t.Error("expected previously displayed drawable to be recycled")
	}
}

func TestDiscardReturnsAcquiredDrawable(t *testing.T) {
	d, err := NewSoftwareDevice(testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	a := d.NextDrawable()
	b := d.NextDrawable()
	b.Discard()
	if got := d.NextDrawable(); got != b {
		t.Fatal("expected the discarded drawable back from the ring")
	}

	// A displayed drawable stays displayed.
	a.Present()
	a.Discard()
	b.Discard()
	if got := d.NextDrawable(); got != b {
		t.Error("expected only the undisplayed drawable to be free")
	}
	if d.NextDrawable() != nil {
		t.Error("expected the displayed drawable to stay out of the ring")
	}
}

func TestCommandBufferRunsAtCommit(t *testing.T) {
	d, err := NewSoftwareDevice(testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	dr := d.NextDrawable()

	sample := pointer.Released()
	sample.Points[0] = pointer.Point{X: 64, Y: 64}
	sample.Force = 1
	noise := testNoise(256)

	cb := d.NewCommandBuffer()
	cb.EncodePaint(paint.Args{Noise: noise, UpperBound: 256, Sample: sample})
	cb.EncodeBlur()
	cb.EncodeThreshold(dr)

	// Mutating the noise after encoding must not affect the frame
	for i := range noise {
		noise[i] = 0
	}
	for _, v := range d.Simulation().Pix {
		if v != 0 {
			t.Fatal("expected nothing to run before Commit")
		}
	}

	if err := cb.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := cb.Commit(); !errors.Is(err, ErrCommitted) {
		t.Errorf("expected ErrCommitted, got %v", err)
	}

	painted := 0
	for _, v := range d.Simulation().Pix {
		if v > 0 {
			painted++
		}
	}
	if painted < 2 {
		t.Errorf("expected deposits spread around the contact, got %d texels", painted)
	}

	snap := dr.Snapshot()
	if snap.Bounds().Dx() != 128 {
		t.Errorf("unexpected snapshot size %v", snap.Bounds())
	}
	for _, p := range snap.Pix {
		if p != 0 && p != 255 {
			t.Fatalf("expected binary mask, got %d", p)
		}
	}
}

func TestClearCanvas(t *testing.T) {
	d, err := NewSoftwareDevice(testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Simulation().Fill(1)
	d.ClearCanvas()
	for _, v := range d.Simulation().Pix {
		if v != 0 {
			t.Fatal("expected cleared canvas")
		}
	}
}
