package lightrig

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func findParameter(t *testing.T, groups []Group, group, name string) *Parameter {
	t.Helper()
	for _, g := range groups {
		if g.Name != group {
			continue
		}
		for _, p := range g.Parameters {
			if p.Name == name {
				return p
			}
		}
	}
	t.Fatalf("parameter %s/%s not found", group, name)
	return nil
}

func TestParameterClamp(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		set    float64
		want   float64
	}{
		{"shininess below", BoundsShininess, 0, 0.001},
		{"shininess above", BoundsShininess, 1, 0.25},
		{"planar above", BoundsPlanar, 80, 50},
		{"planar below", BoundsPlanar, -80, -50},
		{"depth below", BoundsDepth, -20, -10},
		{"unit inside", BoundsUnit, 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameter("p", MaterialShininess{}, 0, tt.bounds)
			if got := p.SetValue(tt.set); got != tt.want {
				t.Errorf("SetValue(%v) = %v, want %v", tt.set, got, tt.want)
			}
			if p.Value() != tt.want {
				t.Errorf("Value() = %v, want %v", p.Value(), tt.want)
			}
		})
	}
}

func TestDefaultGroups(t *testing.T) {
	groups := DefaultGroups()
	if len(groups) != 1+LightCount {
		t.Fatalf("expected %d groups, got %d", 1+LightCount, len(groups))
	}
	if groups[0].Name != "Material" || len(groups[0].Parameters) != 1 {
		t.Errorf("unexpected material group %+v", groups[0])
	}
	for _, g := range groups[1:] {
		if len(g.Parameters) != 5 {
			t.Errorf("%s: expected 5 parameters, got %d", g.Name, len(g.Parameters))
		}
	}

	if v := findParameter(t, groups, "Material", "Shininess").Value(); v != 0.02 {
		t.Errorf("expected shininess 0.02, got %v", v)
	}
	if v := findParameter(t, groups, "Light 3", "z Position").Value(); v != -10 {
		t.Errorf("expected light 3 z -10, got %v", v)
	}
	if v := findParameter(t, groups, "Light 2", "Hue").Value(); v != 0.48 {
		t.Errorf("expected light 2 hue 0.48, got %v", v)
	}

	// Each call returns an independent table
	other := DefaultGroups()
	other[0].Parameters[0].SetValue(0.2)
	if groups[0].Parameters[0].Value() != 0.02 {
		t.Error("expected DefaultGroups to return fresh parameters")
	}
}

func TestParameterLabel(t *testing.T) {
	p := NewParameter("Hue", LightHue{}, 0.4567, BoundsUnit)
	if p.Label() != "0.46" {
		t.Errorf("expected 0.46, got %s", p.Label())
	}
}

func TestRigAppliesDefaults(t *testing.T) {
	rig, err := NewRig(DefaultGroups(), 0.05)
	if err != nil {
		t.Fatal(err)
	}

	snap := rig.Snapshot()
	want := r3.Vec{X: -35, Y: 10, Z: 35}
	if snap.Lights[3].Position != want {
		t.Errorf("light 4 at %v, want %v", snap.Lights[3].Position, want)
	}
	if snap.Lights[0].Emission.Hue != 0.1 || snap.Lights[0].Emission.Brightness != 1 {
		t.Errorf("unexpected light 1 emission %+v", snap.Lights[0].Emission)
	}
	if snap.Material.Shininess != 0.02 {
		t.Errorf("expected shininess 0.02, got %v", snap.Material.Shininess)
	}
	if snap.Ambient != 0.05 {
		t.Errorf("expected ambient 0.05, got %v", snap.Ambient)
	}
}

func TestRigChangeConsumedOnce(t *testing.T) {
	groups := DefaultGroups()
	rig, err := NewRig(groups, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !rig.ConsumeChanged() {
		t.Error("expected a fresh rig to report a change")
	}
	if rig.ConsumeChanged() {
		t.Error("expected change flag to be cleared")
	}

	p := findParameter(t, groups, "Light 2", "x Position")
	p.SetValue(-12)
	before := rig.Snapshot().Version
	if err := rig.OnParameterChanged(p); err != nil {
		t.Fatal(err)
	}

	if !rig.ConsumeChanged() {
		t.Error("expected change after OnParameterChanged")
	}
	if rig.ConsumeChanged() {
		t.Error("expected a single change to be consumed once")
	}
	snap := rig.Snapshot()
	if snap.Lights[1].Position.X != -12 {
		t.Errorf("expected light 2 x -12, got %v", snap.Lights[1].Position.X)
	}
	if snap.Version != before+1 {
		t.Errorf("expected version %d, got %d", before+1, snap.Version)
	}
}

func TestRigSnapshotIsACopy(t *testing.T) {
	groups := DefaultGroups()
	rig, err := NewRig(groups, 0)
	if err != nil {
		t.Fatal(err)
	}
	snap := rig.Snapshot()

	p := findParameter(t, groups, "Material", "Shininess")
	p.SetValue(0.2)
	if err := rig.OnParameterChanged(p); err != nil {
		t.Fatal(err)
	}
	if snap.Material.Shininess != 0.02 {
		t.Error("snapshot changed after a parameter update")
	}
}

func TestRigRejectsUnknownLight(t *testing.T) {
	rig, err := NewRig(DefaultGroups(), 0)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParameter("Hue", LightHue{Light: LightCount}, 0.5, BoundsUnit)
	if err := rig.OnParameterChanged(p); !errors.Is(err, ErrUnknownLight) {
		t.Errorf("expected ErrUnknownLight, got %v", err)
	}
}

func TestRenderPreview(t *testing.T) {
	rig, err := NewRig(DefaultGroups(), 0.05)
	if err != nil {
		t.Fatal(err)
	}
	img := RenderPreview(rig.Snapshot(), 64)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	corner := img.RGBAAt(0, 0)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("expected black outside the sphere, got %v", corner)
	}

	lit := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := img.RGBAAt(x, y)
			if int(c.R)+int(c.G)+int(c.B) > 30 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected the sphere to be lit")
	}
}

func TestRenderPreviewDarkWithoutLights(t *testing.T) {
	groups := DefaultGroups()
	for _, g := range groups {
		for _, p := range g.Parameters {
			if _, ok := p.Function.(LightBrightness); ok {
				p.SetValue(0)
			}
		}
	}
	rig, err := NewRig(groups, 0)
	if err != nil {
		t.Fatal(err)
	}
	img := RenderPreview(rig.Snapshot(), 16)
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			t.Fatal("expected black sphere with every light off and no ambient")
		}
	}
}

func TestMarkers(t *testing.T) {
	rig, err := NewRig(DefaultGroups(), 0)
	if err != nil {
		t.Fatal(err)
	}
	markers := Markers(rig.Snapshot(), 300)
	if len(markers) != LightCount {
		t.Fatalf("expected %d markers, got %d", LightCount, len(markers))
	}

	// Light 1 sits at x=0, y=25: centred horizontally, in the upper half
	m := markers[0]
	if m.Index != 1 || math.Abs(m.X-150) > 1e-9 || math.Abs(m.Y-75) > 1e-9 {
		t.Errorf("unexpected light 1 marker %+v", m)
	}
}
