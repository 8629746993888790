package lightrig

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/mercurial/components"
)

// ErrUnknownLight is returned for a parameter addressing a light outside the rig.
var ErrUnknownLight = errors.New("lightrig: unknown light")

// Light is one light as seen by a snapshot.
type Light struct {
	Position r3.Vec
	Emission components.Emission
}

// Snapshot is an immutable copy of the rig for readers on other goroutines.
type Snapshot struct {
	Lights   [LightCount]Light
	Material components.Material
	Ambient  float64
	Version  uint64 // Incremented on every parameter change
}

// Rig is the scene of lights and the sphere material, stored as ECS entities.
// All methods are safe for concurrent use.
type Rig struct {
	mu sync.Mutex

	world       *ecs.World
	lightMapper *ecs.Map3[components.Position, components.Emission, components.Slot]
	lightFilter *ecs.Filter3[components.Position, components.Emission, components.Slot]
	materialMap *ecs.Map1[components.Material]

	lights   [LightCount]ecs.Entity
	material ecs.Entity

	groups  []Group
	ambient float64
	version uint64
	dirty   bool
}

// NewRig builds the scene and applies every parameter in groups.
func NewRig(groups []Group, ambient float64) (*Rig, error) {
	world := ecs.NewWorld()
	r := &Rig{
		world:       world,
		lightMapper: ecs.NewMap3[components.Position, components.Emission, components.Slot](world),
		lightFilter: ecs.NewFilter3[components.Position, components.Emission, components.Slot](world),
		materialMap: ecs.NewMap1[components.Material](world),
		groups:      groups,
		ambient:     ambient,
	}

	for i := range r.lights {
		pos := components.Position{}
		em := components.Emission{}
		slot := components.Slot{Index: i}
		r.lights[i] = r.lightMapper.NewEntity(&pos, &em, &slot)
	}
	mat := components.Material{Shininess: 0.15, Diffuse: 1.0 / 3, Specular: 1}
	r.material = r.materialMap.NewEntity(&mat)

	for _, g := range groups {
		for _, p := range g.Parameters {
			if err := r.apply(p); err != nil {
				return nil, fmt.Errorf("applying %s/%s: %w", g.Name, p.Name, err)
			}
		}
	}
	// Start dirty so the first frame renders a shading image.
	r.dirty = true
	return r, nil
}

// ListParameterGroups returns the parameter table the rig was built from.
func (r *Rig) ListParameterGroups() []Group {
	return r.groups
}

// Apply writes the parameter's current value into the scene without marking a change.
func (r *Rig) Apply(p *Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(p)
}

// OnParameterChanged re-clamps p, writes it into the scene and marks the rig changed.
func (r *Rig) OnParameterChanged(p *Parameter) error {
	p.SetValue(p.Value())

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.apply(p); err != nil {
		return err
	}
	r.version++
	r.dirty = true
	return nil
}

// ConsumeChanged reports whether the rig changed since the last call, and clears the flag.
func (r *Rig) ConsumeChanged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := r.dirty
	r.dirty = false
	return changed
}

// Snapshot copies the scene.
func (r *Rig) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Material: *r.materialMap.Get(r.material),
		Ambient:  r.ambient,
		Version:  r.version,
	}
	query := r.lightFilter.Query()
	for query.Next() {
		pos, em, slot := query.Get()
		snap.Lights[slot.Index] = Light{
			Position: r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z},
			Emission: *em,
		}
	}
	return snap
}

func (r *Rig) apply(p *Parameter) error {
	v := p.Value()
	switch fn := p.Function.(type) {
	case MaterialShininess:
		r.materialMap.Get(r.material).Shininess = v

	case LightPosition:
		if err := r.checkLight(fn.Light); err != nil {
			return err
		}
		pos, _, _ := r.lightMapper.Get(r.lights[fn.Light])
		switch fn.Axis {
		case AxisX:
			pos.X = v
		case AxisY:
			pos.Y = v
		case AxisZ:
			pos.Z = v
		default:
			return fmt.Errorf("lightrig: unknown axis %v", fn.Axis)
		}

	case LightHue:
		if err := r.checkLight(fn.Light); err != nil {
			return err
		}
		_, em, _ := r.lightMapper.Get(r.lights[fn.Light])
		em.Hue = v

	case LightBrightness:
		if err := r.checkLight(fn.Light); err != nil {
			return err
		}
		_, em, _ := r.lightMapper.Get(r.lights[fn.Light])
		em.Brightness = v

	default:
		return fmt.Errorf("lightrig: unsupported parameter function %T", p.Function)
	}
	return nil
}

func (r *Rig) checkLight(i int) error {
	if i < 0 || i >= LightCount {
		return fmt.Errorf("%w: %d", ErrUnknownLight, i)
	}
	return nil
}
