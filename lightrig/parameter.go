// Package lightrig holds the user-editable virtual lighting: a declarative table of
// slider parameters, the scene of four omni lights and one material they drive,
// and the sphere preview rendered from that scene as the relief shading image.
package lightrig

import "fmt"

// LightCount is the number of omni lights in the rig.
const LightCount = 4

// Bounds is the closed range a parameter may take.
type Bounds struct {
	Min, Max float64
}

// Clamp limits v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Shared ranges.
var (
	BoundsUnit      = Bounds{Min: 0, Max: 1}
	BoundsPlanar    = Bounds{Min: -50, Max: 50}
	BoundsDepth     = Bounds{Min: -10, Max: 50}
	BoundsShininess = Bounds{Min: 0.001, Max: 0.25}
)

// Axis selects a light position component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Function is what a parameter controls. It is one of LightPosition, LightHue,
// LightBrightness or MaterialShininess.
type Function interface {
	function()
}

// LightPosition moves one light along one axis.
type LightPosition struct {
	Light int
	Axis  Axis
}

// LightHue sets one light's hue.
type LightHue struct {
	Light int
}

// LightBrightness sets one light's brightness.
type LightBrightness struct {
	Light int
}

// MaterialShininess sets the sphere material's shininess.
type MaterialShininess struct{}

func (LightPosition) function()     {}
func (LightHue) function()          {}
func (LightBrightness) function()   {}
func (MaterialShininess) function() {}

// Parameter is one slider-backed value. Its value is always within Bounds.
type Parameter struct {
	Name     string
	Function Function
	Bounds   Bounds

	value float64
}

// NewParameter creates a parameter with value clamped to bounds.
func NewParameter(name string, fn Function, value float64, bounds Bounds) *Parameter {
	p := &Parameter{Name: name, Function: fn, Bounds: bounds}
	p.SetValue(value)
	return p
}

// Value returns the current value.
func (p *Parameter) Value() float64 {
	return p.value
}

// SetValue stores v clamped to the bounds and returns the stored value.
func (p *Parameter) SetValue(v float64) float64 {
	p.value = p.Bounds.Clamp(v)
	return p.value
}

// Label formats the value the way the slider readout shows it.
func (p *Parameter) Label() string {
	return fmt.Sprintf("%.2f", p.value)
}

// Group is a named section of parameters.
type Group struct {
	Name       string
	Parameters []*Parameter
}

type lightDefaults struct {
	hue, x, y, z float64
}

// DefaultGroups returns a fresh copy of the parameter table: the material group
// followed by one group per light.
func DefaultGroups() []Group {
	lights := [LightCount]lightDefaults{
		{hue: 0.1, x: 0, y: 25, z: 0},
		{hue: 0.48, x: 25, y: -35, z: 0},
		{hue: 0.85, x: -35, y: -20, z: -10},
		{hue: 0.18, x: -35, y: 10, z: 35},
	}

	groups := []Group{{
		Name: "Material",
		Parameters: []*Parameter{
			NewParameter("Shininess", MaterialShininess{}, 0.02, BoundsShininess),
		},
	}}
	for i, l := range lights {
		groups = append(groups, Group{
			Name: fmt.Sprintf("Light %d", i+1),
			Parameters: []*Parameter{
				NewParameter("Hue", LightHue{Light: i}, l.hue, BoundsUnit),
				NewParameter("Brightness", LightBrightness{Light: i}, 1, BoundsUnit),
				NewParameter("x Position", LightPosition{Light: i, Axis: AxisX}, l.x, BoundsPlanar),
				NewParameter("y Position", LightPosition{Light: i, Axis: AxisY}, l.y, BoundsPlanar),
				NewParameter("z Position", LightPosition{Light: i, Axis: AxisZ}, l.z, BoundsDepth),
			},
		})
	}
	return groups
}
