// Package components defines the ECS components of the light rig scene.
package components

// Position is a light's position in scene units. The sphere has radius 1 at the origin.
type Position struct {
	X, Y, Z float64
}

// Emission is an omni light's colour as hue and brightness in [0,1],
// with saturation fixed at 1.
type Emission struct {
	Hue        float64
	Brightness float64
}

// Slot is a light's index in the rig, used to order lights and address parameters.
type Slot struct {
	Index int
}

// Material describes the Phong surface of the preview sphere.
type Material struct {
	Shininess float64 // Specular exponent scale in [0.001, 0.25]
	Diffuse   float64 // Gray level of the diffuse colour
	Specular  float64 // Gray level of the specular colour
}
