package relief

import (
	"errors"
	"image"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/lightrig"
	"github.com/pthm-cable/mercurial/parallel"
)

var (
	// ErrNoShadingImage is returned when shading is requested before a shading image exists.
	ErrNoShadingImage = errors.New("relief: no shading image")
	// ErrEmptyMask is returned when there is no presented frame to shade.
	ErrEmptyMask = errors.New("relief: empty mask")
)

// Shader runs the mask to shaded material filter graph.
type Shader struct {
	HeightRadius float64
	Scale        float64

	pool *parallel.Pool
}

// NewShader creates a shader. pool may be nil.
func NewShader(heightRadius, scale float64, pool *parallel.Pool) *Shader {
	return &Shader{HeightRadius: heightRadius, Scale: scale, pool: pool}
}

// NewShaderFromConfig creates a shader with the configured relief parameters.
func NewShaderFromConfig(pool *parallel.Pool) *Shader {
	cfg := config.Cfg().Relief
	return NewShader(cfg.HeightRadius, cfg.Scale, pool)
}

// Apply shades mask with the sphere-mapped shading image and the light snapshot.
func (s *Shader) Apply(mask *image.Gray, shading image.Image, snap lightrig.Snapshot) (*image.RGBA, error) {
	if shading == nil {
		return nil, ErrNoShadingImage
	}
	if mask == nil || mask.Bounds().Empty() {
		return nil, ErrEmptyMask
	}

	alpha := MaskToAlpha(mask)
	height := HeightFieldFromMask(alpha, s.HeightRadius, s.pool)
	return ShadedMaterial(height, alpha, SphereMap(shading), snap, s.Scale, s.pool), nil
}
