package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// farDistance places the shadow-ray target of a directional light well
// outside any scene
const farDistance = 1e7

// Directional is light arriving from infinitely far away along a fixed
// direction, without falloff
type Directional struct {
	Direction core.Vec3 // Unit direction the light travels in
	Radiance  core.Vec3
}

// NewDirectional creates a directional light travelling along direction
func NewDirectional(direction, radiance core.Vec3) *Directional {
	return &Directional{Direction: direction.Normalize(), Radiance: radiance}
}

// Type returns LightTypeDirectional
func (d *Directional) Type() LightType {
	return LightTypeDirectional
}

// Illuminate returns the light arriving at point
func (d *Directional) Illuminate(point core.Vec3) LightSample {
	toLight := d.Direction.Negate()
	return LightSample{
		Point:     point.Add(toLight.Multiply(farDistance)),
		Direction: toLight,
		Distance:  math.Inf(1),
		Radiance:  d.Radiance,
	}
}

func (d *Directional) sealed() {}
