package lights

import "github.com/df07/go-pathtracer/pkg/core"

// Ambient adds a constant term to every shaded point, scaled by the
// surface reflectance. It is never shadowed.
type Ambient struct {
	Radiance core.Vec3
}

// NewAmbient creates an ambient light
func NewAmbient(radiance core.Vec3) *Ambient {
	return &Ambient{Radiance: radiance}
}

// Type returns LightTypeAmbient
func (a *Ambient) Type() LightType {
	return LightTypeAmbient
}

// Contribution returns the ambient light reflected by a surface
func (a *Ambient) Contribution(reflectance core.Vec3) core.Vec3 {
	return a.Radiance.MultiplyVec(reflectance)
}

func (a *Ambient) sealed() {}
