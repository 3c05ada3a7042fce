package lights

import "github.com/df07/go-pathtracer/pkg/core"

// LightType identifies the kind of a light
type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a source of direct illumination. The set is closed: Ambient,
// Point and Directional are the only implementations.
type Light interface {
	Type() LightType
	sealed()
}

// Occluder is a light that is blocked by geometry. Illuminate describes the
// light arriving at a shading point, before any shadow test.
type Occluder interface {
	Light
	Illuminate(point core.Vec3) LightSample
}

// LightSample contains the light arriving at a shading point
type LightSample struct {
	Point     core.Vec3 // Point the shadow ray must reach
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light (+Inf for directional lights)
	Radiance  core.Vec3 // Incident radiance, falloff included
}
