package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Diffuse represents a perfectly diffuse (Lambertian) material
type Diffuse struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Scatter implements the Material interface for diffuse scattering
func (d *Diffuse) Scatter(rayIn core.Ray, hit geometry.Hit, sampler core.Sampler) (ScatterResult, bool) {
	// Generate cosine-weighted random direction in hemisphere around normal
	scatterDirection := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())

	cosTheta := scatterDirection.Dot(hit.Normal)
	if cosTheta <= 0 {
		return ScatterResult{}, false
	}

	// BRDF albedo/π times cosθ over the cosθ/π density leaves the albedo
	return ScatterResult{
		Incoming:  rayIn,
		Scattered: newScattered(hit, scatterDirection),
		Weight:    d.Albedo,
		PDF:       cosTheta / math.Pi,
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (d *Diffuse) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	if outgoingDir.Dot(normal) <= 0 {
		return core.Vec3{} // Below surface
	}
	return d.Albedo.Multiply(1.0 / math.Pi)
}

// PDF calculates the probability density function for specific incoming/outgoing directions
func (d *Diffuse) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return 0.0, false
	}
	return cosTheta / math.Pi, false
}

// Reflectance returns the albedo
func (d *Diffuse) Reflectance() core.Vec3 {
	return d.Albedo
}

// IsDelta is always false for diffuse surfaces
func (d *Diffuse) IsDelta() bool {
	return false
}

func (d *Diffuse) sealed() {}
