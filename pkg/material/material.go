package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Material describes how a surface reflects light. The set of materials is
// closed: Diffuse and Metallic are the only implementations.
type Material interface {
	// Scatter samples an outgoing direction for a ray arriving at hit. It
	// returns false when the sample falls below the surface, which ends the path.
	Scatter(rayIn core.Ray, hit geometry.Hit, sampler core.Sampler) (ScatterResult, bool)

	// EvaluateBRDF returns f(wo, wi) for a ray travelling along incomingDir
	// that leaves along outgoingDir. Delta materials return zero.
	EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3

	// PDF returns the density with which Scatter picks outgoingDir.
	// Returns (pdf, isDelta) where isDelta indicates a specular lobe.
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)

	// Reflectance returns the surface albedo, used for ambient lighting
	Reflectance() core.Vec3

	// IsDelta reports whether the material only reflects in one direction
	IsDelta() bool

	sealed()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Incoming  core.Ray  // The incoming ray
	Scattered core.Ray  // The scattered ray, starting at the hit point
	Weight    core.Vec3 // f·cosθ/pdf, the factor applied to path throughput
	PDF       float64   // Density of the sampled direction (0 for specular materials)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// newScattered creates a secondary ray leaving the hit point
func newScattered(hit geometry.Hit, direction core.Vec3) core.Ray {
	return core.NewRay(hit.Point, direction)
}
