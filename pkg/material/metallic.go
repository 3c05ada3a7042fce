package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// mirrorRoughness is the roughness below which a metal is a perfect mirror
const mirrorRoughness = 1e-3

// Metallic is a glossy reflector: a normalized Phong lobe around the mirror
// direction whose width is set by Roughness
type Metallic struct {
	Albedo    core.Vec3 // Metal color
	Roughness float64   // 0.0 = perfect mirror, 1.0 = diffuse-like lobe
	exponent  float64   // Phong exponent 2/r² - 2
}

// NewMetallic creates a new metallic material, clamping roughness to [0, 1]
func NewMetallic(albedo core.Vec3, roughness float64) *Metallic {
	roughness = core.Clamp(roughness, 0.0, 1.0)

	m := &Metallic{Albedo: albedo, Roughness: roughness}
	if !m.IsDelta() {
		m.exponent = 2/(roughness*roughness) - 2
	}
	return m
}

// NewMirror creates a perfect mirror
func NewMirror(albedo core.Vec3) *Metallic {
	return NewMetallic(albedo, 0)
}

// Exponent returns the Phong exponent of the lobe (0 for mirrors)
func (m *Metallic) Exponent() float64 {
	return m.exponent
}

// Scatter implements the Material interface for metallic scattering
func (m *Metallic) Scatter(rayIn core.Ray, hit geometry.Hit, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)

	if m.IsDelta() {
		return ScatterResult{
			Incoming:  rayIn,
			Scattered: newScattered(hit, reflected),
			Weight:    m.Albedo,
			PDF:       0,
		}, true
	}

	direction := core.SamplePowerCosine(reflected, m.exponent, sampler.Get2D())

	// Lobe directions below the surface carry nothing; the path ends there
	cosTheta := direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return ScatterResult{}, false
	}

	// f·cosθ/pdf with f = albedo·(n+2)/(2π)·cosⁿα and pdf = (n+1)/(2π)·cosⁿα
	n := m.exponent
	return ScatterResult{
		Incoming:  rayIn,
		Scattered: newScattered(hit, direction),
		Weight:    m.Albedo.Multiply((n + 2) / (n + 1) * cosTheta),
		PDF:       core.PowerCosinePDF(direction.Dot(reflected), n),
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (m *Metallic) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	// A delta lobe has no finite value for any given pair of directions
	if m.IsDelta() || outgoingDir.Dot(normal) <= 0 {
		return core.Vec3{}
	}

	reflected := incomingDir.Normalize().Reflect(normal)
	cosAlpha := outgoingDir.Normalize().Dot(reflected)
	if cosAlpha <= 0 {
		return core.Vec3{}
	}

	n := m.exponent
	return m.Albedo.Multiply((n + 2) / (2 * math.Pi) * math.Pow(cosAlpha, n))
}

// PDF calculates the probability density function for specific incoming/outgoing directions
func (m *Metallic) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	if m.IsDelta() {
		return 0.0, true
	}
	reflected := incomingDir.Normalize().Reflect(normal)
	return core.PowerCosinePDF(outgoingDir.Normalize().Dot(reflected), m.exponent), false
}

// Reflectance returns the albedo
func (m *Metallic) Reflectance() core.Vec3 {
	return m.Albedo
}

// IsDelta reports whether the metal is a perfect mirror
func (m *Metallic) IsDelta() bool {
	return m.Roughness < mirrorRoughness
}

func (m *Metallic) sealed() {}
