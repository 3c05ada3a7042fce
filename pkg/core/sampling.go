package core

import (
	"math"

	"pgregory.net/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler draws uniform samples from a pgregory.net/rand generator
type RandomSampler struct {
	random *rand.Rand
}

// NewSeededSampler creates a sampler whose stream depends only on the seed
// values, so that two samplers built from the same values agree exactly
func NewSeededSampler(seed ...uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(seed...)}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal.
// The density of the returned direction is cos(θ)/π.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	tangent, bitangent := orthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// SamplePowerCosine generates a direction distributed as cos^n(α) around the
// unit axis, where α is the angle to the axis. The density of the returned
// direction is (n+1)/(2π)·cos^n(α). n = 0 gives a uniform hemisphere.
func SamplePowerCosine(axis Vec3, exponent float64, sample Vec2) Vec3 {
	cosAlpha := math.Pow(1.0-sample.X, 1.0/(exponent+1.0))
	sinAlpha := math.Sqrt(math.Max(0, 1.0-cosAlpha*cosAlpha))
	phi := 2.0 * math.Pi * sample.Y

	tangent, bitangent := orthonormalBasis(axis)
	return tangent.Multiply(sinAlpha * math.Cos(phi)).
		Add(bitangent.Multiply(sinAlpha * math.Sin(phi))).
		Add(axis.Multiply(cosAlpha))
}

// PowerCosinePDF returns the density of SamplePowerCosine for a direction
// making cosAlpha with the axis
func PowerCosinePDF(cosAlpha, exponent float64) float64 {
	if cosAlpha <= 0 {
		return 0
	}
	return (exponent + 1.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, exponent)
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}
