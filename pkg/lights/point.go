package lights

import "github.com/df07/go-pathtracer/pkg/core"

// Point is an isotropic point light with inverse-square falloff
type Point struct {
	Position  core.Vec3
	Intensity core.Vec3
}

// NewPoint creates a point light
func NewPoint(position, intensity core.Vec3) *Point {
	return &Point{Position: position, Intensity: intensity}
}

// Type returns LightTypePoint
func (p *Point) Type() LightType {
	return LightTypePoint
}

// Illuminate returns the light arriving at point, attenuated by 1/d²
func (p *Point) Illuminate(point core.Vec3) LightSample {
	toLight := p.Position.Subtract(point)
	distSquared := toLight.LengthSquared()
	if distSquared == 0 {
		return LightSample{Point: p.Position}
	}
	dist := toLight.Length()

	return LightSample{
		Point:     p.Position,
		Direction: toLight.Multiply(1 / dist),
		Distance:  dist,
		Radiance:  p.Intensity.Multiply(1 / distSquared),
	}
}

func (p *Point) sealed() {}
