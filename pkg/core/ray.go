package core

import "math"

const (
	// RayEpsilon is the default lower bound of a ray's parametric interval.
	// Secondary rays start this far along the ray to avoid self-intersection.
	RayEpsilon = 1e-4

	// ShadowEpsilon offsets shadow ray origins along the surface normal
	ShadowEpsilon = 1e-4
)

// Ray represents a ray with an origin, a direction and a valid parametric
// interval [TMin, TMax]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
}

// NewRay creates a new ray with a normalized direction and the default
// interval [RayEpsilon, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		TMin:      RayEpsilon,
		TMax:      math.Inf(1),
	}
}

// NewSegment creates a ray from origin towards target whose interval stops
// short of target by eps. The returned distance is the full segment length.
func NewSegment(origin, target Vec3, eps float64) (Ray, float64) {
	delta := target.Subtract(origin)
	dist := delta.Length()
	return Ray{
		Origin:    origin,
		Direction: delta.Multiply(1 / dist),
		TMin:      eps,
		TMax:      dist - eps,
	}, dist
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Contains reports whether t lies inside the ray's valid interval
func (r Ray) Contains(t float64) bool {
	return t >= r.TMin && t <= r.TMax
}

// WithTMax returns a copy of the ray with the upper bound replaced
func (r Ray) WithTMax(tMax float64) Ray {
	r.TMax = tMax
	return r
}
