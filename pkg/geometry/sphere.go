package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// NewUnitSphere creates the sphere of radius 1 at the origin, meant to be
// placed with an object transform
func NewUnitSphere() *Sphere {
	return NewSphere(core.Vec3{}, 1)
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray) (Hit, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Hit{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !ray.Contains(root) {
		root = (-halfB + sqrtD) / a
		if !ray.Contains(root) {
			return Hit{}, false
		}
	}

	hit := Hit{T: root, Point: ray.At(root)}
	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)
	return hit, true
}

// Validate rejects spheres without a positive, finite radius
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 1) {
		return errors.Wrapf(core.ErrEmptyGeometry, "sphere radius %g", s.Radius)
	}
	return nil
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(math.Abs(s.Radius))
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}
