package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// planeExtent bounds the box reported for an infinite plane
const planeExtent = 1e6

// Plane is the infinite surface dot(Normal, p) + Offset = 0
type Plane struct {
	Normal core.Vec3 // Unit normal
	Offset float64   // Signed offset
}

// NewPlane creates the plane of points p with dot(normal, p) = value, the
// form used by scene descriptions (plane((0,1,0), -1) is the floor y = -1)
func NewPlane(normal core.Vec3, value float64) *Plane {
	length := normal.Length()
	return &Plane{
		Normal: normal.Multiply(1 / length),
		Offset: -value / length,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray) (Hit, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never hit; the threshold is relative to the direction
	// length because object-space rays are not normalized
	if math.Abs(denominator) < 1e-9*ray.Direction.Length() {
		return Hit{}, false
	}

	t := -(p.Normal.Dot(ray.Origin) + p.Offset) / denominator
	if !ray.Contains(t) {
		return Hit{}, false
	}

	hit := Hit{T: t, Point: ray.At(t)}
	hit.SetFaceNormal(ray, p.Normal)
	return hit, true
}

// BoundingBox returns a bounding box for this plane
func (p *Plane) BoundingBox() core.AABB {
	const epsilon = 0.001 // Small thickness to avoid zero-width bounding box

	// Axis-aligned planes get a slab; anything else the whole extent
	for axis := 0; axis < 3; axis++ {
		if math.Abs(p.Normal.Axis(axis)) < 1-1e-12 {
			continue
		}
		position := -p.Offset / p.Normal.Axis(axis)
		lo := core.Splat(-planeExtent)
		hi := core.Splat(planeExtent)
		switch axis {
		case 0:
			lo.X, hi.X = position-epsilon, position+epsilon
		case 1:
			lo.Y, hi.Y = position-epsilon, position+epsilon
		case 2:
			lo.Z, hi.Z = position-epsilon, position+epsilon
		}
		return core.NewAABB(lo, hi)
	}

	return core.NewAABB(core.Splat(-planeExtent), core.Splat(planeExtent))
}
