package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	edge1      core.Vec3 // V1 - V0
	edge2      core.Vec3 // V2 - V0
	normal     core.Vec3 // Cached unit normal, zero for degenerate triangles
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices. Degenerate
// triangles are accepted: they never report a hit but still get a
// non-empty bounding box.
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2}
	t.edge1 = v1.Subtract(v0)
	t.edge2 = v2.Subtract(v0)
	t.normal = t.edge1.Cross(t.edge2).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).Padded()
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray) (Hit, bool) {
	if t.normal.IsZero() {
		return Hit{}, false
	}

	h := ray.Direction.Cross(t.edge2)
	a := t.edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	epsilon := 1e-12 * ray.Direction.Length() * t.edge1.Length() * t.edge2.Length()
	if math.Abs(a) <= epsilon {
		return Hit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	tParam := f * t.edge2.Dot(q)
	if !ray.Contains(tParam) {
		return Hit{}, false
	}

	hit := Hit{T: tParam, Point: ray.At(tParam)}
	hit.SetFaceNormal(ray, t.normal)
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's geometric normal (counter-clockwise winding)
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// IsDegenerate reports whether the triangle has zero area
func (t *Triangle) IsDegenerate() bool {
	return t.normal.IsZero()
}
