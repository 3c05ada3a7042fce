package geometry

import "github.com/df07/go-pathtracer/pkg/core"

// Hit contains information about a ray-shape intersection
type Hit struct {
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, facing against the incoming ray
	FrontFace bool      // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *Hit) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is geometry that can be intersected by rays. Shapes live in their own
// object space; rays handed to Hit may have un-normalized directions, and the
// returned T must be expressed in the ray's own parameterization.
type Shape interface {
	Hit(ray core.Ray) (Hit, bool)
	BoundingBox() core.AABB
}

// Validator is implemented by shapes whose parameters can describe empty
// geometry. Objects refuse shapes that fail validation.
type Validator interface {
	Validate() error
}

// PrimitiveCounter is implemented by shapes made of several primitives
type PrimitiveCounter interface {
	PrimitiveCount() int
}
