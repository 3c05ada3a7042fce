package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Object is a shape placed in the world with a material. Objects are
// immutable: every builder method returns a new Object.
type Object struct {
	shape     geometry.Shape
	material  material.Material
	transform core.Transform
	err       error
}

// DefaultMaterial is the material of objects that do not set one
func DefaultMaterial() material.Material {
	return material.NewDiffuse(core.Splat(1))
}

// NewObject creates an object with the identity transform and the default material
func NewObject(shape geometry.Shape) *Object {
	o := &Object{
		shape:     shape,
		material:  DefaultMaterial(),
		transform: core.IdentityTransform(),
	}
	if shape == nil {
		o.err = errors.Wrap(core.ErrEmptyGeometry, "object has no shape")
	} else if v, ok := shape.(geometry.Validator); ok {
		o.err = v.Validate()
	}
	return o
}

// WithMaterial returns a copy of the object using m
func (o *Object) WithMaterial(m material.Material) *Object {
	next := *o
	next.material = m
	if m == nil && next.err == nil {
		next.err = errors.New("object material is nil")
	}
	return &next
}

// Transform returns a copy of the object with m applied after the current
// transform. A non-invertible result is recorded and reported by Err.
func (o *Object) Transform(m core.Mat4) *Object {
	next := *o
	if next.err != nil {
		return &next
	}
	transform, err := o.transform.Then(m)
	if err != nil {
		next.err = err
		return &next
	}
	next.transform = transform
	return &next
}

// Scale returns a copy of the object scaled by s
func (o *Object) Scale(s core.Vec3) *Object {
	return o.Transform(core.Scaling(s))
}

// RotateX returns a copy of the object rotated by theta radians about X
func (o *Object) RotateX(theta float64) *Object {
	return o.Transform(core.RotationX(theta))
}

// RotateY returns a copy of the object rotated by theta radians about Y
func (o *Object) RotateY(theta float64) *Object {
	return o.Transform(core.RotationY(theta))
}

// RotateZ returns a copy of the object rotated by theta radians about Z
func (o *Object) RotateZ(theta float64) *Object {
	return o.Transform(core.RotationZ(theta))
}

// Translate returns a copy of the object moved by v
func (o *Object) Translate(v core.Vec3) *Object {
	return o.Transform(core.Translation(v))
}

// Err returns the first construction error, such as a degenerate transform
func (o *Object) Err() error {
	return o.err
}

// Shape returns the object-space shape
func (o *Object) Shape() geometry.Shape {
	return o.shape
}

// Material returns the surface material
func (o *Object) Material() material.Material {
	return o.material
}

// ObjectTransform returns the object-to-world transform
func (o *Object) ObjectTransform() core.Transform {
	return o.transform
}

// Intersect tests a world-space ray against the object. The ray is mapped
// into object space without renormalizing, so T is valid in both spaces.
func (o *Object) Intersect(ray core.Ray) (Intersection, bool) {
	if o.transform.IsIdentity() {
		hit, ok := o.shape.Hit(ray)
		if !ok {
			return Intersection{}, false
		}
		return Intersection{Hit: hit, Material: o.material, Object: o}, true
	}

	hit, ok := o.shape.Hit(o.transform.InverseRay(ray))
	if !ok {
		return Intersection{}, false
	}

	// The object-space normal already faces the ray; the inverse transpose
	// keeps it on the same side
	hit.Point = ray.At(hit.T)
	hit.Normal = o.transform.Normal(hit.Normal)
	return Intersection{Hit: hit, Material: o.material, Object: o}, true
}

// BoundingBox returns the world-space bounds of the object
func (o *Object) BoundingBox() core.AABB {
	return o.transform.Bounds(o.shape.BoundingBox())
}

// PrimitiveCount returns the number of primitives in the object's shape
func (o *Object) PrimitiveCount() int {
	if counter, ok := o.shape.(geometry.PrimitiveCounter); ok {
		return counter.PrimitiveCount()
	}
	return 1
}
