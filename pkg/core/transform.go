package core

import (
	"math"

	"github.com/pkg/errors"
)

// Mat4 is a row-major 4x4 matrix acting on column vectors
type Mat4 [4][4]float64

// degenerateDeterminant is the smallest determinant magnitude accepted for
// an invertible transform
const degenerateDeterminant = 1e-12

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Scaling returns a matrix scaling by s along each axis
func Scaling(s Vec3) Mat4 {
	return Mat4{{s.X, 0, 0, 0}, {0, s.Y, 0, 0}, {0, 0, s.Z, 0}, {0, 0, 0, 1}}
}

// Translation returns a matrix translating by v
func Translation(v Vec3) Mat4 {
	return Mat4{{1, 0, 0, v.X}, {0, 1, 0, v.Y}, {0, 0, 1, v.Z}, {0, 0, 0, 1}}
}

// RotationX returns a right-handed rotation of theta radians about the X axis
func RotationX(theta float64) Mat4 {
	c, s := math.Cos(theta), math.Sin(theta)
	return Mat4{{1, 0, 0, 0}, {0, c, -s, 0}, {0, s, c, 0}, {0, 0, 0, 1}}
}

// RotationY returns a right-handed rotation of theta radians about the Y axis
func RotationY(theta float64) Mat4 {
	c, s := math.Cos(theta), math.Sin(theta)
	return Mat4{{c, 0, s, 0}, {0, 1, 0, 0}, {-s, 0, c, 0}, {0, 0, 0, 1}}
}

// RotationZ returns a right-handed rotation of theta radians about the Z axis
func RotationZ(theta float64) Mat4 {
	c, s := math.Cos(theta), math.Sin(theta)
	return Mat4{{c, -s, 0, 0}, {s, c, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Mul returns m·n, the transform that applies n first and then m
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j] + m[i][3]*n[3][j]
		}
	}
	return r
}

// Transpose returns the transpose of m
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse returns the inverse of m and its determinant. The result is only
// meaningful when the determinant is not close to zero.
func (m Mat4) Inverse() (Mat4, float64) {
	s0 := m[0][0]*m[1][1] - m[1][0]*m[0][1]
	s1 := m[0][0]*m[1][2] - m[1][0]*m[0][2]
	s2 := m[0][0]*m[1][3] - m[1][0]*m[0][3]
	s3 := m[0][1]*m[1][2] - m[1][1]*m[0][2]
	s4 := m[0][1]*m[1][3] - m[1][1]*m[0][3]
	s5 := m[0][2]*m[1][3] - m[1][2]*m[0][3]

	c5 := m[2][2]*m[3][3] - m[3][2]*m[2][3]
	c4 := m[2][1]*m[3][3] - m[3][1]*m[2][3]
	c3 := m[2][1]*m[3][2] - m[3][1]*m[2][2]
	c2 := m[2][0]*m[3][3] - m[3][0]*m[2][3]
	c1 := m[2][0]*m[3][2] - m[3][0]*m[2][2]
	c0 := m[2][0]*m[3][1] - m[3][0]*m[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, 0
	}
	idet := 1 / det

	var r Mat4
	r[0][0] = (m[1][1]*c5 - m[1][2]*c4 + m[1][3]*c3) * idet
	r[0][1] = (-m[0][1]*c5 + m[0][2]*c4 - m[0][3]*c3) * idet
	r[0][2] = (m[3][1]*s5 - m[3][2]*s4 + m[3][3]*s3) * idet
	r[0][3] = (-m[2][1]*s5 + m[2][2]*s4 - m[2][3]*s3) * idet

	r[1][0] = (-m[1][0]*c5 + m[1][2]*c2 - m[1][3]*c1) * idet
	r[1][1] = (m[0][0]*c5 - m[0][2]*c2 + m[0][3]*c1) * idet
	r[1][2] = (-m[3][0]*s5 + m[3][2]*s2 - m[3][3]*s1) * idet
	r[1][3] = (m[2][0]*s5 - m[2][2]*s2 + m[2][3]*s1) * idet

	r[2][0] = (m[1][0]*c4 - m[1][1]*c2 + m[1][3]*c0) * idet
	r[2][1] = (-m[0][0]*c4 + m[0][1]*c2 - m[0][3]*c0) * idet
	r[2][2] = (m[3][0]*s4 - m[3][1]*s2 + m[3][3]*s0) * idet
	r[2][3] = (-m[2][0]*s4 + m[2][1]*s2 - m[2][3]*s0) * idet

	r[3][0] = (-m[1][0]*c3 + m[1][1]*c1 - m[1][2]*c0) * idet
	r[3][1] = (m[0][0]*c3 - m[0][1]*c1 + m[0][2]*c0) * idet
	r[3][2] = (-m[3][0]*s3 + m[3][1]*s1 - m[3][2]*s0) * idet
	r[3][3] = (m[2][0]*s3 - m[2][1]*s1 + m[2][2]*s0) * idet

	return r, det
}

// Point applies m to a point (w = 1)
func (m Mat4) Point(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// Vector applies the linear part of m to a direction (w = 0)
func (m Mat4) Vector(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transform is an invertible affine transform. The inverse and the
// inverse-transpose are computed once so normals stay perpendicular to
// surfaces under non-uniform scaling.
type Transform struct {
	matrix           Mat4
	inverse          Mat4
	inverseTranspose Mat4
}

// IdentityTransform returns the transform that leaves everything in place
func IdentityTransform() Transform {
	return Transform{matrix: Identity(), inverse: Identity(), inverseTranspose: Identity()}
}

// NewTransform wraps m, failing with ErrDegenerateTransform when m cannot be
// inverted
func NewTransform(m Mat4) (Transform, error) {
	inv, det := m.Inverse()
	if math.Abs(det) < degenerateDeterminant || math.IsNaN(det) {
		return Transform{}, errors.Wrapf(ErrDegenerateTransform, "determinant %g", det)
	}
	return Transform{matrix: m, inverse: inv, inverseTranspose: inv.Transpose()}, nil
}

// Then returns the transform that applies t first and m afterwards
func (t Transform) Then(m Mat4) (Transform, error) {
	return NewTransform(m.Mul(t.matrix))
}

// Matrix returns the forward matrix
func (t Transform) Matrix() Mat4 {
	return t.matrix
}

// Inverse returns the inverse matrix
func (t Transform) Inverse() Mat4 {
	return t.inverse
}

// IsIdentity reports whether t leaves every point in place
func (t Transform) IsIdentity() bool {
	return t.matrix == Identity()
}

// Point maps an object-space point to world space
func (t Transform) Point(p Vec3) Vec3 {
	return t.matrix.Point(p)
}

// Vector maps an object-space direction to world space
func (t Transform) Vector(v Vec3) Vec3 {
	return t.matrix.Vector(v)
}

// Normal maps an object-space normal to a unit world-space normal
func (t Transform) Normal(n Vec3) Vec3 {
	return t.inverseTranspose.Vector(n).Normalize()
}

// InverseRay maps a world-space ray into object space. The direction is
// deliberately left un-normalized so that the ray parameter t names the same
// point in both spaces.
func (t Transform) InverseRay(r Ray) Ray {
	return Ray{
		Origin:    t.inverse.Point(r.Origin),
		Direction: t.inverse.Vector(r.Direction),
		TMin:      r.TMin,
		TMax:      r.TMax,
	}
}

// Bounds maps an object-space box to the world-space box enclosing its
// eight transformed corners
func (t Transform) Bounds(box AABB) AABB {
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := Vec3{
			X: pick(i&1 != 0, box.Max.X, box.Min.X),
			Y: pick(i&2 != 0, box.Max.Y, box.Min.Y),
			Z: pick(i&4 != 0, box.Max.Z, box.Min.Z),
		}
		p := t.Point(corner)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
