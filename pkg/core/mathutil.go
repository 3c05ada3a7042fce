package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to the closed interval [lo, hi]
func Clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// orthonormalBasis builds two tangents perpendicular to the unit vector n
func orthonormalBasis(n Vec3) (Vec3, Vec3) {
	// Find a vector perpendicular to normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}
