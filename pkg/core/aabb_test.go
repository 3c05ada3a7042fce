package core

import (
	"math"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"misses to the side", NewRay(NewVec3(2, 0, -5), NewVec3(0, 0, 1)), false},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 0)), true},
		{"parallel inside slab", NewRay(NewVec3(0.5, -5, 0.5), NewVec3(0, 1, 0)), true},
		{"parallel outside slab", NewRay(NewVec3(1.5, -5, 0.5), NewVec3(0, 1, 0)), false},
		{"interval ends before box", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)).WithTMax(3), false},
		{"diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray); got != tt.expected {
				t.Errorf("Hit = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAABB_PaddedFlatBox(t *testing.T) {
	// A box around a triangle lying in the z=0 plane has no thickness
	flat := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 0, 0), NewVec3(0, 1, 0))
	padded := flat.Padded()

	if size := padded.Size(); size.Z <= 0 {
		t.Errorf("Padded box should have positive thickness, got %v", size)
	}
	if !padded.Contains(flat) {
		t.Errorf("Padded box %v should contain original %v", padded, flat)
	}

	// A single point becomes a tiny cube
	point := NewAABBFromPoints(NewVec3(2, 2, 2)).Padded()
	if size := point.Size(); size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		t.Errorf("Padded point box should be non-empty, got %v", size)
	}

	// Ray grazing the flat box still registers
	ray := NewRay(NewVec3(0.25, 0.25, -1), NewVec3(0, 0, 1))
	if !padded.Hit(ray) {
		t.Error("Ray through padded flat box should hit")
	}
}

func TestAABB_UnionWithEmpty(t *testing.T) {
	box := NewAABB(NewVec3(0, 1, 2), NewVec3(3, 4, 5))
	if got := EmptyAABB().Union(box); got != box {
		t.Errorf("Union with empty box should be identity, got %v", got)
	}
	if EmptyAABB().IsValid() {
		t.Error("Empty box should not be valid")
	}
	if math.Abs(box.SurfaceArea()-54) > 1e-12 {
		t.Errorf("Expected surface area 54, got %f", box.SurfaceArea())
	}
}
