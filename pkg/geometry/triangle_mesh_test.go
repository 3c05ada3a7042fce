package geometry

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestNewTriangleMesh_Errors(t *testing.T) {
	quad := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}

	tests := []struct {
		name     string
		vertices []core.Vec3
		indices  []int
		wantErr  error
	}{
		{"no faces", quad, nil, core.ErrEmptyGeometry},
		{"partial face", quad, []int{0, 1, 2, 3}, core.ErrInvalidMesh},
		{"index out of range", quad, []int{0, 1, 4}, core.ErrInvalidMesh},
		{"negative index", quad, []int{0, -1, 2}, core.ErrInvalidMesh},
		{"valid quad", quad, []int{0, 1, 2, 0, 2, 3}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := NewTriangleMesh(tt.vertices, tt.indices)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err == nil && mesh.PrimitiveCount() != len(tt.indices)/3 {
				t.Errorf("expected %d triangles, got %d", len(tt.indices)/3, mesh.PrimitiveCount())
			}
		})
	}
}

func TestNewTriangleMesh_DegenerateTrianglesKept(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(2, 0, 0),
	}
	// Second face is collinear
	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 0, 1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mesh.PrimitiveCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", mesh.PrimitiveCount())
	}
	if _, ok := mesh.Hit(core.NewRay(core.NewVec3(0.2, 0.2, 1), core.NewVec3(0, 0, -1))); !ok {
		t.Error("expected the valid triangle to be hit")
	}
}

func TestNewCube(t *testing.T) {
	cube := NewCube()

	if cube.PrimitiveCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", cube.PrimitiveCount())
	}

	// Face triangles are flat, so their boxes carry a tiny padding
	box := cube.BoundingBox()
	if !box.Contains(core.NewAABB(core.Splat(-0.5), core.Splat(0.5))) || !box.Expand(-1e-5).IsValid() || box.Size().X > 1+1e-5 {
		t.Errorf("expected bounds close to [-0.5, 0.5]³, got %v", box)
	}

	// Every face is hit from outside on its front, with the outward normal
	axes := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}
	for _, axis := range axes {
		// Offset sideways only so the face stays 2.5 away along the axis
		offset := core.NewVec3(0.1, 0.13, 0.07)
		offset = offset.Subtract(axis.Multiply(offset.Dot(axis)))
		origin := axis.Multiply(3).Add(offset)
		hit, ok := cube.Hit(core.NewRay(origin, axis.Negate()))
		if !ok {
			t.Fatalf("ray along %v missed the cube", axis.Negate())
		}
		if math.Abs(hit.T-2.5) > 1e-9 {
			t.Errorf("face %v: expected t=2.5, got %f", axis, hit.T)
		}
		if !hit.FrontFace || hit.Normal.Subtract(axis).Length() > 1e-9 {
			t.Errorf("face %v: expected front hit with outward normal, got front=%v normal=%v", axis, hit.FrontFace, hit.Normal)
		}
	}
}
