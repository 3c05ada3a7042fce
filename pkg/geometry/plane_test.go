package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// plane((0,1,0), -1) is the floor y = -1
	plane := NewPlane(core.NewVec3(0, 1, 0), -1)

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-2.0) > 1e-9 {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}
	if hit.Point.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-9 {
		t.Errorf("Expected hit point (0,-1,0), got %v", hit.Point)
	}
	if !hit.FrontFace || hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected front face with normal (0,1,0), got front=%v normal=%v", hit.FrontFace, hit.Normal)
	}
}

func TestPlane_Hit_Misses(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 1, 0), 0)

	tests := []struct {
		name string
		ray  core.Ray
	}{
		{"parallel ray", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0))},
		{"plane behind ray", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))},
		{"root beyond TMax", core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)).WithTMax(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, isHit := plane.Hit(tt.ray); isHit {
				t.Errorf("Expected miss, got hit at t=%f", hit.T)
			}
		})
	}
}

func TestPlane_Hit_BackFace(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 1), -21)

	// Ray travelling along +Z reaches the back of a plane facing +Z
	ray := core.NewRay(core.NewVec3(0, 0, -30), core.NewVec3(0, 0, 1))
	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.FrontFace {
		t.Error("Expected back face hit")
	}
	if hit.Normal != core.NewVec3(0, 0, -1) {
		t.Errorf("Normal should face the ray, got %v", hit.Normal)
	}
}

func TestPlane_Hit_ResidualProperty(t *testing.T) {
	sampler := core.NewSeededSampler(99)
	hits := 0

	for i := 0; i < 2000; i++ {
		normal := core.SampleOnUnitSphere(sampler.Get2D())
		plane := NewPlane(normal, 10*(sampler.Get1D()-0.5))
		origin := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(20 * sampler.Get1D())
		ray := core.NewRay(origin, core.SampleOnUnitSphere(sampler.Get2D()))

		hit, isHit := plane.Hit(ray)
		if !isHit {
			continue
		}
		hits++

		residual := plane.Normal.Dot(ray.Origin.Add(ray.Direction.Multiply(hit.T))) + plane.Offset
		if math.Abs(residual) > 1e-9 {
			t.Fatalf("residual %g for t=%f on plane %+v", residual, hit.T, plane)
		}
		if hit.T < ray.TMin || hit.T > ray.TMax {
			t.Fatalf("t=%f outside ray interval", hit.T)
		}
	}

	if hits == 0 {
		t.Fatal("random rays never hit a plane")
	}
}

func TestPlane_BoundingBox(t *testing.T) {
	floor := NewPlane(core.NewVec3(0, 1, 0), -1)
	box := floor.BoundingBox()
	if box.Min.Y > -1 || box.Max.Y < -1 || box.Size().Y > 0.01 {
		t.Errorf("Floor plane should get a thin slab around y=-1, got %v", box)
	}

	tilted := NewPlane(core.NewVec3(1, 1, 0), 0)
	if tilted.BoundingBox().Size().Y < planeExtent {
		t.Error("Tilted plane should get the full extent")
	}
}
