package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/go-pathtracer/pkg/core"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestCamera_CenterRayIsForward(t *testing.T) {
	lookAt := core.NewVec3(1, 2, 3)
	camera := NewCamera(CameraConfig{
		Position: core.NewVec3(-4, 5, 6),
		LookAt:   &lookAt,
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	})

	ray := camera.GetRay(0.5, 0.5, 1.5)
	want := lookAt.Subtract(camera.Position()).Normalize()
	if diff := cmp.Diff(want, ray.Direction, approx); diff != "" {
		t.Errorf("center ray direction mismatch (-want +got):\n%s", diff)
	}
	if ray.Origin != camera.Position() {
		t.Errorf("ray origin %v, want camera position %v", ray.Origin, camera.Position())
	}
}

func TestCamera_Orientation(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())

	topLeft := camera.RayForPixel(0, 0, 100, 50, core.Vec2{})
	bottomRight := camera.RayForPixel(99, 49, 100, 50, core.NewVec2(1, 1))

	if topLeft.Direction.X >= 0 || topLeft.Direction.Y <= 0 {
		t.Errorf("pixel (0,0) should look up and left, got %v", topLeft.Direction)
	}
	if bottomRight.Direction.X <= 0 || bottomRight.Direction.Y >= 0 {
		t.Errorf("last pixel should look down and right, got %v", bottomRight.Direction)
	}

	// Vertical field of view spans 30°
	top := camera.GetRay(0.5, 0, 2)
	bottom := camera.GetRay(0.5, 1, 2)
	angle := math.Acos(top.Direction.Dot(bottom.Direction))
	if math.Abs(angle-core.DegreesToRadians(30)) > 1e-9 {
		t.Errorf("expected 30° vertical span, got %f°", angle*180/math.Pi)
	}
}

func TestCamera_Deterministic(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())
	jitter := core.NewVec2(0.25, 0.75)

	a := camera.RayForPixel(17, 23, 64, 48, jitter)
	b := camera.RayForPixel(17, 23, 64, 48, jitter)
	if a != b {
		t.Errorf("same inputs produced different rays: %v vs %v", a, b)
	}
}

func TestCamera_LookingAlongUp(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"straight down", core.NewVec3(0, -1, 0)},
		{"straight up", core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := NewCamera(CameraConfig{
				Position:  core.NewVec3(0, 10, 0),
				Direction: tt.direction,
				Up:        core.NewVec3(0, 1, 0),
				VFov:      40,
			})

			right, up, forward := camera.Basis()
			for _, v := range []core.Vec3{right, up, forward} {
				if !v.IsFinite() || math.Abs(v.Length()-1) > 1e-9 {
					t.Fatalf("basis vector %v is not a finite unit vector", v)
				}
			}
			if math.Abs(right.Dot(up)) > 1e-9 || math.Abs(right.Dot(forward)) > 1e-9 || math.Abs(up.Dot(forward)) > 1e-9 {
				t.Errorf("basis is not orthogonal: right=%v up=%v forward=%v", right, up, forward)
			}

			ray := camera.GetRay(0.3, 0.6, 1)
			if !ray.Direction.IsFinite() {
				t.Errorf("ray direction not finite: %v", ray.Direction)
			}
		})
	}
}
