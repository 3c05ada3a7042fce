package core

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func mustCompose(t *testing.T, steps ...Mat4) Transform {
	t.Helper()
	tr := IdentityTransform()
	for _, step := range steps {
		var err error
		tr, err = tr.Then(step)
		if err != nil {
			t.Fatalf("unexpected error composing transform: %v", err)
		}
	}
	return tr
}

func TestMat4_InverseRoundTrip(t *testing.T) {
	matrices := map[string]Mat4{
		"identity":    Identity(),
		"scale":       Scaling(NewVec3(2, 3, 0.5)),
		"translation": Translation(NewVec3(1, -2, 3)),
		"rotation":    RotationY(0.7).Mul(RotationX(-0.3)),
		"composite":   Translation(NewVec3(0, -1, -0.3)).Mul(RotationY(math.Pi / 4)).Mul(Scaling(Splat(0.015))),
	}

	for name, m := range matrices {
		t.Run(name, func(t *testing.T) {
			inv, det := m.Inverse()
			if det == 0 {
				t.Fatal("expected invertible matrix")
			}
			if diff := cmp.Diff(Identity(), m.Mul(inv), approx); diff != "" {
				t.Errorf("m * inverse(m) != I (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(Identity(), inv.Mul(m), approx); diff != "" {
				t.Errorf("inverse(m) * m != I (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_CompositionOrder(t *testing.T) {
	// scale -> rotate_y -> translate, as the builder applies them
	tr := mustCompose(t,
		Scaling(Splat(2)),
		RotationY(math.Pi/2),
		Translation(NewVec3(10, 0, 0)),
	)

	// (1,0,0) scaled to (2,0,0), rotated to (0,0,-2), translated to (10,0,-2)
	got := tr.Point(NewVec3(1, 0, 0))
	if diff := cmp.Diff(NewVec3(10, 0, -2), got, approx); diff != "" {
		t.Errorf("unexpected composed point (-want +got):\n%s", diff)
	}

	// Reversing the order gives a different result
	reversed := mustCompose(t,
		Translation(NewVec3(10, 0, 0)),
		RotationY(math.Pi/2),
		Scaling(Splat(2)),
	)
	if reversed.Point(NewVec3(1, 0, 0)).Subtract(got).Length() < 1e-6 {
		t.Error("composition should not be commutative")
	}
}

func TestTransform_Degenerate(t *testing.T) {
	_, err := IdentityTransform().Then(Scaling(NewVec3(1, 0, 1)))
	if !errors.Is(err, ErrDegenerateTransform) {
		t.Fatalf("expected ErrDegenerateTransform, got %v", err)
	}

	_, err = NewTransform(Mat4{})
	if !errors.Is(err, ErrDegenerateTransform) {
		t.Fatalf("expected ErrDegenerateTransform for zero matrix, got %v", err)
	}
}

func TestTransform_NormalUnderNonUniformScale(t *testing.T) {
	// A 45° slope stretched along X; the normal must stay perpendicular
	tr := mustCompose(t, Scaling(NewVec3(4, 1, 1)))

	tangent := NewVec3(1, 1, 0)
	normal := NewVec3(1, -1, 0).Normalize()

	worldTangent := tr.Vector(tangent)
	worldNormal := tr.Normal(normal)

	if math.Abs(worldTangent.Dot(worldNormal)) > 1e-12 {
		t.Errorf("transformed normal %v is not perpendicular to tangent %v", worldNormal, worldTangent)
	}
	if math.Abs(worldNormal.Length()-1) > 1e-12 {
		t.Errorf("transformed normal should be unit length, got %f", worldNormal.Length())
	}

	// Naively transforming the normal as a vector would break perpendicularity
	naive := tr.Vector(normal).Normalize()
	if math.Abs(worldTangent.Dot(naive)) < 1e-3 {
		t.Error("test setup should distinguish inverse-transpose from forward transform")
	}
}

func TestTransform_InverseRayPreservesT(t *testing.T) {
	tr := mustCompose(t,
		Scaling(NewVec3(0.5, 2, 3)),
		RotationY(0.4),
		Translation(NewVec3(1, 2, 3)),
	)

	ray := NewRay(NewVec3(-3, 1, 7), NewVec3(0.3, -0.2, -1))
	local := tr.InverseRay(ray)

	for _, tt := range []float64{0, 0.5, 2, 10} {
		world := ray.At(tt)
		back := tr.Point(local.At(tt))
		if diff := cmp.Diff(world, back, approx); diff != "" {
			t.Errorf("t=%f maps to different points (-world +roundtrip):\n%s", tt, diff)
		}
	}
}

func TestTransform_Bounds(t *testing.T) {
	tr := mustCompose(t, RotationY(math.Pi/4), Translation(NewVec3(0, 5, 0)))
	box := tr.Bounds(NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1)))

	half := math.Sqrt2
	expected := NewAABB(NewVec3(-half, 4, -half), NewVec3(half, 6, half))
	if diff := cmp.Diff(expected, box, approx); diff != "" {
		t.Errorf("unexpected bounds (-want +got):\n%s", diff)
	}
}
