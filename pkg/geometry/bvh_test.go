package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// randomTriangles scatters count small triangles inside a cube of side 10
func randomTriangles(sampler core.Sampler, count int) []Shape {
	shapes := make([]Shape, count)
	for i := range shapes {
		center := core.NewVec3(sampler.Get1D(), sampler.Get1D(), sampler.Get1D()).Multiply(10).Subtract(core.Splat(5))
		v := func() core.Vec3 {
			return center.Add(core.SampleOnUnitSphere(sampler.Get2D()).Multiply(0.5))
		}
		shapes[i] = NewTriangle(v(), v(), v())
	}
	return shapes
}

func bruteForceHit(shapes []Shape, ray core.Ray) (Hit, bool) {
	var closest Hit
	found := false
	for _, shape := range shapes {
		if hit, ok := shape.Hit(ray); ok && (!found || hit.T < closest.T) {
			closest = hit
			found = true
		}
	}
	return closest, found
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	sampler := core.NewSeededSampler(7)

	for _, count := range []int{1, 3, 17, 200} {
		shapes := randomTriangles(sampler, count)
		bvh := NewBVH(shapes)

		hits := 0
		for i := 0; i < 500; i++ {
			origin := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(15)
			target := core.NewVec3(sampler.Get1D(), sampler.Get1D(), sampler.Get1D()).Multiply(8).Subtract(core.Splat(4))
			ray := core.NewRay(origin, target.Subtract(origin))

			want, wantOK := bruteForceHit(shapes, ray)
			got, gotOK := bvh.Hit(ray)
			if wantOK != gotOK {
				t.Fatalf("count=%d ray %d: brute force hit=%v, BVH hit=%v", count, i, wantOK, gotOK)
			}
			if wantOK {
				hits++
				if math.Abs(want.T-got.T) > 1e-9 {
					t.Fatalf("count=%d ray %d: brute force t=%f, BVH t=%f", count, i, want.T, got.T)
				}
			}
		}
		if count >= 17 && hits == 0 {
			t.Errorf("count=%d: no ray hit anything, test is not exercising the BVH", count)
		}
	}
}

func TestBVH_StructureInvariants(t *testing.T) {
	shapes := randomTriangles(core.NewSeededSampler(11), 300)
	bvh := NewBVH(shapes)

	seen := make(map[Shape]int)
	var walk func(node *BVHNode)
	walk = func(node *BVHNode) {
		if node.IsLeaf() {
			if len(node.Shapes) == 0 || len(node.Shapes) > leafThreshold {
				t.Errorf("leaf holds %d shapes", len(node.Shapes))
			}
			box := core.EmptyAABB()
			for _, shape := range node.Shapes {
				seen[shape]++
				box = box.Union(shape.BoundingBox())
			}
			if box != node.BoundingBox {
				t.Errorf("leaf box %v is not the union of its shapes %v", node.BoundingBox, box)
			}
			return
		}
		if node.Left == nil || node.Right == nil {
			t.Fatal("internal node with a single child")
		}
		if union := node.Left.BoundingBox.Union(node.Right.BoundingBox); union != node.BoundingBox {
			t.Errorf("internal box %v is not the union of its children %v", node.BoundingBox, union)
		}
		walk(node.Left)
		walk(node.Right)
	}
	walk(bvh.Root)

	if len(seen) != len(shapes) {
		t.Errorf("expected %d distinct shapes in leaves, found %d", len(shapes), len(seen))
	}
	for shape, n := range seen {
		if n != 1 {
			t.Errorf("shape %p appears in %d leaves", shape, n)
		}
	}

	stats := bvh.Stats()
	if stats.TotalShapes != len(shapes) {
		t.Errorf("Stats().TotalShapes = %d, want %d", stats.TotalShapes, len(shapes))
	}
	if stats.TotalNodes != 2*stats.LeafNodes-1 {
		t.Errorf("binary tree should have 2·leaves-1 nodes, got %d nodes and %d leaves", stats.TotalNodes, stats.LeafNodes)
	}
}

func TestBVH_CoincidentCentroids(t *testing.T) {
	// Identical triangles defeat the spatial split; the build must still terminate
	shapes := make([]Shape, 50)
	for i := range shapes {
		shapes[i] = NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	}
	bvh := NewBVH(shapes)

	if stats := bvh.Stats(); stats.TotalShapes != 50 {
		t.Errorf("expected 50 shapes in the tree, got %d", stats.TotalShapes)
	}
	if _, ok := bvh.Hit(core.NewRay(core.NewVec3(0.2, 0.2, 1), core.NewVec3(0, 0, -1))); !ok {
		t.Error("expected hit on stacked triangles")
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if _, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))); ok {
		t.Error("empty BVH should never report a hit")
	}
	if stats := bvh.Stats(); stats.TotalNodes != 0 {
		t.Errorf("empty BVH should have no nodes, got %d", stats.TotalNodes)
	}
}
