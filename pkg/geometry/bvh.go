package geometry

import (
	"cmp"

	"golang.org/x/exp/slices"

	"github.com/df07/go-pathtracer/pkg/core"
)

// leafThreshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes for leaf nodes (nil for internal nodes)
}

// IsLeaf reports whether the node stores shapes directly
func (n *BVHNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is built once and never modified, so it can be shared between goroutines.
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Work on a copy: building reorders the slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH recursively splits shapes along the longest axis of their
// centroid bounds at the spatial median. When the spatial median leaves one
// side empty (clustered or coincident centroids) it falls back to an object
// median, so every call with more than leafThreshold shapes makes progress.
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	centroidBox := core.NewAABBFromPoints(boundingBox.Center())
	for _, shape := range shapes[1:] {
		box := shape.BoundingBox()
		boundingBox = boundingBox.Union(box)
		centroidBox = centroidBox.Union(core.NewAABBFromPoints(box.Center()))
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := centroidBox.LongestAxis()
	splitPos := centroidBox.Center().Axis(axis)
	mid := partitionShapes(shapes, axis, splitPos)

	if mid == 0 || mid == len(shapes) {
		sortShapesByAxis(shapes, axis)
		mid = len(shapes) / 2
	}

	left := buildBVH(shapes[:mid])
	right := buildBVH(shapes[mid:])
	return &BVHNode{
		BoundingBox: left.BoundingBox.Union(right.BoundingBox),
		Left:        left,
		Right:       right,
	}
}

// partitionShapes reorders shapes in place so that those whose centroid lies
// below splitPos come first, and returns the index of the first shape above
func partitionShapes(shapes []Shape, axis int, splitPos float64) int {
	mid := 0
	for i, shape := range shapes {
		if shape.BoundingBox().Center().Axis(axis) < splitPos {
			shapes[i], shapes[mid] = shapes[mid], shapes[i]
			mid++
		}
	}
	return mid
}

// sortShapesByAxis sorts shapes by their bounding box center along the specified axis
func sortShapesByAxis(shapes []Shape, axis int) {
	slices.SortStableFunc(shapes, func(a, b Shape) int {
		return cmp.Compare(a.BoundingBox().Center().Axis(axis), b.BoundingBox().Center().Axis(axis))
	})
}

// Hit returns the closest intersection between the ray and any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray) (Hit, bool) {
	if bvh.Root == nil {
		return Hit{}, false
	}
	return bvh.hitNode(bvh.Root, ray)
}

// hitNode recursively tests ray intersection with BVH nodes, shrinking the
// ray interval as closer hits are found
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray) (Hit, bool) {
	if !node.BoundingBox.Hit(ray) {
		return Hit{}, false
	}

	var closest Hit
	hitAnything := false

	if node.IsLeaf() {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray); ok {
				hitAnything = true
				closest = hit
				ray.TMax = hit.T
			}
		}
		return closest, hitAnything
	}

	if hit, ok := bvh.hitNode(node.Left, ray); ok {
		hitAnything = true
		closest = hit
		ray.TMax = hit.T
	}
	if hit, ok := bvh.hitNode(node.Right, ray); ok {
		hitAnything = true
		closest = hit
	}
	return closest, hitAnything
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64
	TotalShapes int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalShapes += len(node.Shapes)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
