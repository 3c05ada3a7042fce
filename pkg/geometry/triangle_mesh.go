package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection
// It uses an internal BVH (Bounding Volume Hierarchy) built once at construction
type TriangleMesh struct {
	vertices  []core.Vec3 // Vertex buffer
	indices   []int       // Triangle indices (each group of 3 forms a triangle)
	triangles []Shape     // Individual triangles as shapes
	bvh       *BVH        // BVH for fast intersection
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Empty meshes, index lists that are not a multiple of three and out of range
// indices are construction errors.
func NewTriangleMesh(vertices []core.Vec3, indices []int) (*TriangleMesh, error) {
	if len(indices) == 0 {
		return nil, errors.Wrap(core.ErrEmptyGeometry, "triangle mesh has no faces")
	}
	if len(indices)%3 != 0 {
		return nil, errors.Wrapf(core.ErrInvalidMesh, "%d face indices is not a multiple of 3", len(indices))
	}

	numTriangles := len(indices) / 3
	triangles := make([]Shape, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := indices[i*3], indices[i*3+1], indices[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Wrapf(core.ErrInvalidMesh, "face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
		triangles[i] = NewTriangle(vertices[i0], vertices[i1], vertices[i2])
	}

	return &TriangleMesh{
		vertices:  vertices,
		indices:   indices,
		triangles: triangles,
		bvh:       NewBVH(triangles),
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray) (Hit, bool) {
	return tm.bvh.Hit(ray)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bvh.BoundingBox()
}

// PrimitiveCount returns the number of triangles in this mesh
func (tm *TriangleMesh) PrimitiveCount() int {
	return len(tm.triangles)
}

// BVH returns the mesh's acceleration structure
func (tm *TriangleMesh) BVH() *BVH {
	return tm.bvh
}

// Vertices returns the vertex buffer
func (tm *TriangleMesh) Vertices() []core.Vec3 {
	return tm.vertices
}

// Indices returns the index list
func (tm *TriangleMesh) Indices() []int {
	return tm.indices
}

// cubeFaces lists the corner indices of each cube face, counter-clockwise
// when seen from outside
var cubeFaces = [6][4]int{
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
}

// NewCube creates the axis-aligned unit cube [-0.5, 0.5]³ as a triangle mesh
func NewCube() *TriangleMesh {
	vertices := make([]core.Vec3, 8)
	for i := range vertices {
		vertices[i] = core.NewVec3(
			float64(i&1)-0.5,
			float64((i>>1)&1)-0.5,
			float64((i>>2)&1)-0.5,
		)
	}

	indices := make([]int, 0, 36)
	for _, f := range cubeFaces {
		indices = append(indices, f[0], f[1], f[2], f[0], f[2], f[3])
	}

	mesh, err := NewTriangleMesh(vertices, indices)
	if err != nil {
		panic(err) // static data
	}
	return mesh
}
