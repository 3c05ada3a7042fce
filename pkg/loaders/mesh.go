package loaders

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrUnsupportedFormat is returned by LoadMesh for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// MeshData contains the raw vertex and face data read from a mesh file
type MeshData struct {
	Vertices []core.Vec3 // Vertex positions
	Indices  []int       // Triangle indices (3 per triangle)
}

// TriangleCount returns the number of triangles
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// LoadMesh loads an OBJ or PLY file, chosen by extension
func LoadMesh(filename string) (*MeshData, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filename)
	}
}

// resolveIndex converts a 1-based (or negative, relative) face index into a
// 0-based index into a buffer of count vertices
func resolveIndex(index, count int) (int, error) {
	switch {
	case index > 0 && index <= count:
		return index - 1, nil
	case index < 0 && -index <= count:
		return count + index, nil
	default:
		return 0, errors.Wrapf(core.ErrInvalidMesh, "vertex index %d out of range (%d vertices)", index, count)
	}
}

// fan appends the fan triangulation of a polygon
func fan(indices []int, polygon []int) []int {
	for i := 1; i+1 < len(polygon); i++ {
		indices = append(indices, polygon[0], polygon[i], polygon[i+1])
	}
	return indices
}
