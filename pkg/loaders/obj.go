package loaders

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// maxOBJLine bounds the length of a single OBJ line
const maxOBJLine = 1 << 20

// LoadOBJ loads a Wavefront OBJ file
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open OBJ file")
	}
	defer file.Close()

	mesh, err := ReadOBJ(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	return mesh, nil
}

// ReadOBJ reads vertex positions and faces from OBJ text. Polygons are fan
// triangulated; texture coordinates, normals, groups and materials are
// ignored.
func ReadOBJ(r io.Reader) (*MeshData, error) {
	mesh := &MeshData{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	lineNumber := 0
	var polygon []int
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", lineNumber)
			}
			var coords [3]float64
			for i := range coords {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: invalid vertex coordinate", lineNumber)
				}
				coords[i] = value
			}
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(coords[0], coords[1], coords[2]))

		case "f":
			if len(fields) < 4 {
				return nil, errors.Wrapf(core.ErrInvalidMesh, "line %d: face needs at least 3 vertices", lineNumber)
			}
			polygon = polygon[:0]
			for _, field := range fields[1:] {
				// v, v/vt, v//vn and v/vt/vn all start with the position index
				position, _, _ := strings.Cut(field, "/")
				index, err := strconv.Atoi(position)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: invalid face index", lineNumber)
				}
				resolved, err := resolveIndex(index, len(mesh.Vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNumber)
				}
				polygon = append(polygon, resolved)
			}
			mesh.Indices = fan(mesh.Indices, polygon)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading OBJ data")
	}
	return mesh, nil
}
