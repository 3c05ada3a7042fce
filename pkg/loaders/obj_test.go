package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

const quadOBJ = `# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
usemtl grey
f 1/1/1 2/1/1 3/1/1 4/1/1
`

func TestReadOBJ(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantIndices []int
	}{
		{
			name:        "quad is fan triangulated",
			input:       quadOBJ,
			wantIndices: []int{0, 1, 2, 0, 2, 3},
		},
		{
			name:        "plain triangle",
			input:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			wantIndices: []int{0, 1, 2},
		},
		{
			name:        "position and normal only",
			input:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 3//1 2//1 1//1\n",
			wantIndices: []int{2, 1, 0},
		},
		{
			name:        "negative indices are relative",
			input:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\nv 5 5 5\nf -4 -1 -2\n",
			wantIndices: []int{0, 1, 2, 0, 3, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ReadOBJ(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadOBJ failed: %v", err)
			}
			if diff := cmp.Diff(tt.wantIndices, mesh.Indices); diff != "" {
				t.Errorf("indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadOBJ_Vertices(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	want := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	if diff := cmp.Diff(want, mesh.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", mesh.TriangleCount())
	}
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		invalidMesh bool
	}{
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", true},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", true},
		{"face with two vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", true},
		{"bad coordinate", "v 0 zero 0\n", false},
		{"bad index", "v 0 0 0\nf a b c\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, core.ErrInvalidMesh); got != tt.invalidMesh {
				t.Errorf("errors.Is(err, ErrInvalidMesh) = %v, want %v (err: %v)", got, tt.invalidMesh, err)
			}
		})
	}
}

func TestLoadOBJ_MissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "table.obj"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestLoadMesh_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	objPath := filepath.Join(dir, "quad.OBJ")
	if err := os.WriteFile(objPath, []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	mesh, err := LoadMesh(objPath)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", mesh.TriangleCount())
	}

	if _, err := LoadMesh(filepath.Join(dir, "mesh.stl")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
