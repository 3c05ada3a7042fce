package scene

import (
	"math"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnknownScene is returned for names that are not built-in scenes
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string // Name accepted by NewBuiltinScene
	Description string
	NeedsMeshes bool // Whether the scene loads OBJ files from the mesh directory
}

// BuiltinScenes lists the scenes NewBuiltinScene can create
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{Name: "floor", Description: "Floor and two walls lit by ambient light and five point lights"},
		{Name: "back", Description: "The floor scene furnished with metallic table and chair meshes", NeedsMeshes: true},
		{Name: "mirror", Description: "Mirror cube facing a lit diffuse wall"},
	}
}

// NewBuiltinScene creates a built-in scene by name. meshDir is where scenes
// that need meshes look for their OBJ files.
func NewBuiltinScene(name, meshDir string) (*Scene, error) {
	switch name {
	case "floor":
		return NewFloorScene(), nil
	case "back":
		return NewBackScene(meshDir)
	case "mirror":
		return NewMirrorScene(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
	}
}

// NewFloorScene creates a grey floor at y = -1 with walls at z = -22 and
// x = 20, lit by ambient light and five coloured point lights
func NewFloorScene() *Scene {
	s := New()
	s.SamplingConfig.MaxDepth = 2
	addRoom(s)
	return s
}

// NewBackScene creates the floor scene with a table and a set of tables and
// chairs loaded from meshDir. Missing mesh files are an error.
func NewBackScene(meshDir string) (*Scene, error) {
	s := New()
	s.SamplingConfig.MaxDepth = 2
	s.CameraConfig.Direction = core.NewVec3(1, 0, -1)

	bronze := material.NewMetallic(core.HexColor(0xa18262), 0.4)

	table, err := loadMeshObject(filepath.Join(meshDir, "table.obj"))
	if err != nil {
		return nil, err
	}
	table = table.
		Scale(core.Splat(0.015)).
		RotateY(math.Pi / 4).
		Translate(core.NewVec3(0, -1, -0.3)).
		WithMaterial(bronze)

	furniture, err := loadMeshObject(filepath.Join(meshDir, "Table_And_Chairs.obj"))
	if err != nil {
		return nil, err
	}
	furniture = furniture.
		Scale(core.Splat(0.03)).
		Translate(core.NewVec3(10, -1, 0)).
		WithMaterial(bronze)

	for _, o := range []*Object{table, furniture} {
		if err := s.AddObject(o); err != nil {
			return nil, err
		}
	}
	addRoom(s)
	return s, nil
}

// NewMirrorScene creates a mirror cube in front of a lit red wall, a scene
// whose brightness depends on indirect bounces
func NewMirrorScene() *Scene {
	s := New()
	s.SamplingConfig.MaxDepth = 5
	s.CameraConfig.Position = core.NewVec3(0, 1, 8)
	lookAt := core.NewVec3(0, 0, -2)
	s.CameraConfig.LookAt = &lookAt

	grey := material.NewDiffuse(core.HexColor(0x787878))
	red := material.NewDiffuse(core.HexColor(0xbf4040))
	blue := material.NewDiffuse(core.HexColor(0x4060bf))
	mirror := material.NewMirror(core.HexColor(0xe6e6e6))

	objects := []*Object{
		NewObject(geometry.NewPlane(core.NewVec3(0, 1, 0), -1)).WithMaterial(grey),
		NewObject(geometry.NewPlane(core.NewVec3(0, 0, 1), -5)).WithMaterial(red),
		NewObject(geometry.NewCube()).
			Scale(core.Splat(2)).
			RotateY(math.Pi / 6).
			Translate(core.NewVec3(1.5, 0, -2)).
			WithMaterial(mirror),
		NewObject(geometry.NewUnitSphere()).
			Scale(core.Splat(0.75)).
			Translate(core.NewVec3(-1.5, -0.25, -1)).
			WithMaterial(blue),
	}
	for _, o := range objects {
		mustAdd(s, o)
	}

	s.AddLight(lights.NewAmbient(core.Splat(0.05)))
	s.AddLight(lights.NewPoint(core.NewVec3(0, 4, 2), core.Splat(20)))
	return s
}

// addRoom adds the floor, the two walls and the lights shared by the floor
// and back scenes
func addRoom(s *Scene) {
	floor := material.NewDiffuse(core.HexColor(0x787878))
	wall := material.NewDiffuse(core.HexColor(0x4d4d4d))

	mustAdd(s, NewObject(geometry.NewPlane(core.NewVec3(0, 1, 0), -1)).WithMaterial(floor))
	mustAdd(s, NewObject(geometry.NewPlane(core.NewVec3(0, 0, 1), -1)).
		Translate(core.NewVec3(0, 0, -21)).
		WithMaterial(wall))
	mustAdd(s, NewObject(geometry.NewPlane(core.NewVec3(1, 0, 0), -1)).
		Translate(core.NewVec3(21, 0, 0)).
		WithMaterial(wall))

	s.AddLight(lights.NewAmbient(core.Splat(0.2)))
	for _, l := range []struct{ intensity, position core.Vec3 }{
		{core.NewVec3(1, 10, 1), core.NewVec3(0, 2, 0)},
		{core.NewVec3(10, 1, 1), core.NewVec3(4, 2, 0)},
		{core.NewVec3(1, 1, 10), core.NewVec3(-4, 2, 0)},
		{core.NewVec3(10, 1, 1), core.NewVec3(10, 2, 0)},
		{core.NewVec3(1, 1, 10), core.NewVec3(30, 2, 0)},
	} {
		s.AddLight(lights.NewPoint(l.position, l.intensity))
	}
}

// loadMeshObject loads a mesh file into an untransformed object
func loadMeshObject(filename string) (*Object, error) {
	data, err := loaders.LoadMesh(filename)
	if err != nil {
		return nil, err
	}
	mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Indices)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid mesh %s", filename)
	}
	return NewObject(mesh), nil
}

// mustAdd adds objects built from static data
func mustAdd(s *Scene, o *Object) {
	if err := s.AddObject(o); err != nil {
		panic(err)
	}
}
