package scene

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Description is the YAML form of a scene
type Description struct {
	Camera     *CameraDescription             `yaml:"camera"`
	Sampling   *SamplingDescription           `yaml:"sampling"`
	Background *Color                         `yaml:"background"`
	Materials  map[string]MaterialDescription `yaml:"materials"`
	Objects    []ObjectDescription            `yaml:"objects"`
	Lights     []LightDescription             `yaml:"lights"`
}

// CameraDescription overrides fields of the default camera
type CameraDescription struct {
	Position  *Vector  `yaml:"position"`
	Direction *Vector  `yaml:"direction"`
	LookAt    *Vector  `yaml:"look_at"`
	Up        *Vector  `yaml:"up"`
	VFov      *float64 `yaml:"vfov"`
}

// SamplingDescription overrides fields of the default sampling configuration
type SamplingDescription struct {
	Width                     *int     `yaml:"width"`
	Height                    *int     `yaml:"height"`
	SamplesPerPixel           *int     `yaml:"samples"`
	MaxDepth                  *int     `yaml:"max_depth"`
	RussianRouletteMinBounces *int     `yaml:"russian_roulette_min_bounces"`
	Seed                      *uint64  `yaml:"seed"`
	Exposure                  *float64 `yaml:"exposure"`
	Filter                    *Filter  `yaml:"filter"`
}

// MaterialDescription is a named material
type MaterialDescription struct {
	Type      string  `yaml:"type"` // diffuse, metallic or mirror
	Color     Color   `yaml:"color"`
	Roughness float64 `yaml:"roughness"`
}

// ObjectDescription is one object. Exactly one of Mesh, Plane, Sphere and
// Cube must be set.
type ObjectDescription struct {
	Mesh      string                 `yaml:"mesh"`
	Plane     *PlaneDescription      `yaml:"plane"`
	Sphere    *SphereDescription     `yaml:"sphere"`
	Cube      bool                   `yaml:"cube"`
	Material  string                 `yaml:"material"`
	Transform []TransformDescription `yaml:"transform"`
}

// PlaneDescription is the plane dot(Normal, p) = Value
type PlaneDescription struct {
	Normal Vector  `yaml:"normal"`
	Value  float64 `yaml:"value"`
}

// SphereDescription is a sphere
type SphereDescription struct {
	Center Vector  `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// TransformDescription is one step of an object transform; exactly one field
// is set. Rotations are in degrees.
type TransformDescription struct {
	Scale     *Vector  `yaml:"scale"`
	Translate *Vector  `yaml:"translate"`
	RotateX   *float64 `yaml:"rotate_x"`
	RotateY   *float64 `yaml:"rotate_y"`
	RotateZ   *float64 `yaml:"rotate_z"`
}

// LightDescription is one light; exactly one field is set
type LightDescription struct {
	Ambient     *Color                  `yaml:"ambient"`
	Point       *PointLightDescription  `yaml:"point"`
	Directional *DirectionalDescription `yaml:"directional"`
}

// PointLightDescription is a point light
type PointLightDescription struct {
	Position  Vector `yaml:"position"`
	Intensity Color  `yaml:"intensity"`
}

// DirectionalDescription is a directional light
type DirectionalDescription struct {
	Direction Vector `yaml:"direction"`
	Radiance  Color  `yaml:"radiance"`
}

// Vector is a YAML [x, y, z] sequence
type Vector core.Vec3

// UnmarshalYAML decodes a three-element sequence
func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return errors.Errorf("line %d: expected 3 components, got %d", node.Line, len(xyz))
	}
	*v = Vector(core.NewVec3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// Color is a YAML colour: an [r, g, b] sequence, a 0xRRGGBB integer, a
// "#RRGGBB" string or a single number applied to all channels
type Color core.Vec3

// UnmarshalYAML decodes any of the accepted colour forms
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var v Vector
		if err := v.UnmarshalYAML(node); err != nil {
			return err
		}
		*c = Color(v)
		return nil
	}

	if hex, ok := strings.CutPrefix(node.Value, "#"); ok {
		value, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid colour %q", node.Line, node.Value)
		}
		*c = Color(core.HexColor(uint32(value)))
		return nil
	}

	if strings.HasPrefix(node.Value, "0x") || strings.HasPrefix(node.Value, "0X") {
		value, err := strconv.ParseUint(node.Value[2:], 16, 32)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid colour %q", node.Line, node.Value)
		}
		*c = Color(core.HexColor(uint32(value)))
		return nil
	}

	var gray float64
	if err := node.Decode(&gray); err != nil {
		return errors.Wrapf(err, "line %d: invalid colour", node.Line)
	}
	*c = Color(core.Splat(gray))
	return nil
}

// LoadDescription reads a YAML scene file. Relative mesh paths are resolved
// against the file's directory.
func LoadDescription(filename string) (*Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scene description")
	}
	defer file.Close()

	s, err := ParseDescription(file, filepath.Dir(filename))
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", filename)
	}
	return s, nil
}

// ParseDescription builds a scene from YAML, resolving relative mesh paths
// against baseDir
func ParseDescription(r io.Reader, baseDir string) (*Scene, error) {
	var desc Description
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse scene description")
	}
	return desc.Build(baseDir)
}

// Build creates the scene described by d
func (d *Description) Build(baseDir string) (*Scene, error) {
	s := New()
	if d.Camera != nil {
		d.Camera.apply(&s.CameraConfig)
	}
	if d.Sampling != nil {
		if err := d.Sampling.apply(&s.SamplingConfig); err != nil {
			return nil, err
		}
	}
	if d.Background != nil {
		s.Background = core.Vec3(*d.Background)
	}

	materials := make(map[string]material.Material, len(d.Materials))
	for name, md := range d.Materials {
		m, err := md.build()
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", name)
		}
		materials[name] = m
	}

	for i, od := range d.Objects {
		o, err := od.build(baseDir, materials)
		if err != nil {
			return nil, errors.Wrapf(err, "object %d", i)
		}
		if err := s.AddObject(o); err != nil {
			return nil, errors.Wrapf(err, "object %d", i)
		}
	}

	for i, ld := range d.Lights {
		l, err := ld.build()
		if err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}
		s.AddLight(l)
	}
	return s, nil
}

func (c *CameraDescription) apply(config *geometry.CameraConfig) {
	if c.Position != nil {
		config.Position = core.Vec3(*c.Position)
	}
	if c.Direction != nil {
		config.Direction = core.Vec3(*c.Direction)
	}
	if c.LookAt != nil {
		lookAt := core.Vec3(*c.LookAt)
		config.LookAt = &lookAt
	}
	if c.Up != nil {
		config.Up = core.Vec3(*c.Up)
	}
	if c.VFov != nil {
		config.VFov = *c.VFov
	}
}

func (sd *SamplingDescription) apply(config *SamplingConfig) error {
	if sd.Filter != nil && !sd.Filter.Valid() {
		return errors.Errorf("unknown filter %q", *sd.Filter)
	}
	setIf(&config.Width, sd.Width)
	setIf(&config.Height, sd.Height)
	setIf(&config.SamplesPerPixel, sd.SamplesPerPixel)
	setIf(&config.MaxDepth, sd.MaxDepth)
	setIf(&config.RussianRouletteMinBounces, sd.RussianRouletteMinBounces)
	setIf(&config.Seed, sd.Seed)
	setIf(&config.Exposure, sd.Exposure)
	setIf(&config.Filter, sd.Filter)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (md MaterialDescription) build() (material.Material, error) {
	switch md.Type {
	case "", "diffuse":
		return material.NewDiffuse(core.Vec3(md.Color)), nil
	case "metallic":
		return material.NewMetallic(core.Vec3(md.Color), md.Roughness), nil
	case "mirror":
		return material.NewMirror(core.Vec3(md.Color)), nil
	default:
		return nil, errors.Errorf("unknown material type %q", md.Type)
	}
}

func (od ObjectDescription) build(baseDir string, materials map[string]material.Material) (*Object, error) {
	set := 0
	var o *Object
	if od.Mesh != "" {
		set++
		path := od.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		if o, err = loadMeshObject(path); err != nil {
			return nil, err
		}
	}
	if od.Plane != nil {
		set++
		if core.Vec3(od.Plane.Normal).IsZero() {
			return nil, errors.New("plane normal must not be zero")
		}
		o = NewObject(geometry.NewPlane(core.Vec3(od.Plane.Normal), od.Plane.Value))
	}
	if od.Sphere != nil {
		set++
		o = NewObject(geometry.NewSphere(core.Vec3(od.Sphere.Center), od.Sphere.Radius))
	}
	if od.Cube {
		set++
		o = NewObject(geometry.NewCube())
	}
	if set != 1 {
		return nil, errors.Errorf("expected exactly one of mesh, plane, sphere or cube, got %d", set)
	}

	if od.Material != "" {
		m, ok := materials[od.Material]
		if !ok {
			return nil, errors.Errorf("unknown material %q", od.Material)
		}
		o = o.WithMaterial(m)
	}

	for _, td := range od.Transform {
		next, err := td.apply(o)
		if err != nil {
			return nil, err
		}
		o = next
	}
	return o, o.Err()
}

func (td TransformDescription) apply(o *Object) (*Object, error) {
	set := 0
	next := o
	if td.Scale != nil {
		set++
		next = o.Scale(core.Vec3(*td.Scale))
	}
	if td.Translate != nil {
		set++
		next = o.Translate(core.Vec3(*td.Translate))
	}
	if td.RotateX != nil {
		set++
		next = o.RotateX(core.DegreesToRadians(*td.RotateX))
	}
	if td.RotateY != nil {
		set++
		next = o.RotateY(core.DegreesToRadians(*td.RotateY))
	}
	if td.RotateZ != nil {
		set++
		next = o.RotateZ(core.DegreesToRadians(*td.RotateZ))
	}
	if set != 1 {
		return nil, errors.Errorf("transform step must set exactly one operation, got %d", set)
	}
	return next, nil
}

func (ld LightDescription) build() (lights.Light, error) {
	set := 0
	var l lights.Light
	if ld.Ambient != nil {
		set++
		l = lights.NewAmbient(core.Vec3(*ld.Ambient))
	}
	if ld.Point != nil {
		set++
		l = lights.NewPoint(core.Vec3(ld.Point.Position), core.Vec3(ld.Point.Intensity))
	}
	if ld.Directional != nil {
		set++
		if core.Vec3(ld.Directional.Direction).IsZero() {
			return nil, errors.New("directional light needs a direction")
		}
		l = lights.NewDirectional(core.Vec3(ld.Directional.Direction), core.Vec3(ld.Directional.Radiance))
	}
	if set != 1 {
		return nil, errors.Errorf("expected exactly one of ambient, point or directional, got %d", set)
	}
	return l, nil
}
