package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering. It is only modified
// while being built and is read-only during rendering.
type Scene struct {
	Objects        []*Object
	Lights         []lights.Light
	Background     core.Vec3 // Radiance returned by rays that escape the scene
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
}

// Intersection contains information about a ray-object intersection in world space
type Intersection struct {
	geometry.Hit
	Material material.Material
	Object   *Object
}

// Stats summarizes scene contents for logging
type Stats struct {
	Objects    int `json:"objects"`
	Primitives int `json:"primitives"`
	Lights     int `json:"lights"`
}

// New creates an empty scene with the default camera and sampling configuration
func New() *Scene {
	return &Scene{
		Objects:        make([]*Object, 0),
		Lights:         make([]lights.Light, 0),
		CameraConfig:   geometry.DefaultCameraConfig(),
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// AddObject adds an object to the scene. Objects carrying a construction
// error are rejected.
func (s *Scene) AddObject(o *Object) error {
	if o == nil {
		return errors.New("cannot add nil object")
	}
	if err := o.Err(); err != nil {
		return errors.Wrap(err, "invalid object")
	}
	s.Objects = append(s.Objects, o)
	return nil
}

// AddLight adds a light to the scene
func (s *Scene) AddLight(l lights.Light) {
	s.Lights = append(s.Lights, l)
}

// Add adds an *Object or a lights.Light
func (s *Scene) Add(item any) error {
	switch v := item.(type) {
	case *Object:
		return s.AddObject(v)
	case lights.Light:
		s.AddLight(v)
		return nil
	default:
		return errors.Errorf("cannot add %T to a scene", item)
	}
}

// Camera creates the camera described by the scene's camera configuration
func (s *Scene) Camera() *geometry.Camera {
	return geometry.NewCamera(s.CameraConfig)
}

// Intersect returns the closest intersection along the ray. When two objects
// report the same distance the one added first wins.
func (s *Scene) Intersect(ray core.Ray) (Intersection, bool) {
	var closest Intersection
	hitAnything := false

	for _, object := range s.Objects {
		hit, ok := object.Intersect(ray)
		if !ok || (hitAnything && hit.T >= closest.T) {
			continue
		}
		closest = hit
		hitAnything = true
		ray.TMax = hit.T
	}
	return closest, hitAnything
}

// Visible reports whether the segment from a to b is unobstructed. The
// segment ends ShadowEpsilon short of b.
func (s *Scene) Visible(a, b core.Vec3) bool {
	ray, dist := core.NewSegment(a, b, core.ShadowEpsilon)
	if dist <= 2*core.ShadowEpsilon {
		return true
	}
	for _, object := range s.Objects {
		if _, ok := object.Intersect(ray); ok {
			return false
		}
	}
	return true
}

// Bounds returns the world-space bounds of all objects
func (s *Scene) Bounds() core.AABB {
	box := core.EmptyAABB()
	for _, object := range s.Objects {
		box = box.Union(object.BoundingBox())
	}
	return box
}

// Stats returns object, primitive and light counts
func (s *Scene) Stats() Stats {
	stats := Stats{Objects: len(s.Objects), Lights: len(s.Lights)}
	for _, object := range s.Objects {
		stats.Primitives += object.PrimitiveCount()
	}
	return stats
}
