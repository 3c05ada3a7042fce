package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all configuration needed to create a camera
type CameraConfig struct {
	Position    core.Vec3 // Eye position
	Direction   core.Vec3 // Viewing direction, used when LookAt is nil
	LookAt      *core.Vec3
	Up          core.Vec3 // Approximate up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height; 0 derives it from the film size
}

// DefaultCameraConfig returns the camera used by scene scripts that do not
// configure one: at (0,0,10) looking down -Z with a 30° vertical field of view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:  core.NewVec3(0, 0, 10),
		Direction: core.NewVec3(0, 0, -1),
		Up:        core.NewVec3(0, 1, 0),
		VFov:      30,
	}
}

// Camera generates primary rays. It holds no randomness: sub-pixel jitter is
// supplied by the caller, so equal inputs always produce equal rays.
type Camera struct {
	config      CameraConfig
	position    core.Vec3
	forward     core.Vec3
	right       core.Vec3
	up          core.Vec3
	halfHeight  float64 // tan(vfov/2)
	aspectRatio float64
}

// NewCamera creates a camera with an orthonormal basis built from config
func NewCamera(config CameraConfig) *Camera {
	forward := config.Direction
	if config.LookAt != nil {
		forward = config.LookAt.Subtract(config.Position)
	}
	forward = forward.Normalize()
	if forward.IsZero() {
		forward = core.NewVec3(0, 0, -1)
	}

	upHint := config.Up.Normalize()
	if upHint.IsZero() {
		upHint = core.NewVec3(0, 1, 0)
	}
	// Looking straight along the up hint leaves the roll undefined; pick
	// another axis
	if math.Abs(forward.Dot(upHint)) > 1-1e-9 {
		upHint = core.NewVec3(0, 0, -1)
		if math.Abs(forward.Dot(upHint)) > 1-1e-9 {
			upHint = core.NewVec3(1, 0, 0)
		}
	}

	right := forward.Cross(upHint).Normalize()
	up := right.Cross(forward)

	vfov := config.VFov
	if vfov <= 0 || vfov >= 180 {
		vfov = DefaultCameraConfig().VFov
	}

	return &Camera{
		config:      config,
		position:    config.Position,
		forward:     forward,
		right:       right,
		up:          up,
		halfHeight:  math.Tan(core.DegreesToRadians(vfov) / 2),
		aspectRatio: config.AspectRatio,
	}
}

// GetRay generates a ray through normalized film coordinates (s, t), where
// (0, 0) is the top-left corner and (1, 1) the bottom-right
func (c *Camera) GetRay(s, t, aspectRatio float64) core.Ray {
	if c.aspectRatio > 0 {
		aspectRatio = c.aspectRatio
	}
	halfWidth := c.halfHeight * aspectRatio

	direction := c.forward.
		Add(c.right.Multiply((2*s - 1) * halfWidth)).
		Add(c.up.Multiply((1 - 2*t) * c.halfHeight))

	return core.NewRay(c.position, direction)
}

// RayForPixel maps pixel (x, y) of a width×height film plus a sub-pixel
// offset in [0,1)² to a world-space ray
func (c *Camera) RayForPixel(x, y, width, height int, jitter core.Vec2) core.Ray {
	s := (float64(x) + jitter.X) / float64(width)
	t := (float64(y) + jitter.Y) / float64(height)
	return c.GetRay(s, t, float64(width)/float64(height))
}

// Position returns the eye position
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// Basis returns the orthonormal right, up and forward vectors
func (c *Camera) Basis() (right, up, forward core.Vec3) {
	return c.right, c.up, c.forward
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
