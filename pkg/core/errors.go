package core

import "github.com/pkg/errors"

var (
	// ErrDegenerateTransform is returned when a transform cannot be inverted,
	// for example a scale with a zero component
	ErrDegenerateTransform = errors.New("degenerate transform")

	// ErrEmptyGeometry is returned when a mesh has no triangles
	ErrEmptyGeometry = errors.New("empty geometry")

	// ErrInvalidMesh is returned for malformed index buffers
	ErrInvalidMesh = errors.New("invalid mesh")
)
