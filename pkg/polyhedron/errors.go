package polyhedron

import (
	"errors"
	"fmt"
)

var (
	ErrNoVertices      = errors.New("polyhedron has no vertices")
	ErrNoFaces         = errors.New("polyhedron has no faces")
	ErrNonFiniteVertex = errors.New("vertex coordinate is not finite")
	ErrTooFewIndices   = errors.New("face has fewer than 3 vertex indices")
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	ErrDegenerateFace  = errors.New("face has zero area")
	ErrOpenEdge        = errors.New("edge is used by only one face")
	ErrNonManifoldEdge = errors.New("edge is traversed twice in the same direction")
	ErrBadThickness    = errors.New("wireframe thickness must be positive")
	ErrBadProfile      = errors.New("prism profile is invalid")
)

// FaceError reports a problem with a single face.
type FaceError struct {
	Face int
	Err  error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("face %d: %v", e.Face, e.Err)
}

func (e *FaceError) Unwrap() error { return e.Err }

// EdgeError reports a directed edge that breaks the closed-manifold rule.
type EdgeError struct {
	From, To int
	Err      error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge %d->%d: %v", e.From, e.To, e.Err)
}

func (e *EdgeError) Unwrap() error { return e.Err }
