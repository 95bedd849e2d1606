// Package polyhedron builds closed manifold polyhedra from vertices and
// faces and evaluates their signed distance field. A *Polyhedron satisfies
// sdf.SDF3, so it can be fed to anything in the sdfx ecosystem.
package polyhedron

import (
	"fmt"
	"math"

	"github.com/chazu/polyhedra/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a resolved polygon with its cached plane data.
type Face struct {
	// Indices into the owning polyhedron's vertices, CCW from outside.
	Indices []int
	// Points are the resolved vertex positions, in the same order.
	Points []v3.Vec
	// Normal is the outward unit normal.
	Normal v3.Vec
	// Axis is the coordinate dropped when classifying points in 2D.
	Axis geom.Axis
}

// Polyhedron is an immutable closed solid.
type Polyhedron struct {
	vertices []v3.Vec
	faces    []Face
	bb       sdf.Box3
}

// Compile-time check against the sdfx shape contract.
var _ sdf.SDF3 = (*Polyhedron)(nil)

// New validates the input and builds a polyhedron. Faces must be wound
// counter-clockwise as seen from outside and together form a closed
// 2-manifold. The input slices are copied.
func New(vertices []v3.Vec, faces [][]int) (*Polyhedron, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	if err := validateVertices(vertices); err != nil {
		return nil, fmt.Errorf("polyhedron: %w", err)
	}
	if err := validateIndices(len(vertices), faces); err != nil {
		return nil, fmt.Errorf("polyhedron: %w", err)
	}
	if err := validateManifold(faces); err != nil {
		return nil, fmt.Errorf("polyhedron: %w", err)
	}

	p := &Polyhedron{
		vertices: append([]v3.Vec(nil), vertices...),
		faces:    make([]Face, len(faces)),
		bb:       geom.Bounds(vertices),
	}
	for fi, idx := range faces {
		f, err := p.resolveFace(idx)
		if err != nil {
			return nil, fmt.Errorf("polyhedron: %w", &FaceError{Face: fi, Err: err})
		}
		p.faces[fi] = f
	}
	return p, nil
}

// resolveFace looks up the face points and caches its normal and axis.
func (p *Polyhedron) resolveFace(indices []int) (Face, error) {
	pts := make([]v3.Vec, len(indices))
	for i, idx := range indices {
		pts[i] = p.vertices[idx]
	}
	n := geom.NewellVector(pts)
	bb := geom.Bounds(pts)
	diag := bb.Max.Sub(bb.Min)
	if n.Length() <= degenerateRatio*diag.Dot(diag) {
		return Face{}, ErrDegenerateFace
	}
	return Face{
		Indices: append([]int(nil), indices...),
		Points:  pts,
		Normal:  n.Normalize(),
		Axis:    geom.DominantAxis(pts),
	}, nil
}

// Evaluate returns the signed distance from p to the surface: negative
// inside, positive outside. The face with the smallest absolute distance
// decides; on exact ties the first face in face order wins.
func (p *Polyhedron) Evaluate(pt v3.Vec) float64 {
	best := math.Inf(1)
	for i := range p.faces {
		f := &p.faces[i]
		d := DistanceToPolygon(f.Points, f.Normal, f.Axis, pt)
		if math.Abs(d) < math.Abs(best) {
			best = d
		}
	}
	return best
}

// BoundingBox returns the vertex bounding box.
func (p *Polyhedron) BoundingBox() sdf.Box3 {
	return p.bb
}

// Is3D reports that a polyhedron is a three-dimensional shape.
func (p *Polyhedron) Is3D() bool {
	return true
}

// Vertices returns a copy of the vertex list.
func (p *Polyhedron) Vertices() []v3.Vec {
	return append([]v3.Vec(nil), p.vertices...)
}

// NumVertices returns the number of vertices.
func (p *Polyhedron) NumVertices() int {
	return len(p.vertices)
}

// NumFaces returns the number of faces.
func (p *Polyhedron) NumFaces() int {
	return len(p.faces)
}

// Face returns face i. The returned slices are shared and must not be
// modified.
func (p *Polyhedron) Face(i int) Face {
	return p.faces[i]
}

// Faces returns the face index lists.
func (p *Polyhedron) Faces() [][]int {
	out := make([][]int, len(p.faces))
	for i, f := range p.faces {
		out[i] = append([]int(nil), f.Indices...)
	}
	return out
}
