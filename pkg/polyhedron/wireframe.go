package polyhedron

import (
	"fmt"
	"math"

	"github.com/chazu/polyhedra/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Edges returns every edge of the polyhedron exactly once. A face emits
// the edge (i, j) only when its stored index i is less than j; the face on
// the other side traverses the same edge as (j, i), so the pair is counted
// once.
func (p *Polyhedron) Edges() []geom.Segment {
	var edges []geom.Segment
	for _, f := range p.faces {
		for k, i := range f.Indices {
			j := f.Indices[(k+1)%len(f.Indices)]
			if i < j {
				edges = append(edges, geom.Segment{From: p.vertices[i], To: p.vertices[j]})
			}
		}
	}
	return edges
}

// Wireframe is the SDF of rounded struts along a polyhedron's edges.
type Wireframe struct {
	edges     []geom.Segment
	thickness float64
	bb        sdf.Box3
}

var _ sdf.SDF3 = (*Wireframe)(nil)

// NewWireframe returns the skeleton of p with struts of radius thickness.
func NewWireframe(p *Polyhedron, thickness float64) (*Wireframe, error) {
	if !(thickness > 0) {
		return nil, fmt.Errorf("wireframe: %w: %g", ErrBadThickness, thickness)
	}
	grow := v3.Vec{X: thickness, Y: thickness, Z: thickness}
	return &Wireframe{
		edges:     p.Edges(),
		thickness: thickness,
		bb:        sdf.Box3{Min: p.bb.Min.Sub(grow), Max: p.bb.Max.Add(grow)},
	}, nil
}

// Evaluate returns the distance to the nearest edge minus the thickness.
func (w *Wireframe) Evaluate(p v3.Vec) float64 {
	d := math.Inf(1)
	for _, e := range w.edges {
		if de := geom.DistanceToSegment(e, p); de < d {
			d = de
		}
	}
	return d - w.thickness
}

// BoundingBox returns the vertex bounds grown by the thickness.
func (w *Wireframe) BoundingBox() sdf.Box3 {
	return w.bb
}

// Is3D reports that a wireframe is a three-dimensional shape.
func (w *Wireframe) Is3D() bool {
	return true
}

// Thickness returns the strut radius.
func (w *Wireframe) Thickness() float64 {
	return w.thickness
}

// Edges returns the struts. The slice is shared and must not be modified.
func (w *Wireframe) Edges() []geom.Segment {
	return w.edges
}
