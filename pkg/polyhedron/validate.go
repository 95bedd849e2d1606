package polyhedron

import (
	"fmt"
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// degenerateRatio bounds the Newell magnitude of a face relative to the
// squared diagonal of its bounding box. Below it the face has no area.
const degenerateRatio = 1e-12

// directedEdge is an ordered pair of vertex indices as traversed by a face.
type directedEdge struct {
	from, to int
}

// validateVertices rejects NaN and infinite coordinates.
func validateVertices(vertices []v3.Vec) error {
	for i, v := range vertices {
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("vertex %d: %w", i, ErrNonFiniteVertex)
			}
		}
	}
	return nil
}

// validateIndices checks face sizes and index bounds.
func validateIndices(numVertices int, faces [][]int) error {
	for fi, f := range faces {
		if len(f) < 3 {
			return &FaceError{Face: fi, Err: ErrTooFewIndices}
		}
		for _, idx := range f {
			if idx < 0 || idx >= numVertices {
				return &FaceError{
					Face: fi,
					Err:  fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, numVertices),
				}
			}
		}
	}
	return nil
}

// validateManifold checks that every directed edge occurs exactly once and
// that its reverse occurs too, so each undirected edge borders two faces
// with opposite traversal.
func validateManifold(faces [][]int) error {
	seen := make(map[directedEdge]int)
	for fi, f := range faces {
		for k := range f {
			e := directedEdge{from: f[k], to: f[(k+1)%len(f)]}
			if _, dup := seen[e]; dup {
				return &EdgeError{From: e.from, To: e.to, Err: ErrNonManifoldEdge}
			}
			seen[e] = fi
		}
	}

	// Report the lowest offending edge so errors are reproducible.
	var open []directedEdge
	for e := range seen {
		if _, ok := seen[directedEdge{from: e.to, to: e.from}]; !ok {
			open = append(open, e)
		}
	}
	if len(open) > 0 {
		sort.Slice(open, func(i, j int) bool {
			if open[i].from != open[j].from {
				return open[i].from < open[j].from
			}
			return open[i].to < open[j].to
		})
		return &EdgeError{From: open[0].from, To: open[0].to, Err: ErrOpenEdge}
	}
	return nil
}
