// Package triangulate splits simple planar polygons in 3D into triangles by
// ear clipping. Polygons may be convex or concave; they must not
// self-intersect.
package triangulate

import (
	"errors"
	"fmt"

	"github.com/chazu/polyhedra/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	ErrTooFewVertices = errors.New("polygon has fewer than 3 vertices")
	// ErrNoEar means the boundary has no clippable ear, which only happens
	// for self-intersecting or otherwise non-simple input.
	ErrNoEar = errors.New("no ear found")
)

// Triangulate returns n-2 triangles covering the polygon vs. Triangles keep
// the winding of the input. The scan for ears always restarts at the first
// remaining vertex, so the output is deterministic.
func Triangulate(vs []v3.Vec) ([]geom.Triangle, error) {
	n := len(vs)
	if n < 3 {
		return nil, fmt.Errorf("triangulate: %w: got %d", ErrTooFewVertices, n)
	}
	if n == 3 {
		return []geom.Triangle{{vs[0], vs[1], vs[2]}}, nil
	}

	normal := geom.PolygonNormal(vs)

	// remaining holds indices into vs of the boundary still to be clipped.
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	tris := make([]geom.Triangle, 0, n-2)
	for len(remaining) > 3 {
		ear := findEar(vs, remaining, normal)
		if ear < 0 {
			return nil, fmt.Errorf("triangulate: %w: %d of %d vertices left", ErrNoEar, len(remaining), n)
		}
		m := len(remaining)
		prev := remaining[(ear+m-1)%m]
		next := remaining[(ear+1)%m]
		tris = append(tris, geom.Triangle{vs[prev], vs[remaining[ear]], vs[next]})
		remaining = append(remaining[:ear], remaining[ear+1:]...)
	}
	tris = append(tris, geom.Triangle{vs[remaining[0]], vs[remaining[1]], vs[remaining[2]]})
	return tris, nil
}

// findEar returns the position in remaining of the first ear tip, or -1.
func findEar(vs []v3.Vec, remaining []int, normal v3.Vec) int {
	m := len(remaining)
	for i := 0; i < m; i++ {
		prev := remaining[(i+m-1)%m]
		cur := remaining[i]
		next := remaining[(i+1)%m]
		if !isConvex(vs[prev], vs[cur], vs[next], normal) {
			continue
		}
		if isEmpty(vs, remaining, prev, cur, next) {
			return i
		}
	}
	return -1
}

// isConvex reports whether the boundary turns left at cur, seen along the
// polygon normal. The side normal of the edge prev->cur points out of the
// polygon; next must lie behind it.
func isConvex(prev, cur, next, normal v3.Vec) bool {
	side := cur.Sub(prev).Cross(normal)
	return side.Dot(next.Sub(cur)) < 0
}

// isEmpty reports whether no other remaining vertex lies inside the
// triangle (prev, cur, next).
func isEmpty(vs []v3.Vec, remaining []int, prev, cur, next int) bool {
	tri := []v3.Vec{vs[prev], vs[cur], vs[next]}
	axis := geom.DominantAxis(tri)
	for _, k := range remaining {
		if k == prev || k == cur || k == next {
			continue
		}
		if geom.PointInPolygon(tri, axis, vs[k]) {
			return false
		}
	}
	return true
}
