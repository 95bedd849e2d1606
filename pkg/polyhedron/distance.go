package polyhedron

import (
	"math"

	"github.com/chazu/polyhedra/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DistanceToPolygon returns the signed distance from p to a planar polygon
// with unit normal n and projection axis. The magnitude is the true
// distance to the polygon (interior or boundary); the sign is the side of
// the plane p lies on, positive in the direction of n.
func DistanceToPolygon(poly []v3.Vec, n v3.Vec, axis geom.Axis, p v3.Vec) float64 {
	t := p.Sub(poly[0]).Dot(n)
	proj := p.Sub(n.MulScalar(t))

	var d float64
	if geom.PointInPolygon(poly, axis, proj) {
		d = proj.Sub(p).Length()
	} else {
		d = math.Inf(1)
		for i := range poly {
			s := geom.Segment{From: poly[i], To: poly[(i+1)%len(poly)]}
			if e := geom.DistanceToSegment(s, p); e < d {
				d = e
			}
		}
	}

	if t < 0 {
		return -d
	}
	return d
}
