// Package geom holds the point, segment and polygon math shared by the
// distance field and the triangulator. Vectors are sdfx v3.Vec values.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segment is a line segment between two points. From and To must differ.
type Segment struct {
	From v3.Vec
	To   v3.Vec
}

// DistanceToSegment returns the distance from p to the closest point of s.
// The projection parameter is clamped to [0,1] so the ends act as caps.
func DistanceToSegment(s Segment, p v3.Vec) float64 {
	dir := s.To.Sub(s.From)
	t := p.Sub(s.From).Dot(dir) / dir.Dot(dir)
	t = math.Max(0, math.Min(1, t))
	closest := s.From.Add(dir.MulScalar(t))
	return p.Sub(closest).Length()
}

// NewellVector returns the unnormalized Newell sum for a closed polygon.
// Its direction is the polygon normal and its length is twice the area.
func NewellVector(vs []v3.Vec) v3.Vec {
	var n v3.Vec
	for i := range vs {
		v1 := vs[i]
		v2 := vs[(i+1)%len(vs)]
		n.X += (v1.Y - v2.Y) * (v1.Z + v2.Z)
		n.Y += (v1.Z - v2.Z) * (v1.X + v2.X)
		n.Z += (v1.X - v2.X) * (v1.Y + v2.Y)
	}
	return n
}

// PolygonNormal returns the unit normal of a planar polygon using Newell's
// method. The winding is counter-clockwise around the returned normal.
// Collinear or zero-area input yields a zero vector; check NewellVector
// first when that matters.
func PolygonNormal(vs []v3.Vec) v3.Vec {
	n := NewellVector(vs)
	l := n.Length()
	if l == 0 {
		return n
	}
	return n.DivScalar(l)
}

// PolygonArea returns the area of a planar polygon.
func PolygonArea(vs []v3.Vec) float64 {
	return NewellVector(vs).Length() / 2
}

// Triangle is three points in boundary order.
type Triangle [3]v3.Vec

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}

// Normal returns the unit normal given by the winding of t.
func (t Triangle) Normal() v3.Vec {
	return PolygonNormal(t[:])
}

// Bounds returns the component-wise minimum and maximum of vs.
func Bounds(vs []v3.Vec) sdf.Box3 {
	if len(vs) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		bb.Min = bb.Min.Min(v)
		bb.Max = bb.Max.Max(v)
	}
	return bb
}
