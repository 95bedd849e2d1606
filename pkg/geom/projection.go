package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis is a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// project drops the coordinate along axis and returns the remaining two.
func project(v v3.Vec, axis Axis) (a, b float64) {
	switch axis {
	case AxisX:
		return v.Y, v.Z
	case AxisY:
		return v.X, v.Z
	default:
		return v.X, v.Y
	}
}

// DominantAxis returns the axis along which vs has the smallest extent.
// Dropping it when projecting to 2D keeps the polygon least distorted.
// Ties go to the earlier axis in X, Y, Z order.
func DominantAxis(vs []v3.Vec) Axis {
	bb := Bounds(vs)
	size := bb.Max.Sub(bb.Min)
	axis := AxisX
	smallest := size.X
	if size.Y < smallest {
		axis, smallest = AxisY, size.Y
	}
	if size.Z < smallest {
		axis = AxisZ
	}
	return axis
}

// PointInPolygon reports whether p lies inside poly after both are
// projected onto the plane orthogonal to axis. It is the crossing-number
// test (PNPOLY). Points exactly on the boundary may go either way.
func PointInPolygon(poly []v3.Vec, axis Axis, p v3.Vec) bool {
	pa, pb := project(p, axis)
	inside := false
	j := len(poly) - 1
	for i := range poly {
		ia, ib := project(poly[i], axis)
		ja, jb := project(poly[j], axis)
		if (ib > pb) != (jb > pb) &&
			pa < (ja-ia)*(pb-ib)/(jb-ib)+ia {
			inside = !inside
		}
		j = i
	}
	return inside
}
