// Package kernel defines the shape contract shared by the polyhedron
// kernel and its consumers, and the abstract solid-modeling backend used
// for combining shapes. Shapes follow the sdfx SDF3 signature so any sdfx
// renderer can consume them.
package kernel

import (
	"github.com/deadsy/sdfx/sdf"
)

// Solid is a signed distance field with a bounding box and a
// dimensionality flag. *polyhedron.Polyhedron and *polyhedron.Wireframe
// implement it, as does every value a Kernel returns.
type Solid interface {
	sdf.SDF3
	// Is3D reports whether the shape is three-dimensional.
	Is3D() bool
}

// Kernel combines and places solids and turns them into meshes.
// Implementations (sdfx) work on any Solid regardless of its origin.
type Kernel interface {
	// Boolean operations
	Union(solids ...Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
