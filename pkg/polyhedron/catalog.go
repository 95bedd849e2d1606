package polyhedron

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/polyhedra/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// phi is the golden ratio.
var phi = (1 + math.Sqrt(5)) / 2

// cubeVertices are the corners of the cube [-1,1]^3.
var cubeVertices = []v3.Vec{
	{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
}

// cubeFaces are wound counter-clockwise seen from outside.
var cubeFaces = [][]int{
	{0, 3, 2, 1}, // z = -1
	{4, 5, 6, 7}, // z = +1
	{0, 1, 5, 4}, // y = -1
	{2, 3, 7, 6}, // y = +1
	{0, 4, 7, 3}, // x = -1
	{1, 2, 6, 5}, // x = +1
}

// Cube returns the cube with corners at ±1 on every axis.
func Cube() *Polyhedron {
	return mustNew(cubeVertices, cubeFaces)
}

// Tetrahedron returns the regular tetrahedron inscribed in the cube [-1,1]^3.
func Tetrahedron() *Polyhedron {
	vs := []v3.Vec{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
	}
	faces := [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	return mustNew(vs, orientOutward(vs, faces))
}

// Octahedron returns the regular octahedron with vertices at ±1 on each axis.
func Octahedron() *Polyhedron {
	vs := []v3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	var faces [][]int
	for _, x := range []int{0, 1} {
		for _, y := range []int{2, 3} {
			for _, z := range []int{4, 5} {
				faces = append(faces, []int{x, y, z})
			}
		}
	}
	return mustNew(vs, orientOutward(vs, faces))
}

// icosahedronVertices returns the 12 vertices (0, ±1, ±φ) and their cyclic
// permutations. Edge length is 2.
func icosahedronVertices() []v3.Vec {
	var vs []v3.Vec
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-phi, phi} {
			vs = append(vs,
				v3.Vec{X: 0, Y: a, Z: b},
				v3.Vec{X: a, Y: b, Z: 0},
				v3.Vec{X: b, Y: 0, Z: a},
			)
		}
	}
	return vs
}

// icosahedronFaces finds every triangle whose three sides are edges of
// length 2.
func icosahedronFaces(vs []v3.Vec) [][]int {
	isEdge := func(i, j int) bool {
		return math.Abs(vs[i].Sub(vs[j]).Length()-2) < 1e-9
	}
	var faces [][]int
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			if !isEdge(i, j) {
				continue
			}
			for k := j + 1; k < len(vs); k++ {
				if isEdge(i, k) && isEdge(j, k) {
					faces = append(faces, []int{i, j, k})
				}
			}
		}
	}
	return faces
}

// Icosahedron returns the regular icosahedron with edge length 2.
func Icosahedron() *Polyhedron {
	vs := icosahedronVertices()
	return mustNew(vs, orientOutward(vs, icosahedronFaces(vs)))
}

// Dodecahedron returns the regular dodecahedron whose vertices are the face
// centers of Icosahedron. Each pentagon gathers the icosahedron faces around
// one icosahedron vertex, sorted by angle.
func Dodecahedron() *Polyhedron {
	ico := icosahedronVertices()
	tris := icosahedronFaces(ico)

	vs := make([]v3.Vec, len(tris))
	for i, t := range tris {
		vs[i] = ico[t[0]].Add(ico[t[1]]).Add(ico[t[2]]).DivScalar(3)
	}

	faces := make([][]int, 0, len(ico))
	for vi, axis := range ico {
		var ring []int
		for ti, t := range tris {
			if t[0] == vi || t[1] == vi || t[2] == vi {
				ring = append(ring, ti)
			}
		}
		n := axis.Normalize()
		u := vs[ring[0]].Sub(axis)
		u = u.Sub(n.MulScalar(u.Dot(n))).Normalize()
		w := n.Cross(u)
		angle := func(ti int) float64 {
			d := vs[ti].Sub(axis)
			return math.Atan2(d.Dot(w), d.Dot(u))
		}
		sort.Slice(ring, func(a, b int) bool { return angle(ring[a]) < angle(ring[b]) })
		faces = append(faces, ring)
	}
	return mustNew(vs, orientOutward(vs, faces))
}

// Prism extrudes a simple XY profile along +Z from z = 0 to z = height.
// The profile must be wound counter-clockwise seen from +Z and may be
// non-convex.
func Prism(profile [][2]float64, height float64) (*Polyhedron, error) {
	n := len(profile)
	if n < 3 {
		return nil, fmt.Errorf("prism: %w: need at least 3 points, got %d", ErrBadProfile, n)
	}
	if !(height > 0) {
		return nil, fmt.Errorf("prism: %w: height %g", ErrBadProfile, height)
	}

	vs := make([]v3.Vec, 0, 2*n)
	for _, pt := range profile {
		vs = append(vs, v3.Vec{X: pt[0], Y: pt[1], Z: 0})
	}
	for _, pt := range profile {
		vs = append(vs, v3.Vec{X: pt[0], Y: pt[1], Z: height})
	}
	if geom.NewellVector(vs[n:]).Z <= 0 {
		return nil, fmt.Errorf("prism: %w: profile is not counter-clockwise", ErrBadProfile)
	}

	bottom := make([]int, n)
	top := make([]int, n)
	for k := 0; k < n; k++ {
		bottom[k] = n - 1 - k
		top[k] = n + k
	}
	faces := [][]int{bottom, top}
	for k := 0; k < n; k++ {
		next := (k + 1) % n
		faces = append(faces, []int{k, next, n + next, n + k})
	}

	p, err := New(vs, faces)
	if err != nil {
		return nil, fmt.Errorf("prism: %w", err)
	}
	return p, nil
}

// orientOutward reverses any face of a convex solid whose normal points
// toward the solid's centroid.
func orientOutward(vs []v3.Vec, faces [][]int) [][]int {
	var center v3.Vec
	for _, v := range vs {
		center = center.Add(v)
	}
	center = center.DivScalar(float64(len(vs)))

	for _, f := range faces {
		pts := make([]v3.Vec, len(f))
		var c v3.Vec
		for i, idx := range f {
			pts[i] = vs[idx]
			c = c.Add(vs[idx])
		}
		c = c.DivScalar(float64(len(f)))
		if geom.NewellVector(pts).Dot(c.Sub(center)) < 0 {
			for l, r := 0, len(f)-1; l < r; l, r = l+1, r-1 {
				f[l], f[r] = f[r], f[l]
			}
		}
	}
	return faces
}

// mustNew is for the built-in solids, which are valid by construction.
func mustNew(vs []v3.Vec, faces [][]int) *Polyhedron {
	p, err := New(vs, faces)
	if err != nil {
		panic(fmt.Sprintf("polyhedron: built-in solid: %v", err))
	}
	return p
}

// Builtin returns a catalog solid by name.
func Builtin(name string) (*Polyhedron, bool) {
	switch name {
	case "tetrahedron":
		return Tetrahedron(), true
	case "cube":
		return Cube(), true
	case "octahedron":
		return Octahedron(), true
	case "icosahedron":
		return Icosahedron(), true
	case "dodecahedron":
		return Dodecahedron(), true
	}
	return nil, false
}

// BuiltinNames lists the names accepted by Builtin.
var BuiltinNames = []string{"tetrahedron", "cube", "octahedron", "icosahedron", "dodecahedron"}
