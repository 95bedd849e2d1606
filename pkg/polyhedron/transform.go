package polyhedron

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform returns a new polyhedron with m applied to every vertex.
// A mirroring matrix (negative determinant) would turn the faces inside
// out, so their winding is reversed to keep normals outward.
func (p *Polyhedron) Transform(m mgl64.Mat4) (*Polyhedron, error) {
	vertices := make([]v3.Vec, len(p.vertices))
	for i, v := range p.vertices {
		t := m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
		if w := t.W(); w != 1 && w != 0 {
			t = t.Mul(1 / w)
		}
		vertices[i] = v3.Vec{X: t.X(), Y: t.Y(), Z: t.Z()}
	}

	flip := m.Det() < 0
	faces := make([][]int, len(p.faces))
	for i, f := range p.faces {
		idx := append([]int(nil), f.Indices...)
		if flip {
			for l, r := 0, len(idx)-1; l < r; l, r = l+1, r-1 {
				idx[l], idx[r] = idx[r], idx[l]
			}
		}
		faces[i] = idx
	}

	q, err := New(vertices, faces)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return q, nil
}

// Translate moves the polyhedron by (x, y, z).
func (p *Polyhedron) Translate(x, y, z float64) (*Polyhedron, error) {
	return p.Transform(mgl64.Translate3D(x, y, z))
}

// Scale scales the polyhedron about the origin.
func (p *Polyhedron) Scale(x, y, z float64) (*Polyhedron, error) {
	return p.Transform(mgl64.Scale3D(x, y, z))
}

// Rotate rotates the polyhedron about the origin by Euler angles in
// degrees, applied around X, then Y, then Z.
func (p *Polyhedron) Rotate(x, y, z float64) (*Polyhedron, error) {
	m := mgl64.HomogRotate3DZ(mgl64.DegToRad(z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)))
	return p.Transform(m)
}
