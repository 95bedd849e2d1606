package kernel

import (
	"github.com/chazu/polyhedra/pkg/geom"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddTriangle appends a flat-shaded triangle. Each corner gets its own
// vertex so the normal is constant across the face.
func (m *Mesh) AddTriangle(t geom.Triangle) {
	n := t.Normal()
	base := uint32(m.VertexCount())
	for j, v := range t {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

// Triangles returns the mesh triangles in index order.
func (m *Mesh) Triangles() []geom.Triangle {
	out := make([]geom.Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var t geom.Triangle
		for j := 0; j < 3; j++ {
			k := m.Indices[i+j] * 3
			t[j].X = float64(m.Vertices[k])
			t[j].Y = float64(m.Vertices[k+1])
			t[j].Z = float64(m.Vertices[k+2])
		}
		out = append(out, t)
	}
	return out
}
