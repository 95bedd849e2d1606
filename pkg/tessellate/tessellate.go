// Package tessellate turns scene parts into triangle meshes. Polyhedral
// parts are triangulated face by face with ear clipping; every other solid
// is meshed by the geometry kernel. One mesh is produced per part.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/polyhedra/pkg/geom"
	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/polyhedron"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/chazu/polyhedra/pkg/triangulate"
)

// ErrNoKernel is returned when a non-polyhedral part needs meshing and no
// kernel was supplied.
var ErrNoKernel = errors.New("tessellate: no kernel for non-polyhedral part")

// Polyhedron triangulates every face in face order and concatenates the
// results. A face with n vertices contributes n-2 triangles.
func Polyhedron(p *polyhedron.Polyhedron) ([]geom.Triangle, error) {
	var tris []geom.Triangle
	for i := 0; i < p.NumFaces(); i++ {
		ft, err := triangulate.Triangulate(p.Face(i).Points)
		if err != nil {
			return nil, fmt.Errorf("tessellate: face %d: %w", i, err)
		}
		tris = append(tris, ft...)
	}
	return tris, nil
}

// PolyhedronMesh is Polyhedron packed into a flat-shaded mesh.
func PolyhedronMesh(p *polyhedron.Polyhedron) (*kernel.Mesh, error) {
	tris, err := Polyhedron(p)
	if err != nil {
		return nil, err
	}
	m := &kernel.Mesh{}
	for _, t := range tris {
		m.AddTriangle(t)
	}
	return m, nil
}

// Tessellate produces one mesh per part of s, in definition order. The
// tessellator never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	log := kernel.Logger()
	meshes := make([]*kernel.Mesh, 0, s.Len())
	for _, part := range s.Parts() {
		mesh, err := Part(part, k)
		if err != nil {
			return nil, err
		}
		log.Debug("tessellate: part done", "part", part.Name, "triangles", mesh.TriangleCount())
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Part meshes a single part. Polyhedra are triangulated exactly; when a
// face cannot be clipped the part falls back to the kernel.
func Part(part *scene.Part, k kernel.Kernel) (*kernel.Mesh, error) {
	var mesh *kernel.Mesh
	if poly, ok := part.Polyhedron(); ok {
		m, err := PolyhedronMesh(poly)
		if err == nil {
			mesh = m
		} else {
			kernel.Logger().Warn("tessellate: exact triangulation failed, using kernel",
				"part", part.Name, "err", err)
		}
	}

	if mesh == nil {
		if k == nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", part.Name, ErrNoKernel)
		}
		m, err := k.ToMesh(part.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %q: %w", part.Name, err)
		}
		mesh = m
	}

	mesh.PartName = part.Name
	return mesh, nil
}
