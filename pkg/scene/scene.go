// Package scene holds the named parts produced by evaluating a script.
// Parts keep their definition order so meshes and STL output are
// reproducible.
package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/polyhedron"
)

var (
	ErrDuplicatePart = errors.New("part name already defined")
	ErrPartNotFound  = errors.New("part not found")
	ErrNilSolid      = errors.New("part has no solid")
)

// Part is a named solid.
type Part struct {
	Name  string
	Solid kernel.Solid
}

// Polyhedron returns the part's solid as a polyhedron when it is one.
// Polyhedral parts are tessellated exactly instead of by marching cubes.
func (p *Part) Polyhedron() (*polyhedron.Polyhedron, bool) {
	poly, ok := p.Solid.(*polyhedron.Polyhedron)
	return poly, ok
}

// Scene is an ordered registry of parts.
type Scene struct {
	parts []*Part
	names map[string]int // Name -> index into parts
}

// New creates a new empty scene.
func New() *Scene {
	return &Scene{names: make(map[string]int)}
}

// AddPart defines a new part. Names must be unique.
func (s *Scene) AddPart(name string, solid kernel.Solid) (*Part, error) {
	if solid == nil {
		return nil, fmt.Errorf("scene: part %q: %w", name, ErrNilSolid)
	}
	if _, exists := s.names[name]; exists {
		return nil, fmt.Errorf("scene: part %q: %w", name, ErrDuplicatePart)
	}
	p := &Part{Name: name, Solid: solid}
	s.names[name] = len(s.parts)
	s.parts = append(s.parts, p)
	return p, nil
}

// Lookup returns a part by name.
func (s *Scene) Lookup(name string) (*Part, error) {
	i, exists := s.names[name]
	if !exists {
		return nil, fmt.Errorf("scene: part %q: %w", name, ErrPartNotFound)
	}
	return s.parts[i], nil
}

// Parts returns the parts in definition order.
func (s *Scene) Parts() []*Part {
	out := make([]*Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Len returns the number of parts.
func (s *Scene) Len() int {
	return len(s.parts)
}
