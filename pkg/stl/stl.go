// Package stl reads and writes ASCII STL. The writer emits facet normals
// as zeros; readers are expected to recompute them from the winding.
// Binary STL can be read but not written.
package stl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/polyhedra/pkg/geom"
	"github.com/chazu/polyhedra/pkg/polyhedron"
	"github.com/chazu/polyhedra/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is a parsed ASCII STL solid.
type Solid struct {
	Name      string
	Triangles []geom.Triangle
	Normals   []v3.Vec // stored facet normals, one per triangle
}

// Vertices returns the distinct vertex positions in first-seen order.
func (s *Solid) Vertices() []v3.Vec {
	seen := make(map[v3.Vec]bool)
	var out []v3.Vec
	for _, t := range s.Triangles {
		for _, v := range t {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// SyntaxError reports malformed STL input.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("stl: line %d: %s", e.Line, e.Msg)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write emits tris as an ASCII STL solid called name.
func Write(w io.Writer, name string, tris []geom.Triangle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		bw.WriteString("facet normal 0 0 0\n")
		bw.WriteString("outer loop\n")
		for _, v := range t {
			fmt.Fprintf(bw, "vertex %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
		}
		bw.WriteString("endloop\n")
		bw.WriteString("endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// Marshal returns the ASCII STL text for tris.
func Marshal(name string, tris []geom.Triangle) string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = Write(&sb, name, tris)
	return sb.String()
}

// Export triangulates every face of p in face order and returns the
// ASCII STL text.
func Export(p *polyhedron.Polyhedron, name string) (string, error) {
	tris, err := tessellate.Polyhedron(p)
	if err != nil {
		return "", fmt.Errorf("stl: export %q: %w", name, err)
	}
	return Marshal(name, tris), nil
}

// reader walks the input line by line, skipping blank lines.
type reader struct {
	sc   *bufio.Scanner
	line int
}

// next returns the fields of the next non-blank line.
func (r *reader) next() ([]string, string, error) {
	for r.sc.Scan() {
		r.line++
		raw := strings.TrimSpace(r.sc.Text())
		if raw == "" {
			continue
		}
		return strings.Fields(raw), raw, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, "", err
	}
	return nil, "", io.ErrUnexpectedEOF
}

func (r *reader) errorf(format string, args ...any) error {
	return &SyntaxError{Line: r.line, Msg: fmt.Sprintf(format, args...)}
}

// expect reads a line that must consist of exactly want.
func (r *reader) expect(want ...string) error {
	f, raw, err := r.next()
	if err != nil {
		return r.eof(err, strings.Join(want, " "))
	}
	if len(f) != len(want) {
		return r.errorf("expected %q, got %q", strings.Join(want, " "), raw)
	}
	for i := range want {
		if f[i] != want[i] {
			return r.errorf("expected %q, got %q", strings.Join(want, " "), raw)
		}
	}
	return nil
}

func (r *reader) eof(err error, want string) error {
	if err == io.ErrUnexpectedEOF {
		return r.errorf("unexpected end of input, expected %q", want)
	}
	return err
}

// vec parses three float fields.
func (r *reader) vec(f []string) (v3.Vec, error) {
	var xyz [3]float64
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v3.Vec{}, r.errorf("bad number %q", s)
		}
		xyz[i] = x
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Read parses input holding exactly one ASCII STL solid. Indentation and
// blank lines are ignored; anything else out of place, including data
// after endsolid, is a *SyntaxError.
func Read(in io.Reader) (*Solid, error) {
	r := &reader{sc: bufio.NewScanner(in)}
	f, raw, err := r.next()
	if err != nil {
		return nil, r.eof(err, "solid")
	}
	s, err := r.solid(f, raw)
	if err != nil {
		return nil, err
	}
	if _, raw, err := r.next(); err == nil {
		return nil, r.errorf("unexpected %q after endsolid", raw)
	} else if err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return s, nil
}

// ReadAll parses every solid in the input, in order. Files written with
// one Write per part hold several. At least one solid is required.
func ReadAll(in io.Reader) ([]*Solid, error) {
	r := &reader{sc: bufio.NewScanner(in)}
	var solids []*Solid
	for {
		f, raw, err := r.next()
		if err == io.ErrUnexpectedEOF && len(solids) > 0 {
			return solids, nil
		}
		if err != nil {
			return nil, r.eof(err, "solid")
		}
		s, err := r.solid(f, raw)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
}

// solid parses from the "solid" header line through "endsolid".
func (r *reader) solid(f []string, raw string) (*Solid, error) {
	if f[0] != "solid" {
		return nil, r.errorf("expected \"solid\", got %q", raw)
	}
	s := &Solid{Name: strings.TrimSpace(strings.TrimPrefix(raw, "solid"))}

	for {
		f, raw, err := r.next()
		if err != nil {
			return nil, r.eof(err, "endsolid")
		}
		switch f[0] {
		case "endsolid":
			return s, nil
		case "facet":
			if len(f) != 5 || f[1] != "normal" {
				return nil, r.errorf("expected \"facet normal nx ny nz\", got %q", raw)
			}
			n, err := r.vec(f[2:])
			if err != nil {
				return nil, err
			}
			t, err := r.facetBody()
			if err != nil {
				return nil, err
			}
			s.Triangles = append(s.Triangles, t)
			s.Normals = append(s.Normals, n)
		default:
			return nil, r.errorf("expected \"facet\" or \"endsolid\", got %q", raw)
		}
	}
}

// facetBody parses from "outer loop" through "endfacet".
func (r *reader) facetBody() (geom.Triangle, error) {
	var t geom.Triangle
	if err := r.expect("outer", "loop"); err != nil {
		return t, err
	}
	for i := range t {
		f, raw, err := r.next()
		if err != nil {
			return t, r.eof(err, "vertex")
		}
		if len(f) != 4 || f[0] != "vertex" {
			return t, r.errorf("expected \"vertex x y z\", got %q", raw)
		}
		if t[i], err = r.vec(f[1:]); err != nil {
			return t, err
		}
	}
	if err := r.expect("endloop"); err != nil {
		return t, err
	}
	if err := r.expect("endfacet"); err != nil {
		return t, err
	}
	return t, nil
}
