package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/polyhedron"
	"github.com/chazu/polyhedra/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// errNoKernel is reported by builtins that need a geometry kernel when the
// engine was built without one.
var errNoKernel = errors.New("no geometry kernel configured")

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so it can be passed between builtins.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	switch v := s.solid.(type) {
	case *polyhedron.Polyhedron:
		return fmt.Sprintf("(polyhedron V=%d F=%d)", v.NumVertices(), v.NumFaces())
	case *polyhedron.Wireframe:
		return fmt.Sprintf("(wireframe E=%d :thickness %g)", len(v.Edges()), v.Thickness())
	}
	bb := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", bb.Min, bb.Max)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// require returns the keyword value, or an error naming the builtin.
func (a kwArgs) require(fn, key string) (zygo.Sexp, error) {
	v, ok := a.kw[key]
	if !ok || v == zygo.SexpNull {
		return nil, fmt.Errorf("%s: missing :%s", fn, key)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer index.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toPolyhedron extracts a polyhedron from a sexpSolid.
func toPolyhedron(s zygo.Sexp) (*polyhedron.Polyhedron, error) {
	solid, err := toSolid(s)
	if err != nil {
		return nil, err
	}
	p, ok := solid.(*polyhedron.Polyhedron)
	if !ok {
		return nil, fmt.Errorf("expected polyhedron, got %s", s.SexpString(nil))
	}
	return p, nil
}

// toVec3 accepts (vec3 x y z) or a three-element list or array.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	xyz, err := toFloats(s, 3)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("expected vec3: %w", err)
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// toFloats reads a list of exactly n numbers.
func toFloats(s zygo.Sexp, n int) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	if len(items) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(items))
	}
	out := make([]float64, n)
	for i, item := range items {
		if out[i], err = toFloat64(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVertices reads [[x y z] ...].
func toVertices(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	vs := make([]v3.Vec, len(items))
	for i, item := range items {
		if vs[i], err = toVec3(item); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return vs, nil
}

// toFaces reads [[i j k ...] ...].
func toFaces(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	faces := make([][]int, len(items))
	for i, item := range items {
		idx, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces[i] = make([]int, len(idx))
		for j, x := range idx {
			if faces[i][j], err = toInt(x); err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
		}
	}
	return faces, nil
}

// toProfile reads [[x y] ...].
func toProfile(s zygo.Sexp) ([][2]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	profile := make([][2]float64, len(items))
	for i, item := range items {
		xy, err := toFloats(item, 2)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		profile[i] = [2]float64{xy[0], xy[1]}
	}
	return profile, nil
}

// toScale accepts a uniform factor or a per-axis vec3.
func toScale(s zygo.Sexp) (v3.Vec, error) {
	switch s.(type) {
	case *zygo.SexpInt, *zygo.SexpFloat:
		k, err := toFloat64(s)
		return v3.Vec{X: k, Y: k, Z: k}, err
	}
	v, err := toVec3(s)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("expected number or vec3: %w", err)
	}
	return v, nil
}

// solidArg returns the first positional argument as a solid.
func solidArg(fn string, pa kwArgs) (kernel.Solid, error) {
	if len(pa.positional) < 1 {
		return nil, fmt.Errorf("%s requires a solid as first argument", fn)
	}
	s, err := toSolid(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return s, nil
}

// byArg returns :by, falling back to the second positional argument.
func byArg(fn string, pa kwArgs) (zygo.Sexp, error) {
	if v, ok := pa.kw["by"]; ok {
		return v, nil
	}
	if len(pa.positional) >= 2 {
		return pa.positional[1], nil
	}
	return nil, fmt.Errorf("%s: missing :by", fn)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinFunc is the signature zygomys expects for Go functions.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the modeling builtins into a zygomys
// environment. Parts are added to sc; CSG and transforms of
// non-polyhedral solids go through k.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene, k kernel.Kernel) {
	needKernel := func(fn string) error {
		if k == nil {
			return fmt.Errorf("%s: %w", fn, errNoKernel)
		}
		return nil
	}
	wrap := func(s kernel.Solid) zygo.Sexp { return &sexpSolid{solid: s} }

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (polyhedron :vertices [[x y z] ...] :faces [[0 1 2] ...])
	// -----------------------------------------------------------------------
	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		vv, err := pa.require("polyhedron", "vertices")
		if err != nil {
			return zygo.SexpNull, err
		}
		fv, err := pa.require("polyhedron", "faces")
		if err != nil {
			return zygo.SexpNull, err
		}
		vs, err := toVertices(vv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: vertices: %w", err)
		}
		faces, err := toFaces(fv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: faces: %w", err)
		}
		p, err := polyhedron.New(vs, faces)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: %w", err)
		}
		return wrap(p), nil
	})

	// -----------------------------------------------------------------------
	// (tetrahedron) (cube) (octahedron) (icosahedron) (dodecahedron)
	// -----------------------------------------------------------------------
	for _, solidName := range polyhedron.BuiltinNames {
		p, _ := polyhedron.Builtin(solidName)
		fn := solidName
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", fn, len(args))
			}
			return wrap(p), nil
		})
	}

	// -----------------------------------------------------------------------
	// (prism :profile [[0 0] [2 0] [2 1] [0 1]] :height 3)
	// -----------------------------------------------------------------------
	env.AddFunction("prism", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pv, err := pa.require("prism", "profile")
		if err != nil {
			return zygo.SexpNull, err
		}
		hv, err := pa.require("prism", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		profile, err := toProfile(pv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: profile: %w", err)
		}
		h, err := toFloat64(hv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: height: %w", err)
		}
		p, err := polyhedron.Prism(profile, h)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: %w", err)
		}
		return wrap(p), nil
	})

	// -----------------------------------------------------------------------
	// (move s :by (vec3 1 0 0)) (rotate s :by (vec3 0 0 90)) (scale s :by 2)
	//
	// Polyhedra are transformed exactly and stay polyhedra; any other solid
	// is transformed by the kernel.
	// -----------------------------------------------------------------------
	transform := func(fn string, parse func(zygo.Sexp) (v3.Vec, error),
		exact func(*polyhedron.Polyhedron, v3.Vec) (*polyhedron.Polyhedron, error),
		viaKernel func(kernel.Solid, v3.Vec) kernel.Solid) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			s, err := solidArg(fn, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			bv, err := byArg(fn, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			v, err := parse(bv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: by: %w", fn, err)
			}
			if p, ok := s.(*polyhedron.Polyhedron); ok {
				q, err := exact(p, v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
				}
				return wrap(q), nil
			}
			if err := needKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			return wrap(viaKernel(s, v)), nil
		}
	}

	env.AddFunction("move", transform("move", toVec3,
		func(p *polyhedron.Polyhedron, v v3.Vec) (*polyhedron.Polyhedron, error) {
			return p.Translate(v.X, v.Y, v.Z)
		},
		func(s kernel.Solid, v v3.Vec) kernel.Solid { return k.Translate(s, v.X, v.Y, v.Z) }))

	env.AddFunction("rotate", transform("rotate", toVec3,
		func(p *polyhedron.Polyhedron, v v3.Vec) (*polyhedron.Polyhedron, error) {
			return p.Rotate(v.X, v.Y, v.Z)
		},
		func(s kernel.Solid, v v3.Vec) kernel.Solid { return k.Rotate(s, v.X, v.Y, v.Z) }))

	env.AddFunction("scale", transform("scale", toScale,
		func(p *polyhedron.Polyhedron, v v3.Vec) (*polyhedron.Polyhedron, error) {
			return p.Scale(v.X, v.Y, v.Z)
		},
		func(s kernel.Solid, v v3.Vec) kernel.Solid { return k.Scale(s, v.X, v.Y, v.Z) }))

	// -----------------------------------------------------------------------
	// (wireframe (cube) :thickness 0.1)
	// -----------------------------------------------------------------------
	env.AddFunction("wireframe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("wireframe requires a polyhedron as first argument")
		}
		p, err := toPolyhedron(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wireframe: %w", err)
		}
		tv, err := pa.require("wireframe", "thickness")
		if err != nil {
			return zygo.SexpNull, err
		}
		thickness, err := toFloat64(tv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wireframe: thickness: %w", err)
		}
		w, err := polyhedron.NewWireframe(p, thickness)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wireframe: %w", err)
		}
		return wrap(w), nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (difference a b) (intersection a b)
	// -----------------------------------------------------------------------
	solids := func(fn string, args []zygo.Sexp) ([]kernel.Solid, error) {
		if err := needKernel(fn); err != nil {
			return nil, err
		}
		out := make([]kernel.Solid, len(args))
		for i, a := range args {
			s, err := toSolid(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
			}
			out[i] = s
		}
		return out, nil
	}

	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("union requires at least one solid")
		}
		ss, err := solids("union", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(k.Union(ss...)), nil
	})

	binary := func(fn string, op func(a, b kernel.Solid) kernel.Solid) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", fn, len(args))
			}
			ss, err := solids(fn, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return wrap(op(ss[0], ss[1])), nil
		}
	}
	env.AddFunction("difference", binary("difference", func(a, b kernel.Solid) kernel.Solid {
		return k.Difference(a, b)
	}))
	env.AddFunction("intersection", binary("intersection", func(a, b kernel.Solid) kernel.Solid {
		return k.Intersection(a, b)
	}))

	// -----------------------------------------------------------------------
	// (distance s (vec3 0 0 0)) evaluates the signed distance field.
	// -----------------------------------------------------------------------
	env.AddFunction("distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("distance requires a solid and a point, got %d arguments", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		p, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: point: %w", err)
		}
		return &zygo.SexpFloat{Val: s.Evaluate(p)}, nil
	})

	// -----------------------------------------------------------------------
	// (defpart "name" expr)
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		if _, err := sc.AddPart(partName, s); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		kernel.Logger().Debug("engine: defpart", "part", partName)
		return wrap(s), nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		p, err := sc.Lookup(partName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}
		return wrap(p.Solid), nil
	})
}
