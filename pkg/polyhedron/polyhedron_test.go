package polyhedron

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/chazu/polyhedra/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const tol = 1e-9

func TestCubeDistance(t *testing.T) {
	cube := Cube()
	tests := []struct {
		name string
		p    v3.Vec
		want float64
	}{
		{"center", v3.Vec{}, -1},
		{"outside +x", v3.Vec{X: 2}, 1},
		{"vertex", v3.Vec{X: 1, Y: 1, Z: 1}, 0},
		{"face center", v3.Vec{Z: 1}, 0},
		{"inside near face", v3.Vec{Y: 0.75}, -0.25},
		{"off edge", v3.Vec{X: 2, Y: 2}, math.Sqrt2},
		{"off corner", v3.Vec{X: 2, Y: 2, Z: 2}, math.Sqrt(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cube.Evaluate(tt.p)
			if math.Abs(got-tt.want) > tol {
				t.Errorf("Evaluate(%v) = %f, want %f", tt.p, got, tt.want)
			}
		})
	}
}

func TestCubeDistanceExact(t *testing.T) {
	cube := Cube()
	if got := cube.Evaluate(v3.Vec{}); got != -1 {
		t.Errorf("Evaluate(origin) = %v, want exactly -1", got)
	}
	if got := cube.Evaluate(v3.Vec{X: 2}); got != 1 {
		t.Errorf("Evaluate(2,0,0) = %v, want exactly 1", got)
	}
	if got := cube.Evaluate(v3.Vec{X: 1, Y: 1, Z: 1}); got != 0 {
		t.Errorf("Evaluate(1,1,1) = %v, want exactly 0", got)
	}
}

func TestCubeNormalsOutward(t *testing.T) {
	cube := Cube()
	want := []v3.Vec{{Z: -1}, {Z: 1}, {Y: -1}, {Y: 1}, {X: -1}, {X: 1}}
	for i, w := range want {
		n := cube.Face(i).Normal
		if n.Sub(w).Length() > tol {
			t.Errorf("face %d normal = %v, want %v", i, n, w)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	bb := Cube().BoundingBox()
	if bb.Min != (v3.Vec{X: -1, Y: -1, Z: -1}) || bb.Max != (v3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("BoundingBox() = %v..%v, want (-1,-1,-1)..(1,1,1)", bb.Min, bb.Max)
	}
	if !Cube().Is3D() {
		t.Error("Is3D() = false, want true")
	}
}

func TestDistanceToPolygonSignFlip(t *testing.T) {
	// Non-convex L face in the plane z = 0, normal +z.
	poly := []v3.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
		{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}
	n := geom.PolygonNormal(poly)
	axis := geom.DominantAxis(poly)
	centroid := v3.Vec{X: 0.5, Y: 0.5}

	prev := DistanceToPolygon(poly, n, axis, centroid.Add(n.MulScalar(-1)))
	for step := -1.0; step <= 1.0001; step += 0.125 {
		p := centroid.Add(n.MulScalar(step))
		d := DistanceToPolygon(poly, n, axis, p)
		switch {
		case step < 0 && d >= 0:
			t.Errorf("t=%.3f: distance %f should be negative", step, d)
		case step > 0 && d <= 0:
			t.Errorf("t=%.3f: distance %f should be positive", step, d)
		case step == 0 && d != 0:
			t.Errorf("t=0: distance %f should be zero", d)
		}
		if math.Abs(d-step) > tol {
			t.Errorf("t=%.3f: distance %f, want %f", step, d, step)
		}
		if math.Abs(d-prev) > 0.125+tol {
			t.Errorf("t=%.3f: jump from %f to %f", step, prev, d)
		}
		prev = d
	}
}

func TestDistanceToPolygonOutsideUsesEdges(t *testing.T) {
	sq := []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	n := geom.PolygonNormal(sq)
	d := DistanceToPolygon(sq, n, geom.AxisZ, v3.Vec{X: 2, Y: 0.5, Z: -1})
	if math.Abs(d+math.Sqrt2) > tol {
		t.Errorf("distance = %f, want %f", d, -math.Sqrt2)
	}
}

func TestCatalogEuler(t *testing.T) {
	tests := []struct {
		name    string
		p       *Polyhedron
		v, e, f int
	}{
		{"tetrahedron", Tetrahedron(), 4, 6, 4},
		{"cube", Cube(), 8, 12, 6},
		{"octahedron", Octahedron(), 6, 12, 8},
		{"icosahedron", Icosahedron(), 12, 30, 20},
		{"dodecahedron", Dodecahedron(), 20, 30, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := tt.p.Edges()
			if tt.p.NumVertices() != tt.v {
				t.Errorf("V = %d, want %d", tt.p.NumVertices(), tt.v)
			}
			if len(edges) != tt.e {
				t.Errorf("E = %d, want %d", len(edges), tt.e)
			}
			if tt.p.NumFaces() != tt.f {
				t.Errorf("F = %d, want %d", tt.p.NumFaces(), tt.f)
			}
			if chi := tt.p.NumVertices() - len(edges) + tt.p.NumFaces(); chi != 2 {
				t.Errorf("V - E + F = %d, want 2", chi)
			}
		})
	}
}

func TestCatalogSolidsContainOrigin(t *testing.T) {
	for _, name := range BuiltinNames {
		t.Run(name, func(t *testing.T) {
			p, ok := Builtin(name)
			if !ok {
				t.Fatalf("Builtin(%q) not found", name)
			}
			if d := p.Evaluate(v3.Vec{}); d >= 0 {
				t.Errorf("Evaluate(origin) = %f, want negative", d)
			}
			far := v3.Vec{X: 10, Y: -7, Z: 3}
			if d := p.Evaluate(far); d <= 0 {
				t.Errorf("Evaluate(%v) = %f, want positive", far, d)
			}
			for i := 0; i < p.NumFaces(); i++ {
				f := p.Face(i)
				var c v3.Vec
				for _, pt := range f.Points {
					c = c.Add(pt)
				}
				c = c.DivScalar(float64(len(f.Points)))
				if c.Dot(f.Normal) <= 0 {
					t.Errorf("face %d normal %v points inward", i, f.Normal)
				}
			}
		})
	}
	if _, ok := Builtin("klein-bottle"); ok {
		t.Error("Builtin(klein-bottle) should not exist")
	}
}

func TestEdgesUnique(t *testing.T) {
	type key struct{ a, b v3.Vec }
	seen := make(map[key]bool)
	for _, e := range Icosahedron().Edges() {
		k := key{e.From, e.To}
		r := key{e.To, e.From}
		if seen[k] || seen[r] {
			t.Fatalf("edge %v-%v reported twice", e.From, e.To)
		}
		seen[k] = true
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		vertices []v3.Vec
		faces    [][]int
		want     error
	}{
		{"no vertices", nil, [][]int{{0, 1, 2}}, ErrNoVertices},
		{"no faces", cubeVertices, nil, ErrNoFaces},
		{"nan vertex", []v3.Vec{{X: math.NaN()}, {X: 1}, {Y: 1}}, [][]int{{0, 1, 2}}, ErrNonFiniteVertex},
		{"two indices", cubeVertices, [][]int{{0, 1}}, ErrTooFewIndices},
		{"index out of range", cubeVertices, [][]int{{0, 1, 8}}, ErrIndexOutOfRange},
		{"negative index", cubeVertices, [][]int{{0, -1, 2}}, ErrIndexOutOfRange},
		{"open box", cubeVertices, cubeFaces[:5], ErrOpenEdge},
		{
			"flipped face",
			cubeVertices,
			[][]int{{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {2, 3, 7, 6}, {0, 4, 7, 3}, {5, 6, 2, 1}},
			ErrNonManifoldEdge,
		},
		{
			"flat double triangle",
			[]v3.Vec{{X: 0}, {X: 1}, {X: 2}},
			[][]int{{0, 1, 2}, {2, 1, 0}},
			ErrDegenerateFace,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.faces)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewErrorTypes(t *testing.T) {
	_, err := New(cubeVertices, [][]int{{0, 1, 2}, {0, 1}})
	var fe *FaceError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FaceError, got %T: %v", err, err)
	}
	if fe.Face != 1 {
		t.Errorf("FaceError.Face = %d, want 1", fe.Face)
	}

	_, err = New(cubeVertices, cubeFaces[1:])
	var ee *EdgeError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EdgeError, got %T: %v", err, err)
	}
	// The bottom face is missing, so its reversed edges are open.
	if ee.From != 0 || ee.To != 1 {
		t.Errorf("EdgeError = %d->%d, want 0->1", ee.From, ee.To)
	}
}

func TestNewCopiesInput(t *testing.T) {
	vs := append([]v3.Vec(nil), cubeVertices...)
	faces := [][]int{}
	for _, f := range cubeFaces {
		faces = append(faces, append([]int(nil), f...))
	}
	p, err := New(vs, faces)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vs[0] = v3.Vec{X: 100}
	faces[0][0] = 7
	if p.Vertices()[0] != cubeVertices[0] {
		t.Error("polyhedron shares caller's vertex slice")
	}
	if p.Faces()[0][0] != 0 {
		t.Error("polyhedron shares caller's face slice")
	}
}

func TestConcurrentEvaluate(t *testing.T) {
	p := Dodecahedron()
	want := p.Evaluate(v3.Vec{X: 0.3, Y: 0.2, Z: -0.1})

	var wg sync.WaitGroup
	errs := make(chan float64, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if got := p.Evaluate(v3.Vec{X: 0.3, Y: 0.2, Z: -0.1}); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent Evaluate = %f, want %f", got, want)
	}
}

func TestDegenerateAreaIsRelative(t *testing.T) {
	for _, s := range []float64{1e-9, 1e-7, 1, 1e6} {
		p, err := Cube().Scale(s, s, s)
		if err != nil {
			t.Errorf("scale %g: %v", s, err)
			continue
		}
		if d := p.Evaluate(v3.Vec{}); math.Abs(d+s) > s*tol {
			t.Errorf("scale %g: Evaluate(origin) = %g, want %g", s, d, -s)
		}
	}

	// A sliver whose area is tiny relative to its extent is still rejected.
	vs := []v3.Vec{{X: 0}, {X: 1e3}, {X: 2e3, Y: 1e-12}}
	if _, err := New(vs, [][]int{{0, 1, 2}, {2, 1, 0}}); !errors.Is(err, ErrDegenerateFace) {
		t.Errorf("sliver error = %v, want ErrDegenerateFace", err)
	}
}

// The nearest face by absolute distance decides the sign. Near an acute
// dihedral edge an outside point can sit closer to the far face's plane
// patch than to the face it is in front of, so the sign comes out wrong.
func TestTetrahedronAcuteEdgeSign(t *testing.T) {
	tet := Tetrahedron()
	p := v3.Vec{X: 0.11, Y: 1.76, Z: 0.98}

	outside := false
	for i := 0; i < tet.NumFaces(); i++ {
		f := tet.Face(i)
		if p.Sub(f.Points[0]).Dot(f.Normal) > 0 {
			outside = true
		}
	}
	if !outside {
		t.Fatalf("%v should be in front of some face plane", p)
	}
	if d := tet.Evaluate(p); d >= 0 {
		t.Errorf("Evaluate(%v) = %f; the nearest-face rule gives a negative value here", p, d)
	}

	// Points off a face interior keep the right sign.
	if d := tet.Evaluate(v3.Vec{X: 2, Y: 2, Z: 2}); d <= 0 {
		t.Errorf("Evaluate beyond vertex = %f, want positive", d)
	}
}
