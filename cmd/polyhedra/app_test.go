package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/chazu/polyhedra/pkg/kernel/sdfx"
	"github.com/chazu/polyhedra/pkg/stl"
)

// newTestApp keeps marching cubes coarse so tests stay fast.
func newTestApp() *App {
	return NewApp(sdfx.WithMeshCells(32))
}

func readExample(t *testing.T, name string) string {
	t.Helper()
	src, err := os.ReadFile("../../examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(src)
}

func requireNoErrors(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EExamples exercises the full pipeline for every example script:
// source → engine → scene → tessellate → meshes.
func TestE2EExamples(t *testing.T) {
	tests := []struct {
		file  string
		parts []string
	}{
		{"pyramid.poly", []string{"pyramid"}},
		{"shelf.poly", []string{"bracket", "gem"}},
		{"csg.poly", []string{"frame", "core", "stack"}},
	}
	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result := app.Evaluate(readExample(t, tt.file))
			requireNoErrors(t, result)

			if len(result.Meshes) != len(tt.parts) {
				t.Fatalf("expected %d meshes, got %d", len(tt.parts), len(result.Meshes))
			}
			for i, m := range result.Meshes {
				if m.PartName != tt.parts[i] {
					t.Errorf("mesh %d: part name %q, want %q", i, m.PartName, tt.parts[i])
				}
				if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
					t.Errorf("part %q: empty geometry", m.PartName)
				}
				if m.Color == "" {
					t.Errorf("part %q: no color assigned", m.PartName)
				}
				t.Logf("%s: %d triangles", m.PartName, len(m.Indices)/3)
			}
		})
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp()
	for _, src := range []string{"", "  \n\t", ";; just a comment"} {
		result := app.Evaluate(src)
		if len(result.Errors) > 0 {
			t.Errorf("unexpected errors for %q: %v", src, result.Errors)
		}
		if len(result.Meshes) != 0 {
			t.Errorf("expected 0 meshes for %q, got %d", src, len(result.Meshes))
		}
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("(defpart \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
	if result.Scene() != nil {
		t.Error("expected no scene on error")
	}
}

func TestE2EExactPolyhedra(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`(defpart "cube" (cube)) (defpart "d" (dodecahedron))`)
	requireNoErrors(t, result)

	// Ear clipping gives n-2 triangles per face.
	want := map[string]int{"cube": 12, "d": 36}
	for _, m := range result.Meshes {
		if got := len(m.Indices) / 3; got != want[m.PartName] {
			t.Errorf("%s: %d triangles, want %d", m.PartName, got, want[m.PartName])
		}
	}
}

func TestEvaluateSolid(t *testing.T) {
	app := newTestApp()
	result, err := app.EvaluateSolid("octahedron")
	if err != nil {
		t.Fatal(err)
	}
	requireNoErrors(t, result)
	if len(result.Meshes) != 1 || len(result.Meshes[0].Indices)/3 != 8 {
		t.Fatalf("unexpected meshes %+v", result.Meshes)
	}
	if _, err := app.EvaluateSolid("rhombicuboctahedron"); err == nil {
		t.Error("expected error for unknown solid")
	}
}

func TestWireframe(t *testing.T) {
	app := newTestApp()
	result, err := app.EvaluateSolid("tetrahedron")
	if err != nil {
		t.Fatal(err)
	}
	wired, err := app.Wireframe(result, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	requireNoErrors(t, wired)
	if len(wired.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(wired.Meshes))
	}
	// Marching cubes output is much denser than the 4 exact faces.
	if n := len(wired.Meshes[0].Indices) / 3; n <= 4 {
		t.Errorf("wireframe mesh has %d triangles", n)
	}
	if _, err := app.Wireframe(result, 0); err == nil {
		t.Error("expected error for zero thickness")
	}
}

func TestWriteSTL(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`(defpart "a" (cube)) (defpart "b" (move (cube) :by (vec3 0.5 0 0)))`)
	requireNoErrors(t, result)

	var buf bytes.Buffer
	if err := result.WriteSTL(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if got := strings.Count(text, "endsolid "); got != 2 {
		t.Fatalf("got %d solids, want 2", got)
	}
	// The exact triangulation keeps 0.5 and 1.5 exact.
	if !strings.Contains(text, "vertex 1.5 -1 -1\n") {
		t.Error("expected exact vertex coordinates for the moved cube")
	}

	solids, err := stl.ReadAll(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if len(solids) != 2 {
		t.Fatalf("read %d solids, want 2", len(solids))
	}
	for i, name := range []string{"a", "b"} {
		if s := solids[i]; s.Name != name || len(s.Vertices()) != 8 {
			t.Errorf("solid %q has %d vertices, want %s with 8", s.Name, len(s.Vertices()), name)
		}
	}
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources.
	// The engine must recover cleanly between error and success states.
	app := newTestApp()

	sources := []struct {
		src    string
		errors bool
	}{
		{`(defpart "ok" (cube))`, false},
		{`(defpart "broken"`, true},
		{``, false},
		{`(part "missing")`, true},
		{`(defpart "also-ok" (tetrahedron))`, false},
		{`(undefined-func 1 2 3)`, true},
		{`(defpart "last" (icosahedron))`, false},
	}

	for i, s := range sources {
		result := app.Evaluate(s.src)
		if got := len(result.Errors) > 0; got != s.errors {
			t.Errorf("iteration %d (%q): errors=%v, want %v", i, s.src, result.Errors, s.errors)
		}
	}
}
