package main

import (
	"fmt"
	"io"

	"github.com/chazu/polyhedra/pkg/engine"
	"github.com/chazu/polyhedra/pkg/geom"
	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/kernel/sdfx"
	"github.com/chazu/polyhedra/pkg/polyhedron"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/chazu/polyhedra/pkg/stl"
	"github.com/chazu/polyhedra/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script → scene → mesh pipeline.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON mesh format written by -format mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`

	scene *scene.Scene
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(opts ...sdfx.Option) *App {
	k := sdfx.New(opts...)
	return &App{
		engine: engine.NewEngine(k),
		kernel: k,
	}
}

// Scene returns the evaluated scene, or nil when evaluation failed.
func (r EvalResult) Scene() *scene.Scene {
	return r.scene
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}
	log := kernel.Logger()

	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Error("evaluate: fatal", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	return a.meshScene(sc)
}

// EvaluateSolid builds a result from a single catalog solid.
func (a *App) EvaluateSolid(name string) (EvalResult, error) {
	p, ok := polyhedron.Builtin(name)
	if !ok {
		return EvalResult{}, fmt.Errorf("unknown solid %q (known: %v)", name, polyhedron.BuiltinNames)
	}
	sc := scene.New()
	if _, err := sc.AddPart(name, p); err != nil {
		return EvalResult{}, err
	}
	return a.meshScene(sc), nil
}

// Wireframe replaces every polyhedral part with its wireframe.
func (a *App) Wireframe(r EvalResult, thickness float64) (EvalResult, error) {
	if r.scene == nil {
		return r, nil
	}
	sc := scene.New()
	for _, part := range r.scene.Parts() {
		solid := part.Solid
		if p, ok := part.Polyhedron(); ok {
			w, err := polyhedron.NewWireframe(p, thickness)
			if err != nil {
				return EvalResult{}, fmt.Errorf("part %q: %w", part.Name, err)
			}
			solid = w
		}
		if _, err := sc.AddPart(part.Name, solid); err != nil {
			return EvalResult{}, err
		}
	}
	return a.meshScene(sc), nil
}

// meshScene tessellates sc into the result format.
func (a *App) meshScene(sc *scene.Scene) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
		scene:  sc,
	}

	meshes, err := tessellate.Tessellate(sc, a.kernel)
	if err != nil {
		kernel.Logger().Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}

// WriteSTL writes one ASCII STL solid per mesh, named after its part.
// Polyhedral parts are written from their exact float64 triangulation
// rather than the float32 mesh.
func (r EvalResult) WriteSTL(w io.Writer) error {
	var parts []*scene.Part
	if r.scene != nil {
		parts = r.scene.Parts()
	}
	for i, m := range r.Meshes {
		var tris []geom.Triangle
		if i < len(parts) {
			if p, ok := parts[i].Polyhedron(); ok {
				// On failure the mesh already came from the kernel.
				tris, _ = tessellate.Polyhedron(p)
			}
		}
		if tris == nil {
			km := kernel.Mesh{Vertices: m.Vertices, Indices: m.Indices}
			tris = km.Triangles()
		}
		if err := stl.Write(w, m.PartName, tris); err != nil {
			return fmt.Errorf("write stl %q: %w", m.PartName, err)
		}
	}
	return nil
}
