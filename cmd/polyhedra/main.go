// Command polyhedra evaluates a modeling script or a catalog solid and
// writes the result as ASCII STL or JSON meshes.
//
//	polyhedra -solid dodecahedron -out dodecahedron.stl
//	polyhedra -script examples/csg.poly -format mesh
//	polyhedra -solid cube -eval 2,0,0
//	polyhedra -check part.stl
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/kernel/sdfx"
	"github.com/chazu/polyhedra/pkg/polyhedron"
	"github.com/chazu/polyhedra/pkg/stl"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, for tests.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("polyhedra", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		script  = fs.String("script", "", "modeling script to evaluate")
		solid   = fs.String("solid", "", "catalog solid: "+strings.Join(polyhedron.BuiltinNames, ", "))
		output  = fs.String("out", "-", "output file, - for stdout")
		format  = fs.String("format", "stl", "output format: stl or mesh")
		wire    = fs.Float64("wire", 0, "replace polyhedral parts with wireframes of this thickness")
		cells   = fs.Int("cells", 200, "marching cubes resolution for non-polyhedral parts")
		evalAt  = fs.String("eval", "", "print each part's signed distance at x,y,z instead of writing output")
		check   = fs.String("check", "", "parse an ASCII or binary STL file and report its contents")
		verbose = fs.Bool("v", false, "log diagnostics to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verbose {
		kernel.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer kernel.SetLogger(nil)
	}

	if *check != "" {
		if err := checkSTL(*check, stdout); err != nil {
			fmt.Fprintf(stderr, "polyhedra: %v\n", err)
			return 1
		}
		return 0
	}

	if (*script == "") == (*solid == "") {
		fmt.Fprintln(stderr, "polyhedra: exactly one of -script or -solid is required")
		fs.Usage()
		return 2
	}
	if *format != "stl" && *format != "mesh" {
		fmt.Fprintf(stderr, "polyhedra: unknown format %q\n", *format)
		return 2
	}

	app := NewApp(sdfx.WithMeshCells(*cells))
	result, err := evaluate(app, *script, *solid)
	if err != nil {
		fmt.Fprintf(stderr, "polyhedra: %v\n", err)
		return 1
	}
	if *wire > 0 && len(result.Errors) == 0 {
		if result, err = app.Wireframe(result, *wire); err != nil {
			fmt.Fprintf(stderr, "polyhedra: %v\n", err)
			return 1
		}
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "%s:%d: %s\n", *script, e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "polyhedra: %s\n", e.Message)
			}
		}
		return 1
	}

	if *evalAt != "" {
		p, err := parsePoint(*evalAt)
		if err != nil {
			fmt.Fprintf(stderr, "polyhedra: -eval: %v\n", err)
			return 2
		}
		for _, part := range result.Scene().Parts() {
			fmt.Fprintf(stdout, "%s\t%s\n", part.Name, strconv.FormatFloat(part.Solid.Evaluate(p), 'g', -1, 64))
		}
		return 0
	}

	if err := writeOutput(result, *output, *format, stdout); err != nil {
		fmt.Fprintf(stderr, "polyhedra: %v\n", err)
		return 1
	}
	return 0
}

// evaluate runs either the script file or the named solid.
func evaluate(app *App, script, solid string) (EvalResult, error) {
	if solid != "" {
		return app.EvaluateSolid(solid)
	}
	src, err := os.ReadFile(script)
	if err != nil {
		return EvalResult{}, err
	}
	return app.Evaluate(string(src)), nil
}

// writeOutput writes result as STL or JSON to path, or stdout for "-".
func writeOutput(result EvalResult, path, format string, stdout io.Writer) (err error) {
	w := stdout
	if path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if format == "mesh" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return result.WriteSTL(w)
}

// checkSTL parses an ASCII or binary STL file and prints a summary line
// per solid, then a total when there are several.
func checkSTL(path string, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	solids, err := stl.ReadAny(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	total := 0
	for _, s := range solids {
		fmt.Fprintf(stdout, "solid %q: %d triangles, %d distinct vertices\n",
			s.Name, len(s.Triangles), len(s.Vertices()))
		total += len(s.Triangles)
	}
	if len(solids) > 1 {
		fmt.Fprintf(stdout, "%d solids, %d triangles\n", len(solids), total)
	}
	return nil
}

var errBadPoint = errors.New("expected x,y,z")

// parsePoint parses "x,y,z".
func parsePoint(s string) (v3.Vec, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return v3.Vec{}, errBadPoint
	}
	var xyz [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return v3.Vec{}, fmt.Errorf("%w: %v", errBadPoint, err)
		}
		xyz[i] = x
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
