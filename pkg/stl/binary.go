package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/polyhedra/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	hstl "github.com/hschendel/stl"
)

const (
	binaryHeaderSize   = 84 // 80 byte header + uint32 triangle count
	binaryTriangleSize = 50 // normal, 3 vertices, attribute word
)

// isBinary reports whether data is exactly as long as a binary STL file
// declaring its triangle count. Binary headers may start with "solid", so
// the leading keyword alone cannot tell the encodings apart.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	n := binary.LittleEndian.Uint32(data[80:binaryHeaderSize])
	return uint64(len(data)) == binaryHeaderSize+uint64(n)*binaryTriangleSize
}

// ReadBinary decodes a binary STL file. Coordinates are float32 on disk
// and are widened to float64.
func ReadBinary(in io.Reader) (*Solid, error) {
	hs, err := hstl.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("stl: binary: %w", err)
	}

	name := hs.Name
	if name == "" {
		name = strings.TrimSpace(strings.TrimRight(string(hs.BinaryHeader), "\x00"))
	}
	s := &Solid{
		Name:      name,
		Triangles: make([]geom.Triangle, 0, len(hs.Triangles)),
		Normals:   make([]v3.Vec, 0, len(hs.Triangles)),
	}
	for _, t := range hs.Triangles {
		var tri geom.Triangle
		for i, v := range t.Vertices {
			tri[i] = widen(v)
		}
		s.Triangles = append(s.Triangles, tri)
		s.Normals = append(s.Normals, widen(t.Normal))
	}
	return s, nil
}

func widen(v hstl.Vec3) v3.Vec {
	return v3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// ReadAny reads binary or ASCII STL. ASCII input may hold several solids;
// binary input always holds one.
func ReadAny(in io.Reader) ([]*Solid, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if isBinary(data) {
		s, err := ReadBinary(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return []*Solid{s}, nil
	}
	return ReadAll(bytes.NewReader(data))
}
