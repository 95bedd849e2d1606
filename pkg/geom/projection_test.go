package geom

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestDominantAxis(t *testing.T) {
	tests := []struct {
		name string
		vs   []v3.Vec
		want Axis
	}{
		{
			"xy plane drops z",
			[]v3.Vec{{X: 0, Y: 0, Z: 1}, {X: 2, Y: 0, Z: 1}, {X: 0, Y: 2, Z: 1}},
			AxisZ,
		},
		{
			"xz plane drops y",
			[]v3.Vec{{X: 0, Y: 5, Z: 0}, {X: 2, Y: 5, Z: 0}, {X: 0, Y: 5, Z: 2}},
			AxisY,
		},
		{
			"yz plane drops x",
			[]v3.Vec{{X: -1, Y: 0, Z: 0}, {X: -1, Y: 3, Z: 0}, {X: -1, Y: 0, Z: 3}},
			AxisX,
		},
		{
			"equal extents prefer x",
			[]v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}},
			AxisX,
		},
		{
			"y and z tie prefer y",
			[]v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 4, Y: 1, Z: 1}},
			AxisY,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantAxis(tt.vs); got != tt.want {
				t.Errorf("DominantAxis() = %v, want %v", got, tt.want)
			}
		})
	}
}

// lShape is a non-convex hexagon in the plane z = 0.
var lShape = []v3.Vec{
	{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
	{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
}

func TestPointInPolygon(t *testing.T) {
	tests := []struct {
		name string
		p    v3.Vec
		want bool
	}{
		{"lower arm", v3.Vec{X: 1.5, Y: 0.5}, true},
		{"upper arm", v3.Vec{X: 0.5, Y: 1.5}, true},
		{"notch", v3.Vec{X: 1.5, Y: 1.5}, false},
		{"far away", v3.Vec{X: 5, Y: 5}, false},
		{"left of shape", v3.Vec{X: -0.5, Y: 0.5}, false},
		{"off plane is projected", v3.Vec{X: 0.5, Y: 0.5, Z: 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(lShape, AxisZ, tt.p); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonRotationInvariant(t *testing.T) {
	points := []v3.Vec{
		{X: 1.5, Y: 0.5}, {X: 0.5, Y: 1.5}, {X: 1.5, Y: 1.5},
		{X: 0.25, Y: 0.75}, {X: 3, Y: 0.5}, {X: 0.9, Y: 1.9},
	}
	for _, p := range points {
		want := PointInPolygon(lShape, AxisZ, p)
		for k := 1; k < len(lShape); k++ {
			rotated := append(append([]v3.Vec{}, lShape[k:]...), lShape[:k]...)
			if got := PointInPolygon(rotated, AxisZ, p); got != want {
				t.Errorf("rotation %d: PointInPolygon(%v) = %v, want %v", k, p, got, want)
			}
		}
	}
}

func TestPointInPolygonTilted(t *testing.T) {
	// Square in the plane x + z = 1, projected by its own dominant axis.
	sq := []v3.Vec{
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0},
		{X: 1, Y: 2, Z: 0}, {X: 0, Y: 2, Z: 1},
	}
	axis := DominantAxis(sq)
	if !PointInPolygon(sq, axis, v3.Vec{X: 0.5, Y: 1, Z: 0.5}) {
		t.Error("center of tilted square classified outside")
	}
	if PointInPolygon(sq, axis, v3.Vec{X: 0.5, Y: 3, Z: 0.5}) {
		t.Error("point beyond tilted square classified inside")
	}
}
