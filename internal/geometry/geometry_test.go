package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersectsRect(t *testing.T) {
	layer := XYWH{X: 10, Y: 10, Width: 20, Height: 20}

	tests := []struct {
		name string
		net  XYWH
		want bool
	}{
		{"fully outside", XYWH{X: 50, Y: 50, Width: 10, Height: 10}, false},
		{"touching edge", XYWH{X: 30, Y: 10, Width: 10, Height: 10}, false},
		{"partial overlap", XYWH{X: 25, Y: 25, Width: 20, Height: 20}, true},
		{"net inside layer", XYWH{X: 15, Y: 15, Width: 2, Height: 2}, true},
		{"net contains layer", XYWH{X: 0, Y: 0, Width: 100, Height: 100}, true},
		{"overlap on x only", XYWH{X: 15, Y: 40, Width: 10, Height: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntersectsRect(layer, tt.net))
			assert.Equal(t, tt.want, IntersectsRect(tt.net, layer), "symmetric")
		})
	}
}

func TestBoundingBoxOfPoints(t *testing.T) {
	assert.Equal(t, XYWH{}, BoundingBoxOfPoints(nil))

	got := BoundingBoxOfPoints([]Point{{X: 5, Y: 9}, {X: -3, Y: 2}, {X: 7, Y: 4}})
	assert.Equal(t, XYWH{X: -3, Y: 2, Width: 10, Height: 7}, got)
}

func TestConstrainedBox(t *testing.T) {
	origin := Point{X: 100, Y: 100}

	assert.Equal(t, XYWH{X: 100, Y: 100, Width: 30, Height: 10},
		ConstrainedBox(origin, Point{X: 130, Y: 110}, false))

	// Square grows toward current, anchored at origin.
	assert.Equal(t, XYWH{X: 100, Y: 100, Width: 30, Height: 30},
		ConstrainedBox(origin, Point{X: 130, Y: 110}, true))
	assert.Equal(t, XYWH{X: 70, Y: 100, Width: 30, Height: 30},
		ConstrainedBox(origin, Point{X: 70, Y: 110}, true))
	assert.Equal(t, XYWH{X: 60, Y: 60, Width: 40, Height: 40},
		ConstrainedBox(origin, Point{X: 90, Y: 60}, true))
}

func TestManhattanDistance(t *testing.T) {
	assert.Equal(t, 7.0, ManhattanDistance(Point{X: 1, Y: 1}, Point{X: -2, Y: 5}))
}

func TestUnionAndContains(t *testing.T) {
	a := XYWH{X: 0, Y: 0, Width: 10, Height: 10}
	b := XYWH{X: 20, Y: 5, Width: 5, Height: 20}
	assert.Equal(t, XYWH{X: 0, Y: 0, Width: 25, Height: 25}, a.Union(b))
	assert.True(t, a.Contains(Point{X: 10, Y: 10}))
	assert.False(t, a.Contains(Point{X: 10.5, Y: 3}))
}

func TestViewMatrixRoundTrip(t *testing.T) {
	m := ViewMatrix(-40, 25, 2.5)
	scene := Point{X: 12.25, Y: -7}
	device := m.Apply(scene)
	back := PointerToScenePoint(device, -40, 25, 2.5)
	assert.InDelta(t, scene.X, back.X, 1e-9)
	assert.InDelta(t, scene.Y, back.Y, 1e-9)

	inv := m.Invert().Apply(device)
	assert.InDelta(t, scene.X, inv.X, 1e-9)
	assert.InDelta(t, scene.Y, inv.Y, 1e-9)
}
