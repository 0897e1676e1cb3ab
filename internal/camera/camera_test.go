package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/canvas/internal/geometry"
)

func TestToSceneInvertsMatrix(t *testing.T) {
	c := Camera{X: 120, Y: -30, Zoom: 1.75}
	scene := geometry.Point{X: 33.5, Y: 71}
	back := c.ToScene(c.ToDevice(scene))
	assert.InDelta(t, scene.X, back.X, 1e-9)
	assert.InDelta(t, scene.Y, back.Y, 1e-9)
}

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	c := New()
	c.Pan(40, 10)
	cursor := geometry.Point{X: 300, Y: 200}
	before := c.ToScene(cursor)

	c.ZoomAt(cursor, 2)
	assert.Equal(t, 2.0, c.Zoom)
	after := c.ToScene(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomClamps(t *testing.T) {
	c := New()
	c.ZoomAt(geometry.Point{}, 1000)
	assert.Equal(t, MaxZoom, c.Zoom)
	c.ZoomAt(geometry.Point{}, 1e-9)
	assert.Equal(t, MinZoom, c.Zoom)

	c = New()
	for range 50 {
		c.ZoomIn(geometry.Point{})
	}
	assert.Equal(t, MaxStepZoom, c.Zoom)
	for range 50 {
		c.ZoomOut(geometry.Point{})
	}
	assert.Equal(t, MinStepZoom, c.Zoom)

	c.Reset()
	assert.Equal(t, 1.0, c.Zoom)
}
