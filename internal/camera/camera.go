// Package camera is the client-local pan/zoom view onto the scene.
package camera

import (
	"github.com/inamate/canvas/internal/geometry"
)

const (
	MinZoom float64 = 0.02
	MaxZoom float64 = 10

	// Bounds of the stepped zoom used by the toolbar and Ctrl +/- hotkeys.
	MinStepZoom float64 = 0.2
	MaxStepZoom float64 = 3
	ZoomStep    float64 = 0.1
)

// Camera maps scene space to device pixels: device = scene*Zoom + (X, Y).
type Camera struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// New returns the identity camera.
func New() Camera {
	return Camera{Zoom: 1}
}

// Matrix is the transform the view layer draws the scene with.
func (c Camera) Matrix() geometry.Matrix2D {
	return geometry.ViewMatrix(c.X, c.Y, c.Zoom)
}

// ToScene converts a device position to scene coordinates.
func (c Camera) ToScene(device geometry.Point) geometry.Point {
	return geometry.PointerToScenePoint(device, c.X, c.Y, c.Zoom)
}

// ToDevice converts a scene position to device pixels.
func (c Camera) ToDevice(scene geometry.Point) geometry.Point {
	return c.Matrix().Apply(scene)
}

// Pan shifts the view by a device-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ZoomAt multiplies the zoom by factor, clamped to [MinZoom, MaxZoom], keeping
// the scene point under cursor fixed on screen.
func (c *Camera) ZoomAt(cursor geometry.Point, factor float64) {
	c.setZoomAt(cursor, c.Zoom*factor, MinZoom, MaxZoom)
}

// ZoomIn steps the zoom up, clamped to MaxStepZoom, around cursor.
func (c *Camera) ZoomIn(cursor geometry.Point) {
	c.setZoomAt(cursor, c.Zoom+ZoomStep, MinStepZoom, MaxStepZoom)
}

// ZoomOut steps the zoom down, clamped to MinStepZoom, around cursor.
func (c *Camera) ZoomOut(cursor geometry.Point) {
	c.setZoomAt(cursor, c.Zoom-ZoomStep, MinStepZoom, MaxStepZoom)
}

// Reset returns to 100% without moving the scene origin.
func (c *Camera) Reset() {
	c.Zoom = 1
}

func (c *Camera) setZoomAt(cursor geometry.Point, zoom, lo, hi float64) {
	zoom = min(max(zoom, lo), hi)
	anchor := c.ToScene(cursor)
	c.Zoom = zoom
	c.X = cursor.X - anchor.X*zoom
	c.Y = cursor.Y - anchor.Y*zoom
}
