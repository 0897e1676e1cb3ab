// Package geometry holds the pure coordinate math used by the canvas: bounds,
// resize handles, marquee hit testing and point-cloud bounding boxes.
//
// All values are scene units in float64. Nothing here rounds.
package geometry

import "math"

// Point is a position in scene (or device) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// ManhattanDistance returns |dx| + |dy|.
func ManhattanDistance(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// XYWH is an axis-aligned box. Width and Height are never negative for boxes
// produced by this package.
type XYWH struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r XYWH) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r XYWH) Bottom() float64 { return r.Y + r.Height }

// Contains checks if a point is inside the box, edges included.
func (r XYWH) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// IsEmpty checks if the box has zero area.
func (r XYWH) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest box containing both boxes.
func (r XYWH) Union(other XYWH) XYWH {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.Right(), other.Right())
	maxY := max(r.Bottom(), other.Bottom())

	return XYWH{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the box.
func (r XYWH) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translate returns the box moved by d.
func (r XYWH) Translate(d Point) XYWH {
	r.X += d.X
	r.Y += d.Y
	return r
}

// IntersectsRect reports whether rect overlaps layer at all. Touching edges do
// not count; partial overlap and full containment (either way) do.
func IntersectsRect(layer, rect XYWH) bool {
	return rect.X+rect.Width > layer.X &&
		rect.X < layer.X+layer.Width &&
		rect.Y+rect.Height > layer.Y &&
		rect.Y < layer.Y+layer.Height
}

// BoundingBoxOfPoints returns the min/max box around points. An empty slice
// yields the zero box.
func BoundingBoxOfPoints(points []Point) XYWH {
	if len(points) == 0 {
		return XYWH{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	return XYWH{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ConstrainedBox is the box dragged out from origin to current. With square
// set both sides take the larger extent and the box still grows from origin
// toward current.
func ConstrainedBox(origin, current Point, square bool) XYWH {
	dx := current.X - origin.X
	dy := current.Y - origin.Y
	if square {
		side := max(math.Abs(dx), math.Abs(dy))
		dx = math.Copysign(side, dx)
		dy = math.Copysign(side, dy)
	}
	return BoundingBoxOfPoints([]Point{origin, {X: origin.X + dx, Y: origin.Y + dy}})
}
