package geometry

import "math"

// Side is a bitmask naming the edges a resize handle drags.
type Side uint8

const (
	Top    Side = 1
	Bottom Side = 2
	Left   Side = 4
	Right  Side = 8
)

const (
	TopLeft     = Top | Left
	TopRight    = Top | Right
	BottomLeft  = Bottom | Left
	BottomRight = Bottom | Right
)

// Has reports whether every bit of o is set.
func (s Side) Has(o Side) bool { return s&o == o }

// IsCorner reports whether the handle moves one horizontal and one vertical edge.
func (s Side) IsCorner() bool {
	return (s.Has(Left) || s.Has(Right)) && (s.Has(Top) || s.Has(Bottom))
}

// ResizeBounds moves the edges named by corner to point while the opposite
// edges stay put. Dragging past the fixed edge flips the box instead of
// producing a negative size.
//
// With aspectLocked the result keeps the width/height ratio of bounds. A
// corner handle lets whichever axis changed more (relative to its original
// size) drive the other one; an edge handle drives the perpendicular axis,
// which grows symmetrically around its original center.
func ResizeBounds(bounds XYWH, corner Side, point Point, aspectLocked bool) XYWH {
	result := bounds

	// Fixed edges and the direction each moving edge ended up on.
	fixedX, fixedY := bounds.X, bounds.Y
	growLeft, growUp := false, false

	if corner.Has(Left) {
		fixedX = bounds.Right()
		result.X = min(point.X, fixedX)
		result.Width = math.Abs(fixedX - point.X)
		growLeft = point.X <= fixedX
	}
	if corner.Has(Right) {
		fixedX = bounds.X
		result.X = min(point.X, fixedX)
		result.Width = math.Abs(point.X - fixedX)
		growLeft = point.X < fixedX
	}
	if corner.Has(Top) {
		fixedY = bounds.Bottom()
		result.Y = min(point.Y, fixedY)
		result.Height = math.Abs(fixedY - point.Y)
		growUp = point.Y <= fixedY
	}
	if corner.Has(Bottom) {
		fixedY = bounds.Y
		result.Y = min(point.Y, fixedY)
		result.Height = math.Abs(point.Y - fixedY)
		growUp = point.Y < fixedY
	}

	if !aspectLocked || bounds.Width == 0 || bounds.Height == 0 {
		return result
	}

	ratio := bounds.Width / bounds.Height
	horizontal := corner.Has(Left) || corner.Has(Right)
	vertical := corner.Has(Top) || corner.Has(Bottom)

	switch {
	case horizontal && vertical:
		if result.Width/bounds.Width >= result.Height/bounds.Height {
			result.Height = result.Width / ratio
		} else {
			result.Width = result.Height * ratio
		}
		if growLeft {
			result.X = fixedX - result.Width
		} else {
			result.X = fixedX
		}
		if growUp {
			result.Y = fixedY - result.Height
		} else {
			result.Y = fixedY
		}
	case horizontal:
		result.Height = result.Width / ratio
		result.Y = bounds.Center().Y - result.Height/2
	case vertical:
		result.Width = result.Height * ratio
		result.X = bounds.Center().X - result.Width/2
	}

	return result
}

// Flipped reports, per axis, whether resized lies past the edge of bounds that
// corner keeps fixed, i.e. whether the drag turned the box inside out.
func Flipped(bounds, resized XYWH, corner Side) (x, y bool) {
	switch {
	case corner.Has(Right):
		x = resized.X < bounds.X
	case corner.Has(Left):
		x = resized.Right() > bounds.Right()
	}
	switch {
	case corner.Has(Bottom):
		y = resized.Y < bounds.Y
	case corner.Has(Top):
		y = resized.Bottom() > bounds.Bottom()
	}
	return x, y
}
