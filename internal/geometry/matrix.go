package geometry

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix2D) Apply(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyRect transforms a box and returns its axis-aligned bounding box.
func (m Matrix2D) ApplyRect(r XYWH) XYWH {
	return BoundingBoxOfPoints([]Point{
		m.Apply(Point{X: r.X, Y: r.Y}),
		m.Apply(Point{X: r.Right(), Y: r.Y}),
		m.Apply(Point{X: r.Right(), Y: r.Bottom()}),
		m.Apply(Point{X: r.X, Y: r.Bottom()}),
	})
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// ViewMatrix is the device-space transform used to draw the scene: a scale by
// zoom followed by the camera translation.
func ViewMatrix(tx, ty, zoom float64) Matrix2D {
	return Translate(tx, ty).Multiply(Scale(zoom, zoom))
}

// PointerToScenePoint maps a device-space pointer position into scene
// coordinates. It is the exact inverse of ViewMatrix.
func PointerToScenePoint(device Point, tx, ty, zoom float64) Point {
	return Point{X: (device.X - tx) / zoom, Y: (device.Y - ty) / zoom}
}
