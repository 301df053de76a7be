// Package geom holds the coordinate model shared by the viewer.
//
// Two spaces are used throughout:
//
//   - view space: pixels of the on-screen viewport, origin at its top-left.
//   - source space: pixels of the rotated source image at full resolution.
//
// A Transform maps between them. Bounds knows the viewport, padding, source
// dimensions and the pan/scale policies and clamps candidate transforms.
// Everything in this package is a value type and free of side effects, so the
// same routines serve both live state and previews of hypothetical states.
package geom

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Mid returns the midpoint between p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Size is an integer width and height.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Padding is the inset of the usable viewport area on each edge, in view pixels.
type Padding struct {
	Left, Top, Right, Bottom int
}

// ratios returns the share of the horizontal and vertical slack that goes to
// the left and top edges. Without padding the slack is split evenly.
func (p Padding) ratios() (x, y float64) {
	x, y = 0.5, 0.5
	if p.Left > 0 || p.Right > 0 {
		x = float64(p.Left) / float64(p.Left+p.Right)
	}
	if p.Top > 0 || p.Bottom > 0 {
		y = float64(p.Top) / float64(p.Top+p.Bottom)
	}
	return x, y
}

// Rect is an integer rectangle in source or file pixels. Right and Bottom are
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// R is a convenience function to create a Rect.
func R(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Touches reports whether the rectangle intersects the floating point
// rectangle v. Shared edges count as touching so that tiles on the border of
// the visible area are loaded before they scroll into view.
func (r Rect) Touches(v RectF) bool {
	return !(v.Left > float64(r.Right) ||
		float64(r.Left) > v.Right ||
		v.Top > float64(r.Bottom) ||
		float64(r.Top) > v.Bottom)
}

// RectF is a floating point rectangle, used for visible areas and view-space
// destinations.
type RectF struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent of the rectangle.
func (r RectF) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r RectF) Height() float64 {
	return r.Bottom - r.Top
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
