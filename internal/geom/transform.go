package geom

// Transform maps source pixels to view pixels:
//
//	view = source*Scale + Translate
//
// Translate is the view-space position of the source origin. The zero value
// is an uninitialized transform; see Valid.
type Transform struct {
	Scale     float64
	Translate Point
}

// Valid reports whether the transform can be inverted. A transform is not
// valid until the viewport has been laid out for the first time.
func (t Transform) Valid() bool {
	return t.Scale > 0 && isFinite(t.Scale) && t.Translate.IsFinite()
}

// ToSource converts a view-space point to source space.
// The result is meaningless unless t is Valid.
func (t Transform) ToSource(v Point) Point {
	return Point{
		X: (v.X - t.Translate.X) / t.Scale,
		Y: (v.Y - t.Translate.Y) / t.Scale,
	}
}

// ToView converts a source-space point to view space.
func (t Transform) ToView(s Point) Point {
	return Point{
		X: s.X*t.Scale + t.Translate.X,
		Y: s.Y*t.Scale + t.Translate.Y,
	}
}

// RectToView converts a source rectangle to its view-space destination.
func (t Transform) RectToView(r Rect) RectF {
	tl := t.ToView(Pt(float64(r.Left), float64(r.Top)))
	br := t.ToView(Pt(float64(r.Right), float64(r.Bottom)))
	return RectF{Left: tl.X, Top: tl.Y, Right: br.X, Bottom: br.Y}
}

// VisibleSource returns the part of source space currently covered by a
// viewport of the given size.
func (t Transform) VisibleSource(view Size) RectF {
	tl := t.ToSource(Pt(0, 0))
	br := t.ToSource(Pt(float64(view.W), float64(view.H)))
	return RectF{Left: tl.X, Top: tl.Y, Right: br.X, Bottom: br.Y}
}

// CenterAt returns the translate that places source point s at view point v
// for the given scale.
func CenterAt(s, v Point, scale float64) Point {
	return Point{X: v.X - s.X*scale, Y: v.Y - s.Y*scale}
}
