package geom

// Rotation is a clockwise rotation applied to the decoded file to obtain the
// displayed source image. Only right angles are supported.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is one of the supported right angles.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// Rotated returns the dimensions of a file of size s once r is applied.
func (r Rotation) Rotated(s Size) Size {
	if r.SwapsAxes() {
		return Size{W: s.H, H: s.W}
	}
	return s
}

// FileRect maps a rectangle in rotated source space back to the unrotated
// file. file is the unrotated file size.
func FileRect(s Rect, r Rotation, file Size) Rect {
	w, h := file.W, file.H
	switch r {
	case Rotate90:
		return Rect{Left: s.Top, Top: h - s.Right, Right: s.Bottom, Bottom: h - s.Left}
	case Rotate180:
		return Rect{Left: w - s.Right, Top: h - s.Bottom, Right: w - s.Left, Bottom: h - s.Top}
	case Rotate270:
		return Rect{Left: w - s.Bottom, Top: s.Left, Right: w - s.Top, Bottom: s.Right}
	default:
		return s
	}
}
