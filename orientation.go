package tileview

import "github.com/gogpu/tileview/internal/geom"

// Orientation is the rotation applied to an image before display, in
// degrees clockwise.
type Orientation int

const (
	// OrientationEXIF reads the rotation from the image's EXIF data when it
	// is loaded. Images without usable EXIF data are shown unrotated.
	OrientationEXIF Orientation = -1

	Orientation0   Orientation = 0
	Orientation90  Orientation = 90
	Orientation180 Orientation = 180
	Orientation270 Orientation = 270
)

// Valid reports whether o is one of the defined orientations.
func (o Orientation) Valid() bool {
	return o == OrientationEXIF || geom.Rotation(o).Valid()
}

func (o Orientation) String() string {
	switch o {
	case OrientationEXIF:
		return "exif"
	case Orientation0:
		return "0"
	case Orientation90:
		return "90"
	case Orientation180:
		return "180"
	case Orientation270:
		return "270"
	default:
		return "unknown"
	}
}
