// Package image provides the pixel buffers that hold decoded tiles.
//
// Buffers are pooled by size and format: a pyramid repeatedly decodes tiles
// of the same few dimensions, so returning a buffer to the pool the moment a
// tile goes off screen keeps the heap flat while the user pans and zooms.
package image

// Format is a pixel layout.
type Format uint8

const (
	// FormatRGBAPremul is the layout of image.RGBA. All decoded tiles use it.
	FormatRGBAPremul Format = iota

	// FormatRGBA8 is the layout of image.NRGBA.
	FormatRGBA8

	// FormatGray8 is the layout of image.Gray.
	FormatGray8
)

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f <= FormatGray8
}

// BytesPerPixel returns the pixel size, or 0 for an unknown format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBAPremul, FormatRGBA8:
		return 4
	case FormatGray8:
		return 1
	}
	return 0
}

// RowBytes returns the size of a tightly packed row.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes returns the size of a tightly packed width x height buffer.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
