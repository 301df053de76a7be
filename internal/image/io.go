package image

import (
	"image"

	"golang.org/x/image/draw"
)

// FromStdImage copies img into a premultiplied RGBA buffer taken from pool.
// A nil pool allocates a fresh buffer. Returns nil for an empty image.
func FromStdImage(img image.Image, pool *Pool) *ImageBuf {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var buf *ImageBuf
	if pool != nil {
		buf = pool.Get(width, height, FormatRGBAPremul)
	} else {
		buf, _ = NewImageBuf(width, height, FormatRGBAPremul)
	}
	if buf == nil {
		return nil
	}

	// Fast path: rows are already in the target layout.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := range height {
			srcStart := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), rgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	draw.Draw(buf.rgba(), buf.Rect(), img, bounds.Min, draw.Src)
	return buf
}

// ToStdImage returns a standard library view of the buffer. The view shares
// pixel memory with b, so it must not be used after b is returned to a pool.
func (b *ImageBuf) ToStdImage() image.Image {
	switch b.format {
	case FormatRGBA8:
		return &image.NRGBA{Pix: b.data, Stride: b.stride, Rect: b.Rect()}
	case FormatGray8:
		return &image.Gray{Pix: b.data, Stride: b.stride, Rect: b.Rect()}
	default:
		return b.rgba()
	}
}

func (b *ImageBuf) rgba() *image.RGBA {
	return &image.RGBA{Pix: b.data, Stride: b.stride, Rect: b.Rect()}
}
