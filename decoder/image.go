package decoder

import (
	"context"
	"fmt"
	"image"

	// Formats understood by ImageDecoder.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDecoder is the reference RegionDecoder. It decodes the whole file
// with image.Decode on Init and serves regions from memory, so it suits
// images that fit in RAM. Hosts with truly huge images plug in a backend
// that decodes regions from disk.
//
// Supported formats: JPEG, PNG, GIF, BMP, TIFF and WebP.
type ImageDecoder struct {
	// Interpolator scales subsampled regions. Nil means draw.ApproxBiLinear.
	Interpolator draw.Interpolator

	// MaxTile, when positive, caps the tile edge reported by MaxTileSize.
	MaxTile int

	// Cache, when set, is consulted before decoding and filled after.
	Cache *ImageCache

	img    image.Image
	format string
}

// NewImageDecoder returns a RegionDecoder using the default settings. It has
// the signature of a Factory.
func NewImageDecoder() RegionDecoder {
	return &ImageDecoder{}
}

// Init decodes src, or takes it from the cache.
func (d *ImageDecoder) Init(ctx context.Context, src Source) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if d.Cache != nil {
		if hit, ok := d.Cache.get(src.Name()); ok {
			d.img, d.format = hit.img, hit.format
			b := hit.img.Bounds()
			return b.Dx(), b.Dy(), nil
		}
	}
	rc, err := src.Open()
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = rc.Close() }()

	img, format, err := image.Decode(rc)
	if err != nil {
		return 0, 0, fmt.Errorf("decoder: decode %s: %w", src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	d.img = img
	d.format = format
	if d.Cache != nil {
		d.Cache.put(src.Name(), decoded{img: img, format: format})
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Format returns the name of the decoded format, such as "jpeg".
func (d *ImageDecoder) Format() string {
	return d.format
}

// DecodeRegion returns r subsampled by sampleSize as an *image.RGBA.
func (d *ImageDecoder) DecodeRegion(ctx context.Context, r image.Rectangle, sampleSize int) (image.Image, error) {
	if d.img == nil {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := d.img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	sampleSize = max(1, sampleSize)

	w := (r.Dx() + sampleSize - 1) / sampleSize
	h := (r.Dy() + sampleSize - 1) / sampleSize
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if sampleSize == 1 {
		draw.Draw(dst, dst.Bounds(), d.img, r.Min, draw.Src)
		return dst, nil
	}

	interp := d.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	interp.Scale(dst, dst.Bounds(), d.img, r, draw.Src, nil)
	return dst, nil
}

// IsReady reports whether an image is loaded.
func (d *ImageDecoder) IsReady() bool {
	return d.img != nil
}

// Recycle drops the decoded image.
func (d *ImageDecoder) Recycle() {
	d.img = nil
}

// MaxTileSize implements Limiter.
func (d *ImageDecoder) MaxTileSize() image.Point {
	if d.MaxTile > 0 {
		return image.Pt(d.MaxTile, d.MaxTile)
	}
	return image.Pt(DefaultMaxTileSize, DefaultMaxTileSize)
}
