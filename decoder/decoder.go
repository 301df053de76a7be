// Package decoder defines the decode backend used by tileview and ships a
// reference implementation built on the standard image packages and
// golang.org/x/image.
//
// A backend opens a Source once, reports its dimensions, and then decodes
// rectangular regions of the file at a power-of-two subsample factor. The
// viewer serializes all calls to one backend, so implementations need not be
// safe for concurrent use.
package decoder

import (
	"context"
	"errors"
	"image"
)

// DefaultMaxTileSize is the largest tile edge, in decoded pixels, requested
// from a backend that does not implement Limiter.
const DefaultMaxTileSize = 2048

var (
	// ErrNotReady is returned by DecodeRegion before Init succeeds or after
	// Recycle.
	ErrNotReady = errors.New("decoder: not ready")

	// ErrEmptyRegion is returned when the requested region does not overlap
	// the image.
	ErrEmptyRegion = errors.New("decoder: empty region")
)

// RegionDecoder decodes rectangular regions of one image.
type RegionDecoder interface {
	// Init opens src and returns its unrotated dimensions.
	Init(ctx context.Context, src Source) (width, height int, err error)

	// DecodeRegion decodes r, given in file pixels, subsampled by
	// sampleSize. The result is roughly r.Dx()/sampleSize by
	// r.Dy()/sampleSize pixels.
	DecodeRegion(ctx context.Context, r image.Rectangle, sampleSize int) (image.Image, error)

	// IsReady reports whether the decoder can serve DecodeRegion.
	IsReady() bool

	// Recycle releases resources. The decoder is not used afterwards.
	Recycle()
}

// Limiter is implemented by decoders that cannot produce tiles of any size.
type Limiter interface {
	// MaxTileSize returns the largest width and height of a decoded tile.
	MaxTileSize() image.Point
}

// Factory creates a fresh decoder for each image load.
type Factory func() RegionDecoder

// MaxTileSize returns the tile size limit of d.
func MaxTileSize(d RegionDecoder) image.Point {
	if l, ok := d.(Limiter); ok {
		if p := l.MaxTileSize(); p.X > 0 && p.Y > 0 {
			return p
		}
	}
	return image.Pt(DefaultMaxTileSize, DefaultMaxTileSize)
}
