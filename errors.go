package tileview

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by setters and New when a value is
	// out of range. The returned error wraps it with the offending value.
	ErrInvalidConfiguration = errors.New("tileview: invalid configuration")

	// ErrNotReady is returned when an operation needs a displayed image.
	ErrNotReady = errors.New("tileview: image not ready")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("tileview: viewer closed")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}

// InitializationError reports that the decoder could not open an image. It
// is delivered once per image and the image is not retried.
type InitializationError struct {
	Source string
	Err    error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("tileview: initialize %s: %v", e.Source, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// TileDecodeError reports a failed tile decode. The tile stays eligible and
// is requested again the next time it is needed.
type TileDecodeError struct {
	Rect       Rect // source rectangle of the tile
	SampleSize int
	Err        error
}

func (e *TileDecodeError) Error() string {
	return fmt.Sprintf("tileview: decode tile %d,%d-%d,%d at sample size %d: %v",
		e.Rect.Left, e.Rect.Top, e.Rect.Right, e.Rect.Bottom, e.SampleSize, e.Err)
}

func (e *TileDecodeError) Unwrap() error { return e.Err }
