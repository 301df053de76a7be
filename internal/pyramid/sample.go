package pyramid

import (
	"math"

	"github.com/gogpu/tileview/internal/geom"
)

// Density adjusts sample size selection. When MinimumTileDPI is positive,
// tiles are requested at MinimumTileDPI/DisplayDPI of the on-screen
// resolution, trading sharpness for memory.
type Density struct {
	MinimumTileDPI float64
	DisplayDPI     float64
}

// SampleSize returns the power-of-two subsample factor needed to render an
// image of the given rotated size at scale. The result never increases as
// scale grows.
func SampleSize(rotated geom.Size, scale float64, d Density) int {
	adjusted := scale
	if d.MinimumTileDPI > 0 && d.DisplayDPI > 0 {
		adjusted = d.MinimumTileDPI / d.DisplayDPI * scale
	}
	if !(adjusted > 0) || math.IsInf(adjusted, 0) {
		adjusted = math.SmallestNonzeroFloat64
	}

	reqW := math.Max(1, math.Floor(float64(rotated.W)*adjusted))
	reqH := math.Max(1, math.Floor(float64(rotated.H)*adjusted))

	ratio := 1.0
	if float64(rotated.H) > reqH || float64(rotated.W) > reqW {
		ratio = math.Min(
			math.Round(float64(rotated.H)/reqH),
			math.Round(float64(rotated.W)/reqW),
		)
	}

	// Largest power of two strictly below ratio, or 1. Equivalently the
	// smallest power of two not below ratio/2.
	power := 1
	for float64(power*2) < ratio && power < maxSampleSize {
		power *= 2
	}
	return power
}

// maxSampleSize bounds the subsample factor; no real image needs more.
const maxSampleSize = 1 << 20

// BaseSampleSize returns the sample size of the base layer for an image first
// shown at initialScale. The base layer is decoded at twice the resolution
// the initial scale strictly needs.
func BaseSampleSize(rotated geom.Size, initialScale float64, d Density) int {
	s := SampleSize(rotated, initialScale, d)
	if s > 1 {
		s /= 2
	}
	return s
}
