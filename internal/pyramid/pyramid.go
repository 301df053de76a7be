// Package pyramid maintains the multi-resolution tile grid of one image.
//
// A pyramid holds one level per power-of-two sample size, from the base
// level (the coarsest, always kept in memory) down to sample size 1 (full
// resolution). Each level tiles the rotated source extent exactly. Refresh
// decides which tiles of the level matching the current scale are needed,
// and releases pixels nobody will draw.
//
// A Pyramid is owned by the rendering goroutine and is not safe for
// concurrent use. Decode goroutines only read the immutable rectangles of a
// tile, copied when the decode is scheduled.
package pyramid

import (
	"slices"

	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/image"
)

// viewOversize is how far past the viewport a finer-than-base tile may
// extend on one axis before the level is subdivided further.
const viewOversize = 1.25

// Tile is one rectangle of one pyramid level.
type Tile struct {
	// SampleSize is the power-of-two subsample factor of the level.
	SampleSize int

	// SRect is the tile extent in rotated source space.
	SRect geom.Rect

	// FileRect is SRect mapped back to the unrotated file.
	FileRect geom.Rect

	// Buf holds the decoded pixels, already rotated. Nil until loaded and
	// after release.
	Buf *image.ImageBuf

	// Loading is set while a decode request is outstanding.
	Loading bool

	// Visible is set when the tile is wanted on screen.
	Visible bool
}

// Ready reports whether the tile has pixels that can be drawn.
func (t *Tile) Ready() bool {
	return t.Buf != nil && !t.Loading
}

// Params describes the image and limits a pyramid is built for.
type Params struct {
	// Source is the unrotated file size.
	Source   geom.Size
	Rotation geom.Rotation

	// View is the viewport size.
	View geom.Size

	// MaxTile is the largest tile, after sampling, the decoder accepts.
	MaxTile geom.Size

	// BaseSampleSize is the sample size of the coarsest level.
	BaseSampleSize int
}

// Pyramid is the set of tile levels for one image.
type Pyramid struct {
	levels  map[int][]*Tile
	order   []int // sample sizes, coarsest first
	base    int
	rotated geom.Size
	pool    *image.Pool
}

// Build constructs every level from p.BaseSampleSize down to 1. Buffers
// released by the pyramid go back to pool; nil uses the default pool.
func Build(p Params, pool *image.Pool) *Pyramid {
	if pool == nil {
		pool = image.Default()
	}
	base := max(1, p.BaseSampleSize)
	rotated := p.Rotation.Rotated(p.Source)
	maxTile := geom.Size{W: max(1, p.MaxTile.W), H: max(1, p.MaxTile.H)}

	py := &Pyramid{
		levels:  make(map[int][]*Tile),
		base:    base,
		rotated: rotated,
		pool:    pool,
	}

	for sample := base; sample >= 1; sample /= 2 {
		finer := sample < base
		xTiles := tileCount(rotated.W, sample, maxTile.W, p.View.W, finer)
		yTiles := tileCount(rotated.H, sample, maxTile.H, p.View.H, finer)

		grid := make([]*Tile, 0, xTiles*yTiles)
		for x := range xTiles {
			left, right := span(rotated.W, xTiles, x)
			for y := range yTiles {
				top, bottom := span(rotated.H, yTiles, y)
				sRect := geom.R(left, top, right, bottom)
				grid = append(grid, &Tile{
					SampleSize: sample,
					SRect:      sRect,
					FileRect:   geom.FileRect(sRect, p.Rotation, p.Source),
					Visible:    sample == base,
				})
			}
		}
		py.levels[sample] = grid
		py.order = append(py.order, sample)
	}
	return py
}

// tileCount returns how many tiles an axis of length extent needs at the
// given sample size. The last tile absorbs the remainder, so it is the one
// checked against the limits.
func tileCount(extent, sample, maxTile, view int, finer bool) int {
	n := 1
	for n < extent {
		last := extent - (n-1)*(extent/n)
		sampled := ceilDiv(last, sample)
		if sampled <= maxTile && (!finer || float64(sampled) <= float64(view)*viewOversize) {
			break
		}
		n++
	}
	return n
}

// span returns the bounds of tile i of n along an axis of length extent.
func span(extent, n, i int) (lo, hi int) {
	size := extent / n
	lo = i * size
	hi = lo + size
	if i == n-1 {
		hi = extent
	}
	return lo, hi
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// BaseSampleSize returns the sample size of the base level.
func (p *Pyramid) BaseSampleSize() int {
	return p.base
}

// Rotated returns the rotated source size the pyramid covers.
func (p *Pyramid) Rotated() geom.Size {
	return p.rotated
}

// Levels returns the sample sizes of all levels, coarsest first.
func (p *Pyramid) Levels() []int {
	return slices.Clone(p.order)
}

// Level returns the tiles of one level, or nil if there is no such level.
// The slice is owned by the pyramid.
func (p *Pyramid) Level(sampleSize int) []*Tile {
	return p.levels[sampleSize]
}

// Base returns the tiles of the base level.
func (p *Pyramid) Base() []*Tile {
	return p.levels[p.base]
}

// ClampSampleSize floors a computed sample size to the base level so the
// pyramid is never asked for a level it does not have.
func (p *Pyramid) ClampSampleSize(s int) int {
	return min(p.base, max(1, s))
}

// BaseLayerReady reports whether every base tile has pixels.
func (p *Pyramid) BaseLayerReady() bool {
	for _, t := range p.Base() {
		if t.Buf == nil {
			return false
		}
	}
	return true
}

// Release returns every buffer to the pool and forgets outstanding loads.
// The pyramid must not be used afterwards.
func (p *Pyramid) Release() {
	for _, sample := range p.order {
		for _, t := range p.levels[sample] {
			p.release(t)
			t.Loading = false
			t.Visible = false
		}
	}
}

func (p *Pyramid) release(t *Tile) {
	if t.Buf != nil {
		p.pool.Put(t.Buf)
		t.Buf = nil
	}
}
