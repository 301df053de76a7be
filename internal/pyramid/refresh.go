package pyramid

import (
	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/image"
)

// Refresh updates visibility for the level at sampleSize given the visible
// source rectangle, and releases pixels that will not be drawn:
//
//   - tiles finer than the selected level, and coarser ones other than the
//     base, become invisible and lose their pixels;
//   - selected tiles touching visible become visible, the rest invisible and
//     released unless they belong to the base level;
//   - base tiles are always visible and keep their pixels.
//
// When load is true, visible selected tiles without pixels that are not
// already loading are marked loading and returned so the caller can request
// their decode. The returned tiles are in level order.
func (p *Pyramid) Refresh(visible geom.RectF, sampleSize int, load bool) []*Tile {
	sampleSize = p.ClampSampleSize(sampleSize)

	var requests []*Tile
	for _, level := range p.order {
		for _, t := range p.levels[level] {
			switch {
			case level < sampleSize || (level > sampleSize && level != p.base):
				t.Visible = false
				p.release(t)

			case level == sampleSize:
				if t.SRect.Touches(visible) {
					t.Visible = true
					if load && !t.Loading && t.Buf == nil {
						t.Loading = true
						requests = append(requests, t)
					}
				} else if level != p.base {
					t.Visible = false
					p.release(t)
				}

			default: // base level, coarser than the selection
				t.Visible = true
			}
		}
	}
	return requests
}

// Missing reports whether any visible tile of the level at sampleSize is
// still loading or has no pixels.
func (p *Pyramid) Missing(sampleSize int) bool {
	for _, t := range p.levels[p.ClampSampleSize(sampleSize)] {
		if t.Visible && (t.Loading || t.Buf == nil) {
			return true
		}
	}
	return false
}

// DrawOrder returns the tiles to composite, bottom-up: coarsest level first.
// Only the selected level is drawn unless one of its visible tiles is
// missing, in which case every level with pixels is drawn so that coarser
// tiles fill the gap.
func (p *Pyramid) DrawOrder(sampleSize int) []*Tile {
	sampleSize = p.ClampSampleSize(sampleSize)
	all := p.Missing(sampleSize)

	var out []*Tile
	for _, level := range p.order {
		if level != sampleSize && !all {
			continue
		}
		for _, t := range p.levels[level] {
			if t.Ready() {
				out = append(out, t)
			}
		}
	}
	return out
}

// Loaded stores the decoded pixels of t and clears its loading flag. If the
// tile stopped being wanted while the decode ran, the buffer goes straight
// back to the pool. It reports whether the buffer was kept.
func (p *Pyramid) Loaded(t *Tile, buf *image.ImageBuf) bool {
	t.Loading = false
	if buf == nil {
		return false
	}
	if !t.Visible && t.SampleSize != p.base {
		p.pool.Put(buf)
		return false
	}
	p.release(t)
	t.Buf = buf
	return true
}

// Failed clears the loading flag of t so the next Refresh retries it.
func (p *Pyramid) Failed(t *Tile) {
	t.Loading = false
}

// Contains reports whether t belongs to this pyramid.
func (p *Pyramid) Contains(t *Tile) bool {
	for _, c := range p.levels[t.SampleSize] {
		if c == t {
			return true
		}
	}
	return false
}
