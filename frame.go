package tileview

import "image"

// DrawTile is one decoded tile placed in the view.
type DrawTile struct {
	Source     Rect  // source pixels covered
	Dest       RectF // where they land in view pixels
	SampleSize int

	// Image holds the decoded pixels, already rotated. It shares memory
	// with the viewer and is only valid until the next call to Frame.
	Image image.Image
}

// Frame is what to draw. Tiles are ordered bottom-up: coarse tiles first so
// that finer ones cover them.
type Frame struct {
	Tiles     []DrawTile
	Scale     float64
	Translate Point

	// Animating means the view is moving on its own and another frame
	// should be drawn soon.
	Animating bool

	// Loading means some tiles for the current scale are not decoded yet.
	Loading bool

	Debug *DebugInfo
}

// DebugInfo describes the viewer state for an overlay.
type DebugInfo struct {
	Scale      float64
	MinScale   float64
	MaxScale   float64
	Translate  Point
	Center     Point // source
	SampleSize int

	// Animation markers in view pixels, set while an animation runs.
	Animating              bool
	AnimCenterStart        Point
	AnimCenterEnd          Point
	AnimCenterEndRequested Point

	Tiles []TileDebug
}

// TileDebug describes one tile of the pyramid.
type TileDebug struct {
	Source     Rect
	Dest       RectF
	SampleSize int
	Visible    bool
	Loading    bool
	Loaded     bool
}

// Frame applies decode results, advances any animation and returns what to
// draw. It returns an empty frame until the view has a size and the image
// dimensions are known, and no tiles until the base layer is loaded.
func (v *Viewer) Frame() Frame {
	if v.closed {
		return Frame{}
	}
	v.Pump()
	if !v.inited || v.view.Empty() || v.file.Empty() {
		return Frame{}
	}
	if v.pyr == nil {
		v.initBaseLayer()
	}
	v.preDraw()

	var f Frame
	if a := v.anim; a != nil {
		t, done := a.Step(v.opts.clock(), v.bounds())
		v.transform = t
		v.refresh(done)
		if done {
			v.anim = nil
		} else {
			f.Animating = true
		}
	}

	f.Scale = v.transform.Scale
	f.Translate = v.transform.Translate
	sample := v.sampleSize()
	f.Loading = v.pyr.Missing(sample)

	if v.baseSent {
		for _, t := range v.pyr.DrawOrder(sample) {
			f.Tiles = append(f.Tiles, DrawTile{
				Source:     t.SRect,
				Dest:       v.transform.RectToView(t.SRect),
				SampleSize: t.SampleSize,
				Image:      t.Buf.ToStdImage(),
			})
		}
	}
	if v.opts.debug {
		f.Debug = v.debugInfo(sample)
	}
	return f
}

func (v *Viewer) debugInfo(sample int) *DebugInfo {
	d := &DebugInfo{
		Scale:      v.transform.Scale,
		MinScale:   v.MinScale(),
		MaxScale:   v.MaxScale(),
		Translate:  v.transform.Translate,
		Center:     v.Center(),
		SampleSize: sample,
	}
	if a := v.anim; a != nil {
		d.Animating = true
		d.AnimCenterStart = v.transform.ToView(a.CenterStart)
		d.AnimCenterEnd = v.transform.ToView(a.CenterEnd)
		d.AnimCenterEndRequested = v.transform.ToView(a.CenterEndRequested)
	}
	for _, level := range v.pyr.Levels() {
		for _, t := range v.pyr.Level(level) {
			d.Tiles = append(d.Tiles, TileDebug{
				Source:     t.SRect,
				Dest:       v.transform.RectToView(t.SRect),
				SampleSize: t.SampleSize,
				Visible:    t.Visible,
				Loading:    t.Loading,
				Loaded:     t.Buf != nil,
			})
		}
	}
	return d
}

// MeasuredSize returns the size the view should take in a layout that
// offers width x height. A dimension that is not fixed follows the image:
// with neither fixed the view takes the rotated image size, with one fixed
// the other keeps the image's aspect ratio. Until the image dimensions are
// known the offer is returned unchanged.
func (v *Viewer) MeasuredSize(width, height int, fixedWidth, fixedHeight bool) (int, int) {
	rot := v.rotation.Rotated(v.file)
	if rot.Empty() {
		return width, height
	}
	switch {
	case !fixedWidth && !fixedHeight:
		return rot.W, rot.H
	case !fixedHeight:
		height = int(float64(rot.H) / float64(rot.W) * float64(width))
	case !fixedWidth:
		width = int(float64(rot.W) / float64(rot.H) * float64(height))
	}
	return width, height
}
