package tileview

import (
	"math"

	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/gesture"
)

// --- Limits ---

// SetPanLimit sets how far the image may be panned.
func (v *Viewer) SetPanLimit(l PanLimit) error {
	if !l.Valid() {
		return invalidf("pan limit %d", l)
	}
	v.panLimit = l
	v.refit()
	return nil
}

// SetMinimumScaleType sets how the minimum scale is derived.
func (v *Viewer) SetMinimumScaleType(t ScaleType) error {
	if !t.Valid() {
		return invalidf("scale type %d", t)
	}
	v.scaleType = t
	v.refit()
	return nil
}

// SetMinScale sets the minimum scale used with ScaleTypeCustom.
func (v *Viewer) SetMinScale(scale float64) error {
	if !positive(scale) {
		return invalidf("min scale %v", scale)
	}
	v.minScale = scale
	v.refit()
	return nil
}

// SetMaxScale sets the maximum scale. If the minimum scale ends up larger,
// the minimum wins.
func (v *Viewer) SetMaxScale(scale float64) error {
	if !positive(scale) {
		return invalidf("max scale %v", scale)
	}
	v.maxScale = scale
	v.refit()
	return nil
}

// SetMinimumDPI sets the maximum scale as the density the image may be
// shown at: 160 allows zooming in until one image pixel covers one dp.
func (v *Viewer) SetMinimumDPI(dpi float64) error {
	if !positive(dpi) {
		return invalidf("minimum DPI %v", dpi)
	}
	return v.SetMaxScale(v.opts.dpi / dpi)
}

// SetMaximumDPI sets the custom minimum scale as a density. It only has an
// effect with ScaleTypeCustom.
func (v *Viewer) SetMaximumDPI(dpi float64) error {
	if !positive(dpi) {
		return invalidf("maximum DPI %v", dpi)
	}
	return v.SetMinScale(v.opts.dpi / dpi)
}

// SetMinimumTileDPI lowers the resolution tiles are decoded at, saving
// memory on dense displays. Values above the display density are capped
// to it; 0 decodes at full display density. Loaded tiles are discarded.
func (v *Viewer) SetMinimumTileDPI(dpi float64) error {
	if dpi < 0 || math.IsNaN(dpi) {
		return invalidf("minimum tile DPI %v", dpi)
	}
	v.minTileDPI = math.Min(v.opts.dpi, dpi)
	if v.IsReady() {
		v.resetView(false)
	}
	return nil
}

// --- Gestures ---

func (v *Viewer) updateGestures(fn func(*gesture.Config)) {
	cfg := v.gestures.Config()
	fn(&cfg)
	v.gestures.SetConfig(cfg)
}

// SetPanEnabled enables one-finger panning. Disabling it centers the image,
// and zooming then pivots on the center last set from code.
func (v *Viewer) SetPanEnabled(on bool) {
	v.updateGestures(func(c *gesture.Config) { c.PanEnabled = on })
	if !on && v.IsReady() {
		b := v.bounds()
		rot := b.Rotated()
		c := geom.Pt(float64(rot.W)/2, float64(rot.H)/2)
		v.transform.Translate = geom.CenterAt(c, b.ViewCenter(), v.transform.Scale)
		v.refresh(true)
	}
}

// PanEnabled reports whether panning is enabled.
func (v *Viewer) PanEnabled() bool {
	return v.gestures.Config().PanEnabled
}

// SetZoomEnabled enables pinch and double-tap zoom.
func (v *Viewer) SetZoomEnabled(on bool) {
	v.updateGestures(func(c *gesture.Config) { c.ZoomEnabled = on })
}

// ZoomEnabled reports whether zooming is enabled.
func (v *Viewer) ZoomEnabled() bool {
	return v.gestures.Config().ZoomEnabled
}

// SetQuickScaleEnabled enables zooming by double tapping and dragging up or
// down. It needs zoom to be enabled to have an effect.
func (v *Viewer) SetQuickScaleEnabled(on bool) {
	v.updateGestures(func(c *gesture.Config) { c.QuickScaleEnabled = on })
}

// QuickScaleEnabled reports whether quick scale is enabled.
func (v *Viewer) QuickScaleEnabled() bool {
	return v.gestures.Config().QuickScaleEnabled
}

// SetDoubleTapZoomStyle sets where a double tap zooms to.
func (v *Viewer) SetDoubleTapZoomStyle(s ZoomStyle) error {
	if !s.Valid() {
		return invalidf("zoom style %d", s)
	}
	v.updateGestures(func(c *gesture.Config) { c.ZoomStyle = s })
	return nil
}

// SetDoubleTapZoomScale sets the scale a double tap zooms in to. It is
// capped by the maximum scale.
func (v *Viewer) SetDoubleTapZoomScale(scale float64) error {
	if !positive(scale) {
		return invalidf("double tap zoom scale %v", scale)
	}
	v.updateGestures(func(c *gesture.Config) { c.DoubleTapScale = scale })
	return nil
}

// SetDoubleTapZoomDPI sets the double tap zoom scale as a density.
func (v *Viewer) SetDoubleTapZoomDPI(dpi float64) error {
	if !positive(dpi) {
		return invalidf("double tap zoom DPI %v", dpi)
	}
	return v.SetDoubleTapZoomScale(v.opts.dpi / dpi)
}

// --- Orientation ---

// SetOrientation sets the rotation of the image. Changing it reloads the
// image and resets the scale and center.
func (v *Viewer) SetOrientation(o Orientation) error {
	if !o.Valid() {
		return invalidf("orientation %d", o)
	}
	if o == v.orientation {
		return nil
	}
	v.orientation = o
	if v.src != nil && !v.closed {
		v.resetView(false)
		v.start()
	}
	return nil
}

// --- Scale and center ---

// SetScaleAndCenter moves to scale with source point center in the middle
// of the view, on the next frame. Any animation stops. The center also
// becomes the zoom pivot while panning is disabled.
func (v *Viewer) SetScaleAndCenter(scale float64, center Point) {
	v.anim = nil
	v.setPending(scale, center)
	v.requested = center
	v.hasRequested = true
}

// ResetScaleAndCenter returns to the minimum scale with the image centered,
// on the next frame.
func (v *Viewer) ResetScaleAndCenter() {
	v.anim = nil
	v.pending = &pending{reset: true}
}

// SetDebug switches the DebugInfo attached to frames.
func (v *Viewer) SetDebug(on bool) {
	v.opts.debug = on
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
