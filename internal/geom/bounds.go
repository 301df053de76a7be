package geom

import "math"

// PanLimit selects how far the image may be panned.
type PanLimit int

const (
	// PanLimitInside keeps as much of the image as possible on screen and
	// centers it along any axis where it is smaller than the viewport.
	PanLimitInside PanLimit = iota + 1

	// PanLimitOutside lets the image be panned until an edge is flush with
	// the opposite edge of the viewport, but no further.
	PanLimitOutside

	// PanLimitCenter lets any point of the image, corners included, be
	// brought to the center of the viewport.
	PanLimitCenter
)

// Valid reports whether l is a known pan limit.
func (l PanLimit) Valid() bool {
	return l >= PanLimitInside && l <= PanLimitCenter
}

// String returns the name of the pan limit.
func (l PanLimit) String() string {
	switch l {
	case PanLimitInside:
		return "inside"
	case PanLimitOutside:
		return "outside"
	case PanLimitCenter:
		return "center"
	default:
		return "unknown"
	}
}

// ScaleType selects how the minimum scale is derived.
type ScaleType int

const (
	// ScaleTypeCenterInside fits the whole image inside the viewport.
	ScaleTypeCenterInside ScaleType = iota + 1

	// ScaleTypeCenterCrop fills the viewport, cropping one axis.
	ScaleTypeCenterCrop

	// ScaleTypeCustom uses a caller-provided floor, falling back to
	// ScaleTypeCenterInside when no floor is set.
	ScaleTypeCustom
)

// Valid reports whether t is a known scale type.
func (t ScaleType) Valid() bool {
	return t >= ScaleTypeCenterInside && t <= ScaleTypeCustom
}

// String returns the name of the scale type.
func (t ScaleType) String() string {
	switch t {
	case ScaleTypeCenterInside:
		return "center-inside"
	case ScaleTypeCenterCrop:
		return "center-crop"
	case ScaleTypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Bounds describes everything needed to clamp a transform: the viewport, the
// source image and the scale and pan policies.
type Bounds struct {
	View     Size
	Padding  Padding
	Source   Size // unrotated file dimensions
	Rotation Rotation

	PanLimit  PanLimit
	ScaleType ScaleType

	// MinScaleFloor is the floor used by ScaleTypeCustom. Ignored when <= 0.
	MinScaleFloor float64
	MaxScale      float64

	// Ready reports whether an image is fully set up. Pan limits other than
	// inside only take effect once it is.
	Ready bool
}

// Rotated returns the source dimensions after rotation.
func (b Bounds) Rotated() Size {
	return b.Rotation.Rotated(b.Source)
}

// ViewCenter returns the center of the padded viewport.
func (b Bounds) ViewCenter() Point {
	p := b.Padding
	return Point{
		X: float64(p.Left) + float64(b.View.W-p.Right-p.Left)/2,
		Y: float64(p.Top) + float64(b.View.H-p.Bottom-p.Top)/2,
	}
}

// MinScale returns the smallest allowed scale for the current policy.
func (b Bounds) MinScale() float64 {
	rot := b.Rotated()
	if rot.Empty() {
		return 1
	}
	availW := max(1, b.View.W-b.Padding.Left-b.Padding.Right)
	availH := max(1, b.View.H-b.Padding.Top-b.Padding.Bottom)
	sx := float64(availW) / float64(rot.W)
	sy := float64(availH) / float64(rot.H)

	switch {
	case b.ScaleType == ScaleTypeCenterCrop:
		return math.Max(sx, sy)
	case b.ScaleType == ScaleTypeCustom && b.MinScaleFloor > 0:
		return b.MinScaleFloor
	default:
		return math.Min(sx, sy)
	}
}

// MaxScaleLimit returns the effective ceiling. It is never below MinScale so
// the allowed range is never empty.
func (b Bounds) MaxScaleLimit() float64 {
	return math.Max(b.MaxScale, b.MinScale())
}

// ClampScale limits s to [MinScale, MaxScaleLimit]. Non-finite values clamp
// to the minimum.
func (b Bounds) ClampScale(s float64) float64 {
	lo := b.MinScale()
	if !isFinite(s) {
		return lo
	}
	return math.Min(b.MaxScaleLimit(), math.Max(lo, s))
}

// Fit returns t adjusted so that the scale is in range and the translate
// respects the pan limit. When center is true the image is centered along
// any axis it does not fill; animations pass false for intermediate frames
// so they do not change direction as an edge is reached.
//
// Fit is pure: it can preview a hypothetical state as well as clamp the live
// one.
func (b Bounds) Fit(t Transform, center bool) Transform {
	limit := b.PanLimit
	if limit == PanLimitOutside && b.Ready {
		center = false
	}
	pinCenter := limit == PanLimitCenter && b.Ready

	scale := b.ClampScale(t.Scale)
	rot := b.Rotated()
	sw := scale * float64(rot.W)
	sh := scale * float64(rot.H)
	vw := float64(b.View.W)
	vh := float64(b.View.H)

	tx, ty := t.Translate.X, t.Translate.Y
	if !isFinite(tx) {
		tx = 0
	}
	if !isFinite(ty) {
		ty = 0
	}

	switch {
	case pinCenter:
		tx = math.Max(tx, vw/2-sw)
		ty = math.Max(ty, vh/2-sh)
	case center:
		tx = math.Max(tx, vw-sw)
		ty = math.Max(ty, vh-sh)
	default:
		tx = math.Max(tx, -sw)
		ty = math.Max(ty, -sh)
	}

	xRatio, yRatio := b.Padding.ratios()

	var maxTx, maxTy float64
	switch {
	case pinCenter:
		maxTx = math.Max(0, vw/2)
		maxTy = math.Max(0, vh/2)
	case center:
		maxTx = math.Max(0, (vw-sw)*xRatio)
		maxTy = math.Max(0, (vh-sh)*yRatio)
	default:
		maxTx = math.Max(0, vw)
		maxTy = math.Max(0, vh)
	}

	return Transform{
		Scale:     scale,
		Translate: Point{X: math.Min(tx, maxTx), Y: math.Min(ty, maxTy)},
	}
}

// TranslateForCenter returns the translate that puts source point c at the
// center of the viewport at the given scale, clamped by Fit.
func (b Bounds) TranslateForCenter(c Point, scale float64) Point {
	want := Transform{Scale: scale, Translate: CenterAt(c, b.ViewCenter(), scale)}
	return b.Fit(want, true).Translate
}

// LimitedCenter returns the source point that would actually end up at the
// center of the viewport if c were requested at the given scale.
func (b Bounds) LimitedCenter(c Point, scale float64) Point {
	scale = b.ClampScale(scale)
	t := Transform{Scale: scale, Translate: b.TranslateForCenter(c, scale)}
	return t.ToSource(b.ViewCenter())
}

// Initial returns the transform used on first display: minimum scale with the
// image centered.
func (b Bounds) Initial() Transform {
	rot := b.Rotated()
	scale := b.ClampScale(0)
	c := Pt(float64(rot.W)/2, float64(rot.H)/2)
	return Transform{Scale: scale, Translate: b.TranslateForCenter(c, scale)}
}
