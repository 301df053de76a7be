package tileview

import (
	"time"

	"github.com/gogpu/tileview/internal/anim"
)

// AnimationBuilder configures an animated move created by AnimateScale,
// AnimateCenter or AnimateScaleAndCenter. Nothing moves until Start.
//
// Example:
//
//	err := v.AnimateScaleAndCenter(2, tileview.Pt(1200, 800)).
//	    WithDuration(750 * time.Millisecond).
//	    WithEasing(tileview.EaseOutQuad).
//	    Start()
type AnimationBuilder struct {
	v   *Viewer
	req anim.Request
	err error
}

// AnimateScale animates to scale, keeping the current center.
func (v *Viewer) AnimateScale(scale float64) *AnimationBuilder {
	return v.animate(scale, v.Center())
}

// AnimateCenter animates to center at the current scale.
func (v *Viewer) AnimateCenter(center Point) *AnimationBuilder {
	return v.animate(v.Scale(), center)
}

// AnimateScaleAndCenter animates to scale and center together.
func (v *Viewer) AnimateScaleAndCenter(scale float64, center Point) *AnimationBuilder {
	return v.animate(scale, center)
}

func (v *Viewer) animate(scale float64, center Point) *AnimationBuilder {
	b := &AnimationBuilder{
		v: v,
		req: anim.Request{
			Scale:         scale,
			Center:        center,
			Duration:      anim.DefaultDuration,
			Easing:        anim.EaseInOutQuad,
			Interruptible: true,
		},
	}
	if !v.IsReady() {
		b.err = ErrNotReady
	}
	return b
}

// WithDuration sets the length of the animation. The default is 500ms.
func (b *AnimationBuilder) WithDuration(d time.Duration) *AnimationBuilder {
	if d <= 0 && b.err == nil {
		b.err = invalidf("animation duration %v", d)
	}
	b.req.Duration = d
	return b
}

// WithEasing sets the timing curve. The default is EaseInOutQuad.
func (b *AnimationBuilder) WithEasing(e Easing) *AnimationBuilder {
	if !e.Valid() && b.err == nil {
		b.err = invalidf("easing %d", e)
	}
	b.req.Easing = e
	return b
}

// WithInterruptible sets whether a touch stops the animation. The default
// is true; otherwise touches are ignored until it ends.
func (b *AnimationBuilder) WithInterruptible(on bool) *AnimationBuilder {
	b.req.Interruptible = on
	return b
}

// WithPanLimited sets whether the target center is limited by the pan
// limit up front. When false the animation heads for the requested center
// and stops at the limit on each axis. The default is true.
func (b *AnimationBuilder) WithPanLimited(on bool) *AnimationBuilder {
	b.req.Unlimited = !on
	return b
}

// Start replaces any running animation with this one. It returns
// ErrNotReady before the image is showing and an error wrapping
// ErrInvalidConfiguration for bad settings.
func (b *AnimationBuilder) Start() error {
	if b.err != nil {
		return b.err
	}
	if b.v.closed {
		return ErrClosed
	}
	b.v.startAnimation(b.req)
	return nil
}
