package anim

import (
	"time"

	"github.com/gogpu/tileview/internal/geom"
)

// DefaultDuration is the duration of animations that do not set one.
const DefaultDuration = 500 * time.Millisecond

// Request describes a scale and center change.
type Request struct {
	Scale  float64
	Center geom.Point

	// Focus, when set, is a view point that keeps showing the same source
	// point (Center) throughout the animation, clamping permitting.
	Focus    geom.Point
	HasFocus bool

	Duration      time.Duration // DefaultDuration when zero
	Easing        Easing        // EaseInOutQuad when zero
	Interruptible bool

	// Unlimited moves toward Center even if the pan limit will not let it
	// end there; each axis stops where the limit is reached. Used by flings.
	Unlimited bool
}

// Animation is a running scale and center change. Its fields are the
// planned path and may be read for debugging overlays.
type Animation struct {
	ScaleStart, ScaleEnd float64

	CenterStart        geom.Point // source center when the animation began
	CenterEnd          geom.Point // source center it ends on, after limiting
	CenterEndRequested geom.Point // source center that was asked for

	// FocusStart and FocusEnd are the view-space path of Pivot.
	FocusStart, FocusEnd geom.Point

	// Pivot is the source point carried along the focus path.
	Pivot geom.Point

	Duration      time.Duration
	Easing        Easing
	Interruptible bool
	Start         time.Time
}

// Plan computes the animation from cur to req under b, starting at now.
func Plan(req Request, cur geom.Transform, b geom.Bounds, now time.Time) *Animation {
	a := &Animation{
		ScaleStart:         cur.Scale,
		ScaleEnd:           b.ClampScale(req.Scale),
		CenterStart:        cur.ToSource(b.ViewCenter()),
		CenterEndRequested: req.Center,
		Duration:           req.Duration,
		Easing:             req.Easing,
		Interruptible:      req.Interruptible,
		Start:              now,
	}
	if a.Duration <= 0 {
		a.Duration = DefaultDuration
	}
	if !a.Easing.Valid() {
		a.Easing = EaseInOutQuad
	}

	a.CenterEnd = req.Center
	if !req.Unlimited {
		a.CenterEnd = b.LimitedCenter(req.Center, a.ScaleEnd)
	}

	if !req.HasFocus {
		a.Pivot = a.CenterEnd
		a.FocusStart = cur.ToView(a.Pivot)
		a.FocusEnd = b.ViewCenter()
		return a
	}

	// Keep Center under Focus: solve the end translate for that, let the
	// bounds clamp it, and shift the end of the focus path by the clamping.
	a.Pivot = req.Center
	a.FocusStart = cur.ToView(a.Pivot)
	want := geom.CenterAt(a.Pivot, req.Focus, a.ScaleEnd)
	fitted := b.Fit(geom.Transform{Scale: a.ScaleEnd, Translate: want}, true).Translate
	a.FocusEnd = req.Focus.Add(fitted.Sub(want))
	a.CenterEnd = geom.Transform{Scale: a.ScaleEnd, Translate: fitted}.ToSource(b.ViewCenter())
	return a
}

// Step returns the transform to display at now and whether the animation
// has finished. Intermediate frames of a scale change may show the image off
// center; the final frame never does.
func (a *Animation) Step(now time.Time, b geom.Bounds) (geom.Transform, bool) {
	elapsed := now.Sub(a.Start)
	finished := elapsed >= a.Duration

	scale := Ease(a.Easing, elapsed, a.ScaleStart, a.ScaleEnd-a.ScaleStart, a.Duration)
	focus := geom.Point{
		X: Ease(a.Easing, elapsed, a.FocusStart.X, a.FocusEnd.X-a.FocusStart.X, a.Duration),
		Y: Ease(a.Easing, elapsed, a.FocusStart.Y, a.FocusEnd.Y-a.FocusStart.Y, a.Duration),
	}

	t := geom.Transform{Scale: scale, Translate: geom.CenterAt(a.Pivot, focus, scale)}
	return b.Fit(t, finished || !a.Scaling()), finished
}

// Scaling reports whether the animation changes the scale.
func (a *Animation) Scaling() bool {
	return a.ScaleStart != a.ScaleEnd
}
