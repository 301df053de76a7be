package tileview

import (
	"time"

	"github.com/gogpu/tileview/internal/anim"
	"github.com/gogpu/tileview/internal/gesture"
)

// HandleTouch interprets a pointer event and reports whether it was
// consumed. Event times must come from the same clock as the viewer's (see
// WithClock) for taps and long presses to be confirmed by Tick.
//
// A running animation that cannot be interrupted swallows every event. An
// interruptible one is stopped by the event, which is then consumed, and
// the tiles for where it stopped are requested.
func (v *Viewer) HandleTouch(ev Event) bool {
	v.intercept = InterceptUnchanged
	if v.closed {
		return false
	}
	if a := v.anim; a != nil {
		if !a.Interruptible {
			v.intercept = InterceptBlock
			return true
		}
		v.anim = nil
		v.refresh(true)
		return true
	}

	res := v.gestures.Handle(ev, gesture.View{
		Transform:          v.transform,
		Bounds:             v.bounds(),
		RequestedCenter:    v.requested,
		HasRequestedCenter: v.hasRequested,
	})
	v.intercept = res.Intercept
	v.applyIntents(res.Intents)
	return res.Consumed
}

// Intercept reports what the last HandleTouch asked of the view's
// ancestors.
func (v *Viewer) Intercept() Intercept {
	return v.intercept
}

// Tick fires gesture timers that are due: single tap confirmation and long
// press. Call it at NextDeadline, or on every frame.
func (v *Viewer) Tick() {
	if v.closed {
		return
	}
	v.applyIntents(v.gestures.Tick(v.opts.clock()))
}

// NextDeadline returns when Tick next has something to do.
func (v *Viewer) NextDeadline() (time.Time, bool) {
	return v.gestures.NextDeadline()
}

func (v *Viewer) applyIntents(intents []gesture.Intent) {
	for _, in := range intents {
		switch in := in.(type) {
		case gesture.PanIntent:
			v.transform = in.Transform
			v.refresh(false)
		case gesture.PinchIntent:
			v.transform = in.Transform
			v.refresh(false)
		case gesture.QuickScaleIntent:
			v.transform = in.Transform
			v.refresh(false)
		case gesture.SettleIntent:
			v.refresh(true)
		case gesture.FlingIntent:
			v.startAnimation(anim.Request{
				Scale:     v.transform.Scale,
				Center:    in.Center,
				Easing:    anim.EaseOutQuad,
				Unlimited: true,
			})
		case gesture.DoubleTapIntent:
			if in.Immediate {
				v.SetScaleAndCenter(in.Scale, in.Center)
				continue
			}
			v.startAnimation(anim.Request{
				Scale:    in.Scale,
				Center:   in.Center,
				Focus:    in.Focus,
				HasFocus: in.HasFocus,
			})
		case gesture.TapIntent:
			if gs, ok := v.sink.(GestureSink); ok {
				gs.Tap(in.Point)
			}
		case gesture.LongPressIntent:
			if gs, ok := v.sink.(GestureSink); ok {
				gs.LongPress(in.Point)
			}
		}
	}
}

func (v *Viewer) startAnimation(req anim.Request) {
	if !v.IsReady() {
		return
	}
	v.anim = anim.Plan(req, v.transform, v.bounds(), v.opts.clock())
}
