package gesture

import (
	"math"
	"time"

	"github.com/gogpu/tileview/internal/geom"
)

type sample struct {
	at time.Time
	p  geom.Point
}

type timer struct {
	armed    bool
	point    geom.Point
	deadline time.Time
}

func (t *timer) due(now time.Time) bool {
	return t.armed && !now.Before(t.deadline)
}

// detector recognizes taps, double taps and flings, and runs the long-press
// and tap-confirmation timers.
type detector struct {
	down         geom.Point
	tapCandidate bool
	samples      []sample

	lastTapAt    time.Time
	lastTapPoint geom.Point
	hasLastTap   bool

	tap       timer
	longPress timer
}

func (d *detector) armLongPress(p geom.Point, now time.Time) {
	d.longPress = timer{armed: true, point: p, deadline: now.Add(longPressTimeout)}
}

func (d *detector) cancelLongPress() {
	d.longPress.armed = false
}

func (d *detector) addSample(at time.Time, p geom.Point) {
	if len(d.samples) == maxVelocitySample {
		copy(d.samples, d.samples[1:])
		d.samples = d.samples[:len(d.samples)-1]
	}
	d.samples = append(d.samples, sample{at: at, p: p})
}

// velocity returns the pointer velocity in px/s over the most recent samples.
func (d *detector) velocity() geom.Point {
	if len(d.samples) < 2 {
		return geom.Point{}
	}
	last := d.samples[len(d.samples)-1]
	first := last
	for i := len(d.samples) - 2; i >= 0; i-- {
		if last.at.Sub(d.samples[i].at) > velocityWindow {
			break
		}
		first = d.samples[i]
	}
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return geom.Point{}
	}
	return last.p.Sub(first.p).Mul(1 / dt)
}

// detect runs before the main state machine. It reports handled when the
// event completed a double tap zoom or a fling, ending the touch sequence.
func (c *Controller) detect(ev Event, v View) (Result, bool) {
	d := &c.d

	switch ev.Action {
	case ActionDown:
		p := ev.Pointers[0]
		double := d.hasLastTap &&
			ev.Time.Sub(d.lastTapAt) <= doubleTapTimeout &&
			p.Distance(d.lastTapPoint) <= c.cfg.dp(doubleTapSlopDP)

		d.tap.armed = false
		d.hasLastTap = false
		d.down = p
		d.tapCandidate = true
		d.samples = d.samples[:0]
		d.addSample(ev.Time, p)

		if !double || !c.cfg.ZoomEnabled || !v.Bounds.Ready {
			return Result{}, false
		}
		d.tapCandidate = false

		if c.cfg.QuickScaleEnabled {
			c.centerStart = p
			c.translateStart = v.Transform.Translate
			c.scaleStart = v.Transform.Scale
			c.zooming = true
			c.qs = quickScale{
				active:       true,
				center:       v.Transform.ToSource(p),
				lastDistance: -1,
				lastY:        p.Y,
			}
			// The main state machine still sees this down.
			return Result{}, false
		}
		return Result{Intents: []Intent{c.doubleTap(v.Transform.ToSource(p), p, v)}}, true

	case ActionPointerDown:
		d.tapCandidate = false

	case ActionMove:
		p := ev.Pointers[0]
		d.addSample(ev.Time, p)
		if math.Abs(p.X-d.down.X) > panSlop || math.Abs(p.Y-d.down.Y) > panSlop {
			d.tapCandidate = false
		}

	case ActionUp:
		p := ev.Pointers[0]
		d.addSample(ev.Time, p)

		if d.tapCandidate {
			d.tapCandidate = false
			d.hasLastTap = true
			d.lastTapAt = ev.Time
			d.lastTapPoint = d.down
			d.tap = timer{armed: true, point: d.down, deadline: ev.Time.Add(doubleTapTimeout)}
			return Result{}, false
		}

		if !c.cfg.PanEnabled || !v.Bounds.Ready || c.zooming {
			return Result{}, false
		}
		vel := d.velocity()
		moved := p.Sub(d.down)
		far := math.Abs(moved.X) > flingDistance || math.Abs(moved.Y) > flingDistance
		fast := math.Abs(vel.X) > flingVelocity || math.Abs(vel.Y) > flingVelocity
		if !far || !fast {
			return Result{}, false
		}
		end := geom.Transform{
			Scale:     v.Transform.Scale,
			Translate: v.Transform.Translate.Add(vel.Mul(flingProjection.Seconds())),
		}
		return Result{Intents: []Intent{FlingIntent{Center: end.ToSource(v.Bounds.ViewCenter())}}}, true

	case ActionCancel:
		*d = detector{}
	}
	return Result{}, false
}

// Tick fires timers due at now: a long press held without moving, and a
// single tap once no second tap can follow.
func (c *Controller) Tick(now time.Time) []Intent {
	d := &c.d
	var out []Intent
	if d.longPress.due(now) {
		d.longPress.armed = false
		d.tapCandidate = false
		c.maxTouch = 0
		out = append(out, LongPressIntent{Point: d.longPress.point})
	}
	if d.tap.due(now) {
		d.tap.armed = false
		out = append(out, TapIntent{Point: d.tap.point})
	}
	return out
}

// NextDeadline returns when Tick next has something to fire.
func (c *Controller) NextDeadline() (time.Time, bool) {
	d := &c.d
	switch {
	case d.longPress.armed && d.tap.armed:
		if d.tap.deadline.Before(d.longPress.deadline) {
			return d.tap.deadline, true
		}
		return d.longPress.deadline, true
	case d.longPress.armed:
		return d.longPress.deadline, true
	case d.tap.armed:
		return d.tap.deadline, true
	}
	return time.Time{}, false
}
