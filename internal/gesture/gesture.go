// Package gesture turns raw pointer events into viewport intents.
//
// The Controller is an explicit state machine. It reads the current viewport
// through a View snapshot passed with every event and never mutates it;
// instead it returns intents for the caller to apply. One-finger drags pan,
// two fingers pinch, a double tap zooms (or, with quick scale enabled, a
// double tap followed by a vertical drag zooms continuously), flings start a
// decelerating pan, and timers deliver clicks and long presses through Tick.
package gesture

import (
	"math"
	"time"

	"github.com/gogpu/tileview/internal/geom"
)

// --- Thresholds ---

const (
	panSlop           = 5.0  // px before a drag becomes a pan
	yPanSlop          = 15.0 // px of vertical motion that keeps a pan at an x edge
	flingDistance     = 50.0 // px between down and up
	flingVelocity     = 500.0
	flingProjection   = 250 * time.Millisecond
	velocityWindow    = 100 * time.Millisecond
	quickScaleDP      = 20.0
	quickScaleSpan    = 0.03
	doubleTapTimeout  = 300 * time.Millisecond
	doubleTapSlopDP   = 100.0
	longPressTimeout  = 600 * time.Millisecond
	doubleTapZoomBand = 0.9
	maxVelocitySample = 32
)

// ZoomStyle selects how a double tap zooms in.
type ZoomStyle int

const (
	// ZoomFocusFixed keeps the tapped point under the finger.
	ZoomFocusFixed ZoomStyle = iota + 1
	// ZoomFocusCenter animates the tapped point to the center.
	ZoomFocusCenter
	// ZoomFocusCenterImmediate centers the tapped point without animating.
	ZoomFocusCenterImmediate
)

// Valid reports whether s is a known zoom style.
func (s ZoomStyle) Valid() bool {
	return s >= ZoomFocusFixed && s <= ZoomFocusCenterImmediate
}

// String returns the name of the zoom style.
func (s ZoomStyle) String() string {
	switch s {
	case ZoomFocusFixed:
		return "fixed"
	case ZoomFocusCenter:
		return "center"
	case ZoomFocusCenterImmediate:
		return "center-immediate"
	default:
		return "unknown"
	}
}

// Config holds the user-facing switches.
type Config struct {
	PanEnabled        bool
	ZoomEnabled       bool
	QuickScaleEnabled bool

	DoubleTapScale float64
	ZoomStyle      ZoomStyle

	// Density is the number of pixels per density-independent pixel.
	// Values <= 0 are treated as 1.
	Density float64
}

// DefaultConfig enables every gesture.
func DefaultConfig() Config {
	return Config{
		PanEnabled:        true,
		ZoomEnabled:       true,
		QuickScaleEnabled: true,
		DoubleTapScale:    1,
		ZoomStyle:         ZoomFocusFixed,
		Density:           1,
	}
}

func (c Config) dp(v float64) float64 {
	if c.Density <= 0 {
		return v
	}
	return v * c.Density
}

// View is the viewport state a gesture works against.
type View struct {
	Transform geom.Transform
	Bounds    geom.Bounds

	// RequestedCenter, when set, is the pivot for zooming while panning is
	// disabled. Otherwise the image center is used.
	RequestedCenter    geom.Point
	HasRequestedCenter bool
}

// Phase is the coarse state of the current touch sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePanCandidate
	PhasePanning
	PhasePinchCandidate
	PhasePinching
	PhaseQuickScale
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePanCandidate:
		return "pan-candidate"
	case PhasePanning:
		return "panning"
	case PhasePinchCandidate:
		return "pinch-candidate"
	case PhasePinching:
		return "pinching"
	case PhaseQuickScale:
		return "quick-scale"
	default:
		return "unknown"
	}
}

// quickScale is the bookkeeping of a double-tap drag.
type quickScale struct {
	active       bool
	center       geom.Point // source point under the second tap
	lastDistance float64
	lastY        float64
	moved        bool
}

// Controller interprets touch sequences. It is not safe for concurrent use.
type Controller struct {
	cfg Config

	pointers int
	maxTouch int
	panning  bool
	zooming  bool

	scaleStart     float64
	distStart      float64
	centerStart    geom.Point // view space
	translateStart geom.Point

	qs quickScale
	d  detector
}

// New returns a controller using cfg.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Config returns the current configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig replaces the configuration. It takes effect with the next event.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
}

// Phase reports the state of the current touch sequence.
func (c *Controller) Phase() Phase {
	switch {
	case c.qs.active:
		return PhaseQuickScale
	case c.zooming:
		return PhasePinching
	case c.pointers >= 2 && c.maxTouch >= 2:
		return PhasePinchCandidate
	case c.panning:
		return PhasePanning
	case c.pointers == 1 && c.maxTouch > 0:
		return PhasePanCandidate
	default:
		return PhaseIdle
	}
}

// Reset forgets the current touch sequence and any pending timers.
func (c *Controller) Reset() {
	cfg := c.cfg
	*c = Controller{cfg: cfg}
}

// Handle processes ev against v.
func (c *Controller) Handle(ev Event, v View) Result {
	if len(ev.Pointers) == 0 && ev.Action != ActionCancel {
		return Result{}
	}
	if !v.Transform.Valid() {
		return Result{Consumed: true}
	}

	if !c.qs.active {
		if res, handled := c.detect(ev, v); handled {
			c.zooming = false
			c.panning = false
			c.maxTouch = 0
			c.track(ev)
			res.Consumed = true
			return res
		}
	}

	res := c.handle(ev, v)
	c.track(ev)
	return res
}

func (c *Controller) track(ev Event) {
	switch ev.Action {
	case ActionUp, ActionPointerUp:
		c.pointers = max(0, len(ev.Pointers)-1)
	case ActionCancel:
		c.pointers = 0
	default:
		c.pointers = len(ev.Pointers)
	}
}

func (c *Controller) handle(ev Event, v View) Result {
	n := len(ev.Pointers)

	switch ev.Action {
	case ActionDown, ActionPointerDown:
		c.maxTouch = max(c.maxTouch, n)
		if n >= 2 {
			if c.cfg.ZoomEnabled {
				p0, p1 := ev.Pointers[0], ev.Pointers[1]
				c.scaleStart = v.Transform.Scale
				c.distStart = p0.Distance(p1)
				c.translateStart = v.Transform.Translate
				c.centerStart = p0.Mid(p1)
			} else {
				c.maxTouch = 0
			}
			c.d.cancelLongPress()
		} else if !c.qs.active {
			c.translateStart = v.Transform.Translate
			c.centerStart = ev.Pointers[0]
			c.d.armLongPress(ev.Pointers[0], ev.Time)
		}
		return Result{Consumed: true, Intercept: InterceptBlock}

	case ActionMove:
		var res Result
		if c.maxTouch > 0 {
			switch {
			case n >= 2:
				res = c.pinch(ev, v)
			case c.qs.active:
				res = c.quickScale(ev, v)
			case !c.zooming:
				res = c.pan(ev, v)
			}
		}
		if res.Consumed {
			c.d.cancelLongPress()
		}
		return res

	case ActionUp, ActionPointerUp:
		c.d.cancelLongPress()
		var res Result
		if c.qs.active {
			c.qs.active = false
			if !c.qs.moved {
				res.Intents = append(res.Intents, c.doubleTap(c.qs.center, c.centerStart, v))
			}
		}
		if c.maxTouch > 0 && (c.zooming || c.panning) {
			if c.zooming && n == 2 {
				// Continue as a pan with the remaining pointer.
				c.panning = true
				c.translateStart = v.Transform.Translate
				if ev.Index == 1 {
					c.centerStart = ev.Pointers[0]
				} else {
					c.centerStart = ev.Pointers[1]
				}
			}
			if n < 3 {
				c.zooming = false
			}
			if n < 2 {
				c.panning = false
				c.maxTouch = 0
			}
			res.Intents = append(res.Intents, SettleIntent{})
			res.Consumed = true
			return res
		}
		if n == 1 {
			c.zooming = false
			c.panning = false
			c.maxTouch = 0
		}
		res.Consumed = true
		return res

	case ActionCancel:
		settle := c.panning || c.zooming || c.qs.active
		c.Reset()
		if settle {
			return Result{Intents: []Intent{SettleIntent{}}, Consumed: true}
		}
		return Result{Consumed: true}
	}
	return Result{}
}

// pinch scales by the ratio of pointer distances and keeps the source point
// under the pinch center following it.
func (c *Controller) pinch(ev Event, v View) Result {
	if !c.cfg.ZoomEnabled {
		return Result{}
	}
	p0, p1 := ev.Pointers[0], ev.Pointers[1]
	dist := p0.Distance(p1)
	center := p0.Mid(p1)

	if center.Distance(c.centerStart) <= panSlop && math.Abs(dist-c.distStart) <= panSlop && !c.panning {
		return Result{}
	}
	c.zooming = true
	c.panning = true

	b := v.Bounds
	scale := v.Transform.Scale
	if c.distStart > 0 {
		scale = math.Min(b.MaxScaleLimit(), dist/c.distStart*c.scaleStart)
	}
	translate := v.Transform.Translate

	switch {
	case scale <= b.MinScale():
		// At the minimum: restart from here so spreading again zooms in.
		c.distStart = dist
		c.scaleStart = b.MinScale()
		c.centerStart = center
		c.translateStart = v.Transform.Translate
	case c.cfg.PanEnabled:
		translate = c.follow(center, scale)
	default:
		translate = c.pivot(v, scale)
	}

	t := b.Fit(geom.Transform{Scale: scale, Translate: translate}, true)
	return Result{Intents: []Intent{PinchIntent{Transform: t}}, Consumed: true}
}

// quickScale maps vertical travel since the second tap to a scale change.
// Dragging up zooms in.
func (c *Controller) quickScale(ev Event, v View) Result {
	y := ev.Pointers[0].Y
	threshold := c.cfg.dp(quickScaleDP)
	dist := math.Abs(c.centerStart.Y-y)*2 + threshold

	if c.qs.lastDistance < 0 {
		c.qs.lastDistance = dist
	}
	upwards := y < c.qs.lastY
	c.qs.lastY = y

	b := v.Bounds
	t := v.Transform
	span := math.Abs(1-dist/c.qs.lastDistance) * 0.5
	if span > quickScaleSpan || c.qs.moved {
		c.qs.moved = true

		multiplier := 1.0
		if c.qs.lastDistance > 0 {
			if upwards {
				multiplier = 1 + span
			} else {
				multiplier = 1 - span
			}
		}
		t.Scale = math.Max(b.MinScale(), math.Min(b.MaxScaleLimit(), t.Scale*multiplier))

		if c.cfg.PanEnabled {
			t.Translate = c.follow(c.centerStart, t.Scale)
		} else {
			t.Translate = c.pivot(v, t.Scale)
		}
	}
	c.qs.lastDistance = dist

	t = b.Fit(t, true)
	return Result{Intents: []Intent{QuickScaleIntent{Transform: t}}, Consumed: true}
}

// pan drags the image with one finger. At a horizontal edge, a drag that
// starts mostly horizontal is handed back to the ancestors.
func (c *Controller) pan(ev Event, v View) Result {
	p := ev.Pointers[0]
	dx := math.Abs(p.X - c.centerStart.X)
	dy := math.Abs(p.Y - c.centerStart.Y)
	if dx <= panSlop && dy <= panSlop && !c.panning {
		return Result{}
	}

	res := Result{Consumed: true}
	want := geom.Transform{
		Scale:     v.Transform.Scale,
		Translate: c.translateStart.Add(p.Sub(c.centerStart)),
	}
	t := v.Bounds.Fit(want, true)

	atXEdge := want.Translate.X != t.Translate.X
	edgeXSwipe := atXEdge && dx > dy && !c.panning
	yPan := want.Translate.Y == t.Translate.Y && dy > yPanSlop
	switch {
	case !edgeXSwipe && (!atXEdge || yPan || c.panning):
		c.panning = true
	case dx > panSlop:
		c.maxTouch = 0
		c.d.cancelLongPress()
		res.Intercept = InterceptRelease
	}

	if !c.cfg.PanEnabled {
		t.Translate = c.translateStart
		res.Intercept = InterceptRelease
	}
	res.Intents = []Intent{PanIntent{Transform: t}}
	return res
}

// follow returns the translate keeping the source point that was under
// centerStart at the start of the gesture under at, at the given scale.
func (c *Controller) follow(at geom.Point, scale float64) geom.Point {
	ratio := 1.0
	if c.scaleStart > 0 {
		ratio = scale / c.scaleStart
	}
	left := c.centerStart.Sub(c.translateStart).Mul(ratio)
	return at.Sub(left)
}

// pivot returns the translate for zooming around the requested center, or
// the image center, when panning is disabled.
func (c *Controller) pivot(v View, scale float64) geom.Point {
	s := v.RequestedCenter
	if !v.HasRequestedCenter {
		rot := v.Bounds.Rotated()
		s = geom.Pt(float64(rot.W)/2, float64(rot.H)/2)
	}
	view := geom.Pt(float64(v.Bounds.View.W)/2, float64(v.Bounds.View.H)/2)
	return geom.CenterAt(s, view, scale)
}

// doubleTap returns the zoom for a double tap on view point focus showing
// source point center.
func (c *Controller) doubleTap(center, focus geom.Point, v View) DoubleTapIntent {
	b := v.Bounds
	target := math.Min(b.MaxScaleLimit(), c.cfg.DoubleTapScale)
	zoomIn := v.Transform.Scale <= target*doubleTapZoomBand

	in := DoubleTapIntent{Scale: b.MinScale(), Center: center}
	if zoomIn {
		in.Scale = target
	}
	switch {
	case c.cfg.ZoomStyle == ZoomFocusCenterImmediate:
		in.Immediate = true
	case c.cfg.ZoomStyle == ZoomFocusFixed && zoomIn:
		in.Focus = focus
		in.HasFocus = true
	}
	return in
}
