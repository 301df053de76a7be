// Package anim interpolates scale and center changes of the viewport.
package anim

import "time"

// Easing selects an interpolation curve.
type Easing int

const (
	// EaseOutQuad decelerates from full speed. Used for flings.
	EaseOutQuad Easing = iota + 1

	// EaseInOutQuad accelerates then decelerates. The default for scale and
	// center changes.
	EaseInOutQuad
)

// Valid reports whether e is a known easing.
func (e Easing) Valid() bool {
	return e == EaseOutQuad || e == EaseInOutQuad
}

// String returns the name of the easing.
func (e Easing) String() string {
	switch e {
	case EaseOutQuad:
		return "out-quad"
	case EaseInOutQuad:
		return "in-out-quad"
	default:
		return "unknown"
	}
}

// Ease returns the value at elapsed time t of a change from from to
// from+change lasting duration. t is clamped to [0, duration]; the end value
// is returned exactly at and after duration. Unknown easings are linear.
func Ease(e Easing, t time.Duration, from, change float64, duration time.Duration) float64 {
	if duration <= 0 || t >= duration {
		return from + change
	}
	if t <= 0 {
		return from
	}
	p := float64(t) / float64(duration)

	switch e {
	case EaseOutQuad:
		return -change*p*(p-2) + from
	case EaseInOutQuad:
		p *= 2
		if p < 1 {
			return change/2*p*p + from
		}
		p--
		return -change/2*(p*(p-2)-1) + from
	default:
		return change*p + from
	}
}
