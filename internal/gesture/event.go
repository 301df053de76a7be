package gesture

import (
	"time"

	"github.com/gogpu/tileview/internal/geom"
)

// Action is the kind of a pointer event.
type Action int

const (
	// ActionDown is the first pointer touching.
	ActionDown Action = iota + 1
	// ActionPointerDown is an additional pointer touching.
	ActionPointerDown
	// ActionMove is any pointer moving.
	ActionMove
	// ActionPointerUp is a pointer lifting while others remain.
	ActionPointerUp
	// ActionUp is the last pointer lifting.
	ActionUp
	// ActionCancel aborts the touch sequence.
	ActionCancel
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionPointerDown:
		return "pointer-down"
	case ActionMove:
		return "move"
	case ActionPointerUp:
		return "pointer-up"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is one pointer event in view coordinates.
type Event struct {
	Action Action

	// Pointers holds every pointer in contact, including the one lifting
	// for ActionUp and ActionPointerUp.
	Pointers []geom.Point

	// Index is the pointer that went down or up.
	Index int

	Time time.Time
}

// Intercept tells the host whether ancestors may take over the touch stream.
type Intercept int

const (
	// InterceptUnchanged leaves the ancestor setting as it is.
	InterceptUnchanged Intercept = iota
	// InterceptBlock keeps the touch stream in this view.
	InterceptBlock
	// InterceptRelease hands the touch stream back to an ancestor, for
	// example so a swipe at the image edge can change pages.
	InterceptRelease
)

// Result is the outcome of one event.
type Result struct {
	Intents   []Intent
	Consumed  bool
	Intercept Intercept
}

// Intent is a change the controller asks the viewport to make.
type Intent interface {
	intent()
}

// PanIntent sets the transform during a one-finger drag.
type PanIntent struct {
	Transform geom.Transform
}

// PinchIntent sets the transform during a two-finger pinch.
type PinchIntent struct {
	Transform geom.Transform
}

// QuickScaleIntent sets the transform during a double-tap drag.
type QuickScaleIntent struct {
	Transform geom.Transform
}

// FlingIntent starts a decelerating pan toward Center, stopping at the pan
// limit on each axis.
type FlingIntent struct {
	Center geom.Point
}

// DoubleTapIntent zooms to Scale around the source point Center.
type DoubleTapIntent struct {
	Scale  float64
	Center geom.Point

	// Focus is the tapped view point that should keep showing Center.
	Focus    geom.Point
	HasFocus bool

	// Immediate jumps without animating.
	Immediate bool
}

// TapIntent is a confirmed single tap (a click).
type TapIntent struct {
	Point geom.Point
}

// LongPressIntent is a press held without moving.
type LongPressIntent struct {
	Point geom.Point
}

// SettleIntent marks the end of a pan or zoom. Tiles for the new position
// should now be loaded.
type SettleIntent struct{}

func (PanIntent) intent()        {}
func (PinchIntent) intent()      {}
func (QuickScaleIntent) intent() {}
func (FlingIntent) intent()      {}
func (DoubleTapIntent) intent()  {}
func (TapIntent) intent()        {}
func (LongPressIntent) intent()  {}
func (SettleIntent) intent()     {}
