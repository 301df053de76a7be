package tileview

import (
	"github.com/gogpu/tileview/internal/anim"
	"github.com/gogpu/tileview/internal/geom"
	"github.com/gogpu/tileview/internal/gesture"
)

// Point is a position in view or source pixels.
type Point = geom.Point

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return geom.Pt(x, y)
}

// Rect is an integer rectangle in source pixels. Right and Bottom are
// exclusive.
type Rect = geom.Rect

// RectF is a rectangle in view pixels.
type RectF = geom.RectF

// PanLimit controls how far the image may be panned.
type PanLimit = geom.PanLimit

const (
	// PanLimitInside keeps the image filling the view where it can; an
	// image smaller than the view is centered.
	PanLimitInside = geom.PanLimitInside
	// PanLimitOutside allows panning until the image is flush with the
	// opposite edge of the view.
	PanLimitOutside = geom.PanLimitOutside
	// PanLimitCenter allows any point of the image to be centered.
	PanLimitCenter = geom.PanLimitCenter
)

// ScaleType decides the minimum scale.
type ScaleType = geom.ScaleType

const (
	// ScaleTypeCenterInside fits the whole image in the view.
	ScaleTypeCenterInside = geom.ScaleTypeCenterInside
	// ScaleTypeCenterCrop fills the view, cropping one axis.
	ScaleTypeCenterCrop = geom.ScaleTypeCenterCrop
	// ScaleTypeCustom uses the value of SetMinScale.
	ScaleTypeCustom = geom.ScaleTypeCustom
)

// ZoomStyle decides where a double tap zooms to.
type ZoomStyle = gesture.ZoomStyle

const (
	// ZoomFocusFixed keeps the tapped point under the finger.
	ZoomFocusFixed = gesture.ZoomFocusFixed
	// ZoomFocusCenter animates the tapped point to the view center.
	ZoomFocusCenter = gesture.ZoomFocusCenter
	// ZoomFocusCenterImmediate jumps the tapped point to the view center.
	ZoomFocusCenterImmediate = gesture.ZoomFocusCenterImmediate
)

// Easing is the timing curve of an animation.
type Easing = anim.Easing

const (
	EaseOutQuad   = anim.EaseOutQuad
	EaseInOutQuad = anim.EaseInOutQuad
)

// Event is a pointer event in view coordinates.
type Event = gesture.Event

// Action is the kind of a pointer event.
type Action = gesture.Action

const (
	ActionDown        = gesture.ActionDown
	ActionPointerDown = gesture.ActionPointerDown
	ActionMove        = gesture.ActionMove
	ActionPointerUp   = gesture.ActionPointerUp
	ActionUp          = gesture.ActionUp
	ActionCancel      = gesture.ActionCancel
)

// Intercept tells the host whether ancestors may take over the touch stream.
type Intercept = gesture.Intercept

const (
	InterceptUnchanged = gesture.InterceptUnchanged
	InterceptBlock     = gesture.InterceptBlock
	InterceptRelease   = gesture.InterceptRelease
)
