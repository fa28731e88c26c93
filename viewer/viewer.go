// Package viewer is the zoom/pan/fullscreen state machine of the photo
// detail view. All transitions are total: out-of-range zoom is clamped and
// events that do not apply in the current mode leave the state unchanged.
package viewer

import (
	"fmt"
	"math"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 5.0
	DefaultZoom = 1.0
	ZoomStep    = 0.2
)

// Mode is the presentation state of the image.
type Mode string

const (
	Inline     Mode = "inline"
	Fullscreen Mode = "fullscreen"
)

// Point is a 2D offset in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// State is the viewer state of one mounted detail view.
type State struct {
	Mode     Mode    `json:"mode"`
	Zoom     float64 `json:"zoom"`
	Pan      Point   `json:"pan"`
	Dragging bool    `json:"dragging"`

	// anchor is pointer minus pan at drag start; meaningful only while dragging.
	anchor Point
}

// New returns the initial inline state.
func New() State {
	return State{Mode: Inline, Zoom: DefaultZoom}
}

// IsFullscreen reports whether the overlay is shown.
func (s State) IsFullscreen() bool { return s.Mode == Fullscreen }

// CanPan reports whether drag gestures are honoured.
func (s State) CanPan() bool { return s.Mode == Fullscreen && s.Zoom > DefaultZoom }

// Transform is the CSS transform for the image: uniform scale, then translate.
func (s State) Transform() string {
	return fmt.Sprintf("scale(%s) translate(%spx, %spx)", fmtNum(s.Zoom), fmtNum(s.Pan.X), fmtNum(s.Pan.Y))
}

// Cursor is the pointer hint for the image surface.
func (s State) Cursor() string {
	switch {
	case s.Mode == Inline:
		return "zoom-in"
	case s.Dragging:
		return "grabbing"
	case s.CanPan():
		return "grab"
	default:
		return "zoom-out"
	}
}

// reset returns the state in mode with default zoom and pan.
func reset(mode Mode) State {
	return State{Mode: mode, Zoom: DefaultZoom}
}

// Apply is the transition function (state, event) -> state.
func Apply(s State, e Event) State {
	if s.Zoom == 0 {
		s.Zoom = DefaultZoom
	}

	if s.Mode != Fullscreen {
		if e.Kind == ClickImage {
			return reset(Fullscreen)
		}
		return s
	}

	switch e.Kind {
	case ClickBackdrop, Close, Escape:
		return reset(Inline)
	case Reset:
		return reset(Fullscreen)
	case ZoomIn:
		return s.withZoom(s.Zoom + ZoomStep)
	case ZoomOut:
		return s.withZoom(s.Zoom - ZoomStep)
	case Wheel:
		switch {
		case e.DeltaY < 0:
			return s.withZoom(s.Zoom + ZoomStep)
		case e.DeltaY > 0:
			return s.withZoom(s.Zoom - ZoomStep)
		}
		return s
	case PointerDown:
		if !s.CanPan() {
			return s
		}
		s.Dragging = true
		s.anchor = e.Point().sub(s.Pan)
		return s
	case PointerMove:
		if !s.Dragging || !s.CanPan() {
			return s
		}
		s.Pan = e.Point().sub(s.anchor)
		return s
	case PointerUp, PointerLeave:
		s.Dragging = false
		s.anchor = Point{}
		return s
	}
	return s
}

// withZoom ends any drag once the image no longer overflows.
func (s State) withZoom(z float64) State {
	s.Zoom = ClampZoom(z)
	if s.Zoom <= DefaultZoom {
		s.Dragging = false
		s.anchor = Point{}
	}
	return s
}

// ClampZoom bounds z to [MinZoom, MaxZoom] and snaps it to a 0.01 grid so
// repeated steps do not accumulate floating point drift.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	z = math.Round(z*100) / 100
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func fmtNum(f float64) string {
	return fmt.Sprintf("%g", math.Round(f*100)/100)
}
