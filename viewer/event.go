package viewer

// Kind names a viewer input event.
type Kind string

const (
	ClickImage    Kind = "click_image"
	ClickBackdrop Kind = "click_backdrop"
	Close         Kind = "close"
	Escape        Kind = "escape"
	Wheel         Kind = "wheel"
	ZoomIn        Kind = "zoom_in"
	ZoomOut       Kind = "zoom_out"
	Reset         Kind = "reset"
	PointerDown   Kind = "pointer_down"
	PointerMove   Kind = "pointer_move"
	PointerUp     Kind = "pointer_up"
	PointerLeave  Kind = "pointer_leave"
)

// Event is one input to Apply. X/Y are pointer client coordinates; DeltaY is
// the wheel delta (negative scrolls toward the viewer and zooms in).
type Event struct {
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
}

func (e Event) Point() Point { return Point{X: e.X, Y: e.Y} }

// Known reports whether k is one of the defined kinds.
func (k Kind) Known() bool {
	switch k {
	case ClickImage, ClickBackdrop, Close, Escape, Wheel, ZoomIn, ZoomOut, Reset,
		PointerDown, PointerMove, PointerUp, PointerLeave:
		return true
	}
	return false
}
