package viewer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyAll(s State, events ...Event) State {
	for _, e := range events {
		s = Apply(s, e)
	}
	return s
}

func repeat(e Event, n int) []Event {
	out := make([]Event, n)
	for i := range out {
		out[i] = e
	}
	return out
}

func fullscreen() State {
	return Apply(New(), Event{Kind: ClickImage})
}

func TestNewIsInlineDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, Inline, s.Mode)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, Point{}, s.Pan)
	assert.False(t, s.Dragging)
	assert.Equal(t, "zoom-in", s.Cursor())
}

func TestZoomInSixStepsYieldsTwoPointTwo(t *testing.T) {
	s := applyAll(fullscreen(), repeat(Event{Kind: ZoomIn}, 6)...)
	assert.Equal(t, 2.2, s.Zoom)
}

func TestZoomClampsAtBounds(t *testing.T) {
	s := applyAll(fullscreen(), repeat(Event{Kind: ZoomIn}, 20)...)
	assert.Equal(t, MaxZoom, s.Zoom)

	s = applyAll(fullscreen(), repeat(Event{Kind: ZoomOut}, 20)...)
	assert.Equal(t, MinZoom, s.Zoom)
}

func TestWheelDirection(t *testing.T) {
	s := Apply(fullscreen(), Event{Kind: Wheel, DeltaY: -120})
	assert.Equal(t, 1.2, s.Zoom)

	s = Apply(s, Event{Kind: Wheel, DeltaY: 53})
	s = Apply(s, Event{Kind: Wheel, DeltaY: 53})
	assert.Equal(t, 0.8, s.Zoom)

	assert.Equal(t, s, Apply(s, Event{Kind: Wheel}))
}

func TestZoomIgnoredInline(t *testing.T) {
	s := applyAll(New(), Event{Kind: ZoomIn}, Event{Kind: Wheel, DeltaY: -1}, Event{Kind: Reset})
	if diff := cmp.Diff(New(), s, cmp.AllowUnexported(State{})); diff != "" {
		t.Errorf("inline state changed (-want +got):\n%s", diff)
	}
}

func TestEnterFullscreenResets(t *testing.T) {
	// a stale zoomed state that somehow ended inline still enters at defaults
	stale := State{Mode: Inline, Zoom: 3.4, Pan: Point{X: 12, Y: -8}}
	s := Apply(stale, Event{Kind: ClickImage})

	assert.Equal(t, Fullscreen, s.Mode)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, Point{}, s.Pan)
}

func TestExitFullscreenResets(t *testing.T) {
	for _, kind := range []Kind{ClickBackdrop, Close, Escape} {
		t.Run(string(kind), func(t *testing.T) {
			s := applyAll(fullscreen(),
				Event{Kind: ZoomIn}, Event{Kind: ZoomIn},
				Event{Kind: PointerDown, X: 10, Y: 10},
				Event{Kind: PointerMove, X: 40, Y: 25},
			)
			require.Equal(t, Point{X: 30, Y: 15}, s.Pan)

			s = Apply(s, Event{Kind: kind})
			want := New()
			if diff := cmp.Diff(want, s, cmp.AllowUnexported(State{})); diff != "" {
				t.Errorf("exit via %s (-want +got):\n%s", kind, diff)
			}
		})
	}
}

func TestResetControl(t *testing.T) {
	s := applyAll(fullscreen(),
		Event{Kind: ZoomIn},
		Event{Kind: PointerDown, X: 0, Y: 0},
		Event{Kind: PointerMove, X: 5, Y: 5},
		Event{Kind: PointerUp},
		Event{Kind: Reset},
	)
	assert.Equal(t, Fullscreen, s.Mode)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, Point{}, s.Pan)
}

func TestPanIgnoredAtOrBelowDefaultZoom(t *testing.T) {
	for _, zoomOuts := range []int{0, 2} {
		s := applyAll(fullscreen(), repeat(Event{Kind: ZoomOut}, zoomOuts)...)
		s = applyAll(s,
			Event{Kind: PointerDown, X: 100, Y: 100},
			Event{Kind: PointerMove, X: 150, Y: 180},
		)
		assert.False(t, s.Dragging)
		assert.Equal(t, Point{}, s.Pan)
	}
}

func TestPanTracksPointerOneToOne(t *testing.T) {
	s := applyAll(fullscreen(), Event{Kind: ZoomIn})

	s = Apply(s, Event{Kind: PointerDown, X: 100, Y: 100})
	require.True(t, s.Dragging)
	assert.Equal(t, "grabbing", s.Cursor())

	s = Apply(s, Event{Kind: PointerMove, X: 130, Y: 90})
	assert.Equal(t, Point{X: 30, Y: -10}, s.Pan)

	s = Apply(s, Event{Kind: PointerUp})
	assert.False(t, s.Dragging)
	assert.Equal(t, "grab", s.Cursor())

	// a second drag continues from the current offset
	s = applyAll(s,
		Event{Kind: PointerDown, X: 0, Y: 0},
		Event{Kind: PointerMove, X: -10, Y: 5},
		Event{Kind: PointerLeave},
	)
	assert.Equal(t, Point{X: 20, Y: -5}, s.Pan)
	assert.False(t, s.Dragging)

	// moves after the drag ended do nothing
	assert.Equal(t, s, Apply(s, Event{Kind: PointerMove, X: 500, Y: 500}))
}

func TestZoomingOutMidDragEndsDrag(t *testing.T) {
	s := applyAll(fullscreen(),
		Event{Kind: ZoomIn},
		Event{Kind: PointerDown, X: 100, Y: 100},
		Event{Kind: PointerMove, X: 110, Y: 100},
	)
	require.True(t, s.Dragging)
	pan := s.Pan

	s = Apply(s, Event{Kind: Wheel, DeltaY: 1})
	assert.Equal(t, 1.0, s.Zoom)
	assert.False(t, s.Dragging)
	assert.Equal(t, "zoom-out", s.Cursor())

	// zooming back in does not revive the old drag
	s = applyAll(s,
		Event{Kind: ZoomIn},
		Event{Kind: PointerMove, X: 400, Y: 400},
	)
	assert.False(t, s.Dragging)
	assert.Equal(t, pan, s.Pan)
	assert.Equal(t, "grab", s.Cursor())
}

func TestTransformScaleBeforeTranslate(t *testing.T) {
	s := applyAll(fullscreen(),
		Event{Kind: ZoomIn}, Event{Kind: ZoomIn},
		Event{Kind: PointerDown, X: 0, Y: 0},
		Event{Kind: PointerMove, X: 12.5, Y: -4},
	)
	assert.Equal(t, "scale(1.4) translate(12.5px, -4px)", s.Transform())
	assert.Equal(t, "scale(1) translate(0px, 0px)", New().Transform())
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, MinZoom, ClampZoom(-3))
	assert.Equal(t, MaxZoom, ClampZoom(12))
	assert.Equal(t, 2.2, ClampZoom(1.0+0.2+0.2+0.2+0.2+0.2+0.2))
}

func TestUnknownEventIsNoop(t *testing.T) {
	s := applyAll(fullscreen(), Event{Kind: ZoomIn})
	assert.Equal(t, s, Apply(s, Event{Kind: "double_click"}))
	assert.False(t, Kind("double_click").Known())
	assert.True(t, PointerLeave.Known())
}
