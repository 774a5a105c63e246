package listview

// Size is a width/height pair reported by the host.
type Size struct {
	Width, Height float64
}

// Point is a content offset reported by the host.
type Point struct {
	X, Y float64
}

// Frame is the measured rectangle of a rendered unit.
type Frame struct {
	X, Y, Width, Height float64
}

// FrameUpdate is a single measurement result keyed by the FlatIndex of the
// render pass that produced it.
type FrameUpdate struct {
	FlatIndex int
	Frame
}

// ScrollEvent is what the host delivers for every (throttled) scroll.
type ScrollEvent struct {
	LayoutMeasurement Size
	ContentSize       Size
	ContentOffset     Point
	UpdatedFrames     []FrameUpdate
}

// Host is the scrollable container the Controller drives. Optional
// capabilities are queried explicitly before use.
type Host interface {
	// RequestRender asks the host to call Controller.Render on its next
	// render turn.
	RequestRender()

	// SupportsMeasurement reports whether MeasureFrames is available.
	SupportsMeasurement() bool
	// MeasureFrames measures the rendered units off the synchronous path
	// and calls deliver on a later turn.
	MeasureFrames(deliver func([]FrameUpdate))

	ScrollTo(x, y float64, animated bool)

	// SupportsScrollToEnd reports whether ScrollToEnd is available.
	SupportsScrollToEnd() bool
	ScrollToEnd(animated bool)
}
