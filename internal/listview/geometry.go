package listview

// Axis selects the primary scroll axis.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Length is a scalar that may be unknown.
type Length struct {
	Value float64
	Known bool
}

// KnownLength returns a known Length of v.
func KnownLength(v float64) Length { return Length{Value: v, Known: true} }

// Equal reports whether two lengths are both unknown or both known and equal.
func (l Length) Equal(o Length) bool {
	if l.Known != o.Known {
		return false
	}
	return !l.Known || l.Value == o.Value
}

// ScrollGeometry is the scroll state along the primary axis.
type ScrollGeometry struct {
	ContentLength Length
	VisibleLength Length
	Offset        float64
}

// Known reports whether both lengths have been reported.
func (g ScrollGeometry) Known() bool {
	return g.ContentLength.Known && g.VisibleLength.Known
}

// DistanceFromEnd is contentLength - visibleLength - offset. The second
// result is false while either length is unknown.
func (g ScrollGeometry) DistanceFromEnd() (float64, bool) {
	if !g.Known() {
		return 0, false
	}
	return g.ContentLength.Value - g.VisibleLength.Value - g.Offset, true
}

// GeometryTracker owns the scalar scroll geometry along one axis.
type GeometryTracker struct {
	axis Axis
	geo  ScrollGeometry
}

// NewGeometryTracker returns a tracker with unknown lengths and zero offset.
func NewGeometryTracker(axis Axis) *GeometryTracker {
	return &GeometryTracker{axis: axis}
}

// Axis returns the tracked axis.
func (t *GeometryTracker) Axis() Axis { return t.axis }

// Geometry returns a snapshot of the current geometry.
func (t *GeometryTracker) Geometry() ScrollGeometry { return t.geo }

// OnContentSizeChange updates the content length and reports whether it
// changed.
func (t *GeometryTracker) OnContentSizeChange(width, height float64) bool {
	l := KnownLength(t.pick(width, height))
	if l.Equal(t.geo.ContentLength) {
		return false
	}
	t.geo.ContentLength = l
	return true
}

// OnLayout updates the visible length and reports whether it changed.
func (t *GeometryTracker) OnLayout(width, height float64) bool {
	l := KnownLength(t.pick(width, height))
	if l.Equal(t.geo.VisibleLength) {
		return false
	}
	t.geo.VisibleLength = l
	return true
}

// OnScroll unconditionally replaces all three fields.
func (t *GeometryTracker) OnScroll(layout, content Size, offset Point) {
	t.geo.VisibleLength = KnownLength(t.pick(layout.Width, layout.Height))
	t.geo.ContentLength = KnownLength(t.pick(content.Width, content.Height))
	if t.axis == Horizontal {
		t.geo.Offset = offset.X
	} else {
		t.geo.Offset = offset.Y
	}
}

// Extent returns a frame's start and end along the tracked axis.
func (t *GeometryTracker) Extent(f Frame) (lo, hi float64) {
	return extent(t.axis, f)
}

func (t *GeometryTracker) pick(width, height float64) float64 {
	if t.axis == Horizontal {
		return width
	}
	return height
}

func extent(axis Axis, f Frame) (lo, hi float64) {
	if axis == Horizontal {
		return f.X, f.X + f.Width
	}
	return f.Y, f.Y + f.Height
}

// degenerate reports a frame that has not been measured yet.
func degenerate(lo, hi float64) bool {
	return (lo == 0 && hi == 0) || lo == hi
}
