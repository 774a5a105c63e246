package listview

// EndReachedEvent is passed to OnEndReached.
type EndReachedEvent struct {
	Geometry ScrollGeometry
	// FromScroll is true when a scroll event triggered the check.
	FromScroll bool
}

// EndReachedDetector fires once per content length while the viewport is
// near the end of a fully materialized list.
//
// States: ARMED (sent unknown) and FIRED(L). A qualifying Check moves ARMED
// to FIRED(contentLength); ResetIfScrolledAway moves FIRED back to ARMED.
type EndReachedDetector struct {
	sent Length
}

// Check reports whether end-reached should fire now, and records it if so.
func (d *EndReachedDetector) Check(g ScrollGeometry, total, materialized int, threshold float64) bool {
	if !g.ContentLength.Known || g.ContentLength.Equal(d.sent) {
		return false
	}
	dist, ok := g.DistanceFromEnd()
	if !ok || dist >= threshold || materialized != total {
		return false
	}
	d.sent = g.ContentLength
	return true
}

// ResetIfScrolledAway re-arms the detector once the viewport leaves the end
// zone, including for the current content length.
func (d *EndReachedDetector) ResetIfScrolledAway(g ScrollGeometry, threshold float64) {
	if dist, ok := g.DistanceFromEnd(); ok && dist > threshold {
		d.sent = Length{}
	}
}

// Armed reports whether the detector can fire for the current content.
func (d *EndReachedDetector) Armed() bool { return !d.sent.Known }

// SentFor returns the content length the last fire was recorded for.
func (d *EndReachedDetector) SentFor() Length { return d.sent }
