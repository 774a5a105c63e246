package listview

// MaterializationState is the number of rows eligible for rendering and the
// count as of the previous committed pass.
type MaterializationState struct {
	Materialized     int
	PrevMaterialized int
}

// WindowController owns how many logical rows are materialized.
type WindowController struct {
	state   MaterializationState
	total   int
	pending bool // an advance has not been committed by a render pass yet
}

// NewWindowController materializes min(initialSize, total) rows.
func NewWindowController(initialSize, total int) *WindowController {
	w := &WindowController{}
	w.Initialize(initialSize, total)
	return w
}

// Initialize sets materialized to min(max(current, initialSize), total).
func (w *WindowController) Initialize(initialSize, total int) {
	assertf(total >= 0, "total-non-negative", "total %d", total)
	w.total = total
	w.state.Materialized = min(max(w.state.Materialized, initialSize, 0), total)
	w.check()
}

// OnDataSourceChanged starts a new epoch. The previous materialized count is
// the floor, capped by the new total; the previous-pass count resets to 0 so
// every changed unit re-renders.
func (w *WindowController) OnDataSourceChanged(newTotal, newInitialSize int) {
	assertf(newTotal >= 0, "total-non-negative", "total %d", newTotal)
	w.total = newTotal
	w.state.Materialized = min(max(w.state.Materialized, newInitialSize, 0), newTotal)
	w.state.PrevMaterialized = 0
	w.pending = false
	w.check()
}

// MaybeAdvance materializes another page when the viewport is within
// renderAhead of the end. It reports whether the window advanced; the caller
// then requests exactly one render pass.
func (w *WindowController) MaybeAdvance(g ScrollGeometry, pageSize int, renderAhead float64) bool {
	if w.state.Materialized == w.total {
		return false
	}
	dist, ok := g.DistanceFromEnd()
	if !ok || dist >= renderAhead {
		return false
	}
	w.state.PrevMaterialized = w.state.Materialized
	w.state.Materialized = min(w.state.Materialized+pageSize, w.total)
	w.pending = true
	w.check()
	return true
}

// Commit records that a render pass consumed the last advance. It must run
// after that pass read PrevMaterialized.
func (w *WindowController) Commit() {
	if !w.pending {
		return
	}
	w.state.PrevMaterialized = w.state.Materialized
	w.pending = false
}

// State returns the current materialization state.
func (w *WindowController) State() MaterializationState { return w.state }

// Total returns the collection size the window is bounded by.
func (w *WindowController) Total() int { return w.total }

// Complete reports whether every row is materialized.
func (w *WindowController) Complete() bool { return w.state.Materialized == w.total }

func (w *WindowController) check() {
	assertf(w.state.Materialized >= 0 && w.state.Materialized <= w.total,
		"materialized-bounds", "materialized %d, total %d", w.state.Materialized, w.total)
	assertf(w.state.PrevMaterialized <= w.state.Materialized,
		"prev-materialized-bounds", "prev %d, materialized %d", w.state.PrevMaterialized, w.state.Materialized)
}
