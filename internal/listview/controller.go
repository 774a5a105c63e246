package listview

import (
	"errors"
	"log/slog"
)

// Metrics is a snapshot returned by Controller.Metrics.
type Metrics struct {
	ContentLength Length
	TotalRows     int
	RenderedRows  int
	VisibleRows   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLayout declares which optional units the host renders.
func WithLayout(l Layout) Option {
	return func(c *Controller) { c.layout = l }
}

// WithVisibleRowsHandler registers the visibility-change listener. Without
// one, visibility is never computed.
func WithVisibleRowsHandler(fn func(VisibilitySet, VisibilityDiff)) Option {
	return func(c *Controller) { c.onChangeVisibleRows = fn }
}

// WithEndReachedHandler registers the end-reached listener.
func WithEndReachedHandler(fn func(EndReachedEvent)) Option {
	return func(c *Controller) { c.onEndReached = fn }
}

// Controller wires the geometry, window, flattening, visibility and
// end-reached stages for one list instance. Its bookkeeping (geometry,
// frames, visible rows) is mutated only through its methods and never
// triggers a render by itself.
type Controller struct {
	cfg    Config
	layout Layout
	ds     DataSource
	host   Host
	log    *slog.Logger

	geo     *GeometryTracker
	window  *WindowController
	end     EndReachedDetector
	frames  *FrameTable
	visible VisibilitySet

	highlight         RowKey
	renderedHighlight RowKey
	last              *Flat
	closed            bool
	recheckAfterPass  bool // a data source change waits for its first pass

	onChangeVisibleRows func(VisibilitySet, VisibilityDiff)
	onEndReached        func(EndReachedEvent)
}

// New creates the controller for one list instance.
func New(ds DataSource, host Host, cfg Config, opts ...Option) (*Controller, error) {
	if host == nil {
		return nil, errors.New("listview: nil host")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		ds:      ds,
		host:    host,
		log:     slog.Default(),
		geo:     NewGeometryTracker(cfg.Axis()),
		frames:  NewFrameTable(),
		visible: make(VisibilitySet),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.window = NewWindowController(cfg.InitialListSize, c.total())
	return c, nil
}

// ── Render pass ─────────────────────────────────────────────────────────────

// Render flattens the current window. Hosts call it when RequestRender was
// issued (and on mount). Afterwards the pending window advance is committed
// and a frame measurement is requested.
func (c *Controller) Render() (*Flat, error) {
	state := c.window.State()
	flat, err := Flatten(FlattenInput{
		Layout:               c.layout,
		StickySectionHeaders: c.layout.SectionHeaders && c.cfg.StickySectionHeadersEnabled,
		StickyHeaderIndices:  c.cfg.StickyHeaderIndices,
		EnableEmptySections:  c.cfg.EnableEmptySections,
		Source:               c.ds,
		Materialized:         state.Materialized,
		PrevMaterialized:     state.PrevMaterialized,
		Highlight:            c.highlight,
		PrevHighlight:        c.renderedHighlight,
		Logger:               c.log,
	})
	if err != nil {
		return nil, err
	}
	c.last = flat
	c.renderedHighlight = c.highlight
	c.window.Commit()
	c.measure(flat)
	if c.recheckAfterPass {
		c.recheckAfterPass = false
		c.renderMoreRowsIfNeeded(false)
	}
	return flat, nil
}

// measure asks the host for frames of the given pass. Delivery after Close
// is dropped.
func (c *Controller) measure(flat *Flat) {
	if c.closed || !c.host.SupportsMeasurement() {
		return
	}
	c.host.MeasureFrames(func(updates []FrameUpdate) {
		if c.closed {
			return
		}
		c.updateVisibleRows(flat, updates)
	})
}

// ── Data source & config ────────────────────────────────────────────────────

// SetDataSource replaces the data source. A different value starts a new
// epoch: the window is recomputed with the previous count as floor and the
// previous-pass count resets.
func (c *Controller) SetDataSource(ds DataSource) {
	if c.closed || ds == c.ds {
		return
	}
	c.ds = ds
	c.dataSourceChanged()
}

// SetConfig swaps the options. A changed initial size is handled like a data
// source change; a changed axis resets the geometry.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	prev := c.cfg
	c.cfg = cfg
	if prev.Horizontal != cfg.Horizontal {
		c.geo = NewGeometryTracker(cfg.Axis())
	}
	if prev.InitialListSize != cfg.InitialListSize ||
		prev.emptySectionsEnabled() != cfg.emptySectionsEnabled() {
		c.dataSourceChanged()
		return nil
	}
	c.host.RequestRender()
	return nil
}

// dataSourceChanged resets the window. Paging is re-checked only after the
// next pass has consumed the reset previous count.
func (c *Controller) dataSourceChanged() {
	c.window.OnDataSourceChanged(c.total(), c.cfg.InitialListSize)
	c.recheckAfterPass = true
	c.host.RequestRender()
}

func (c *Controller) total() int {
	return totalRows(c.ds, c.cfg.emptySectionsEnabled())
}

// ── Host events ─────────────────────────────────────────────────────────────

// OnContentSizeChange handles a content-size report from the host.
func (c *Controller) OnContentSizeChange(width, height float64) {
	if c.closed || !c.geo.OnContentSizeChange(width, height) {
		return
	}
	c.updateVisibleRows(c.last, nil)
	c.renderMoreRowsIfNeeded(false)
}

// OnLayout handles a viewport layout report from the host.
func (c *Controller) OnLayout(width, height float64) {
	if c.closed || !c.geo.OnLayout(width, height) {
		return
	}
	c.updateVisibleRows(c.last, nil)
	c.renderMoreRowsIfNeeded(false)
}

// OnScroll handles a scroll event. Geometry is fully updated before
// visibility, paging and end-reached run.
func (c *Controller) OnScroll(ev ScrollEvent) {
	if c.closed {
		return
	}
	c.geo.OnScroll(ev.LayoutMeasurement, ev.ContentSize, ev.ContentOffset)
	c.updateVisibleRows(c.last, ev.UpdatedFrames)
	if !c.maybeCallOnEndReached(true) {
		c.renderMoreRowsIfNeeded(true)
	}
	if c.onEndReached != nil {
		c.end.ResetIfScrolledAway(c.geo.Geometry(), c.cfg.OnEndReachedThreshold)
	}
}

// OnFrames delivers measurements keyed by FlatIndex of the latest pass.
func (c *Controller) OnFrames(updates []FrameUpdate) {
	if c.closed {
		return
	}
	c.updateVisibleRows(c.last, updates)
}

// ── Stages ──────────────────────────────────────────────────────────────────

func (c *Controller) updateVisibleRows(flat *Flat, updates []FrameUpdate) {
	if len(updates) > 0 && flat != nil {
		c.frames.Apply(flat, updates)
	}
	if c.onChangeVisibleRows == nil {
		return
	}
	g := c.geo.Geometry()
	if !g.VisibleLength.Known {
		return
	}
	next, diff := ComputeVisibility(VisibilityInput{
		Source:   c.ds,
		Frames:   c.frames,
		Geometry: g,
		Axis:     c.geo.Axis(),
		Previous: c.visible,
	})
	c.visible = next
	if len(diff) > 0 {
		c.onChangeVisibleRows(next.Clone(), diff)
	}
}

func (c *Controller) renderMoreRowsIfNeeded(fromScroll bool) {
	g := c.geo.Geometry()
	if !g.Known() || c.window.Complete() {
		c.maybeCallOnEndReached(fromScroll)
		return
	}
	if c.window.MaybeAdvance(g, c.cfg.PageSize, c.cfg.ScrollRenderAheadDistance) {
		c.log.Debug("window advanced",
			"materialized", c.window.State().Materialized, "total", c.window.Total())
		c.host.RequestRender()
	}
}

func (c *Controller) maybeCallOnEndReached(fromScroll bool) bool {
	if c.onEndReached == nil {
		return false
	}
	g := c.geo.Geometry()
	state := c.window.State()
	if !c.end.Check(g, c.window.Total(), state.Materialized, c.cfg.OnEndReachedThreshold) {
		return false
	}
	c.log.Debug("end reached", "content_length", g.ContentLength.Value)
	c.onEndReached(EndReachedEvent{Geometry: g, FromScroll: fromScroll})
	return true
}

// ── Operations ──────────────────────────────────────────────────────────────

// Metrics returns content length, total/rendered row counts and the number
// of visible rows.
func (c *Controller) Metrics() Metrics {
	return Metrics{
		ContentLength: c.geo.Geometry().ContentLength,
		TotalRows:     c.total(),
		RenderedRows:  c.window.State().Materialized,
		VisibleRows:   c.visible.Rows(),
	}
}

// ScrollTo forwards to the host's scroll container.
func (c *Controller) ScrollTo(x, y float64, animated bool) {
	if c.closed {
		return
	}
	c.host.ScrollTo(x, y, animated)
}

// ScrollToEnd scrolls to the end when the container supports it; otherwise
// it logs a diagnostic and does nothing.
func (c *Controller) ScrollToEnd(animated bool) {
	if c.closed {
		return
	}
	if !c.host.SupportsScrollToEnd() {
		c.log.Warn("scroll container does not support scroll to end")
		return
	}
	c.host.ScrollToEnd(animated)
}

// SetHighlight marks a row as highlighted; adjacent separators re-render.
func (c *Controller) SetHighlight(k RowKey) {
	if c.closed || k == c.highlight {
		return
	}
	c.highlight = k
	c.host.RequestRender()
}

// Close tears the instance down. Pending measurement callbacks and later
// events become no-ops.
func (c *Controller) Close() { c.closed = true }

// Highlight returns the highlighted row.
func (c *Controller) Highlight() RowKey { return c.highlight }

// Geometry returns the current scroll geometry.
func (c *Controller) Geometry() ScrollGeometry { return c.geo.Geometry() }

// State returns the materialization state.
func (c *Controller) State() MaterializationState { return c.window.State() }

// Visible returns a copy of the visible rows.
func (c *Controller) Visible() VisibilitySet { return c.visible.Clone() }

// Frames returns the frame table.
func (c *Controller) Frames() *FrameTable { return c.frames }

// Config returns the active options.
func (c *Controller) Config() Config { return c.cfg }

// DataSource returns the current data source.
func (c *Controller) DataSource() DataSource { return c.ds }

// LastFlat returns the most recent render pass, or nil before the first.
func (c *Controller) LastFlat() *Flat { return c.last }
