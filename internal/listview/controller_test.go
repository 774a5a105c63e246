package listview

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func newController(t *testing.T, ds DataSource, host *fakeHost, cfg Config, opts ...Option) *Controller {
	t.Helper()
	c, err := New(ds, host, cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func scrollEvent(content, visible, offset float64) ScrollEvent {
	return ScrollEvent{
		LayoutMeasurement: Size{Width: 100, Height: visible},
		ContentSize:       Size{Width: 100, Height: content},
		ContentOffset:     Point{Y: offset},
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(newFakeSource(), nil, DefaultConfig()); err == nil {
		t.Error("expected error for nil host")
	}
	cfg := DefaultConfig()
	cfg.PageSize = 0
	if _, err := New(newFakeSource(), &fakeHost{}, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestControllerWindowing(t *testing.T) {
	ds := newFakeSource(rowsN(49))
	ds.allChanged = true
	host := &fakeHost{measurement: true}
	var diffs []VisibilityDiff
	c := newController(t, ds, host, DefaultConfig(),
		WithVisibleRowsHandler(func(_ VisibilitySet, d VisibilityDiff) { diffs = append(diffs, d) }))

	flat, err := c.Render()
	if err != nil {
		t.Fatal(err)
	}
	if flat.Rows != 10 {
		t.Fatalf("expected 10 rows, got %d", flat.Rows)
	}
	if len(host.pending) != 1 {
		t.Fatalf("expected one measurement request, got %d", len(host.pending))
	}

	c.OnScroll(scrollEvent(1000, 500, 0))
	if got := c.State(); got.Materialized != 11 || got.PrevMaterialized != 10 {
		t.Errorf("expected 11/10, got %+v", got)
	}
	if host.renders != 1 {
		t.Errorf("expected one render request, got %d", host.renders)
	}

	host.deliver(rowFrames(flat, 100))
	if c.Frames().Len() != 10 {
		t.Errorf("expected 10 frames, got %d", c.Frames().Len())
	}
	if len(diffs) != 1 || len(diffs[0]["s0"]) != 6 {
		t.Errorf("expected one diff with 6 rows, got %v", diffs)
	}

	m := c.Metrics()
	if m.TotalRows != 49 || m.RenderedRows != 11 || m.VisibleRows != 6 || m.ContentLength.Value != 1000 {
		t.Errorf("unexpected metrics %+v", m)
	}

	flat, err = c.Render()
	if err != nil {
		t.Fatal(err)
	}
	if flat.Rows != 11 {
		t.Errorf("expected 11 rows, got %d", flat.Rows)
	}
	if got := flat.Updates(); len(got) != 1 || got[0] != 10 {
		t.Errorf("expected only the new row to update, got %v", got)
	}
	if got := c.State(); got.PrevMaterialized != 11 {
		t.Errorf("expected commit to set prev to 11, got %+v", got)
	}
}

func TestControllerCompleteWindowDoesNotAdvance(t *testing.T) {
	host := &fakeHost{}
	c := newController(t, newFakeSource(rowsN(3)), host, DefaultConfig())
	c.OnScroll(scrollEvent(300, 300, 0))
	if host.renders != 0 {
		t.Errorf("expected no render request, got %d", host.renders)
	}
}

func TestControllerClose(t *testing.T) {
	host := &fakeHost{measurement: true}
	calls := 0
	c := newController(t, newFakeSource(rowsN(20)), host, DefaultConfig(),
		WithVisibleRowsHandler(func(VisibilitySet, VisibilityDiff) { calls++ }))
	flat, _ := c.Render()
	c.OnLayout(100, 500)
	c.Close()

	host.deliver(rowFrames(flat, 100))
	c.OnScroll(scrollEvent(1000, 500, 0))
	c.SetHighlight(RowKey{"s0", "r1"})
	if calls != 0 || host.renders != 0 || c.Frames().Len() != 0 {
		t.Errorf("expected no effects after Close, got calls=%d renders=%d frames=%d",
			calls, host.renders, c.Frames().Len())
	}
}

func TestControllerScrollToEnd(t *testing.T) {
	log, buf := bufferLogger()
	host := &fakeHost{}
	c := newController(t, newFakeSource(rowsN(1)), host, DefaultConfig(), WithLogger(log))

	c.ScrollToEnd(true)
	if host.scrolledEnd != 0 {
		t.Error("scrolled without capability")
	}
	if !strings.Contains(buf.String(), "does not support scroll to end") {
		t.Errorf("expected warning, got %q", buf.String())
	}

	host.toEnd = true
	c.ScrollToEnd(false)
	c.ScrollTo(0, 40, false)
	if host.scrolledEnd != 1 || len(host.scrolledTo) != 1 || host.scrolledTo[0].Y != 40 {
		t.Errorf("unexpected host calls: end=%d to=%v", host.scrolledEnd, host.scrolledTo)
	}
}

func TestControllerDataSourceChange(t *testing.T) {
	host := &fakeHost{}
	ds := newFakeSource(rowsN(49))
	c := newController(t, ds, host, DefaultConfig())
	c.Render()
	c.OnScroll(scrollEvent(1000, 500, 0))
	c.Render()

	c.SetDataSource(ds)
	if host.renders != 1 {
		t.Errorf("same source must be ignored, got %d renders", host.renders)
	}

	c.SetDataSource(newFakeSource(rowsN(5)))
	if got := c.State(); got.Materialized != 5 || got.PrevMaterialized != 0 {
		t.Errorf("expected 5/0, got %+v", got)
	}
	if host.renders != 2 {
		t.Errorf("expected a render request, got %d", host.renders)
	}

	// The initial size is the floor. Paging waits for the pass that
	// consumes the reset; the stale geometry then adds one page.
	c.SetDataSource(newFakeSource(rowsN(100)))
	if got := c.State(); got.Materialized != 10 || got.PrevMaterialized != 0 {
		t.Errorf("expected 10/0 before the pass, got %+v", got)
	}
	c.Render()
	if got := c.State().Materialized; got != 11 {
		t.Errorf("expected 11 after the pass, got %d", got)
	}
}

func TestControllerEndReached(t *testing.T) {
	var events []EndReachedEvent
	c := newController(t, newFakeSource(rowsN(3)), &fakeHost{}, DefaultConfig(),
		WithEndReachedHandler(func(ev EndReachedEvent) { events = append(events, ev) }))

	c.OnScroll(scrollEvent(3000, 800, 2000))
	c.OnScroll(scrollEvent(3000, 800, 2050))
	if len(events) != 1 || !events[0].FromScroll {
		t.Fatalf("expected one scroll-triggered event, got %+v", events)
	}

	c.OnScroll(scrollEvent(3000, 800, 700))
	c.OnScroll(scrollEvent(3000, 800, 2000))
	if len(events) != 2 {
		t.Errorf("expected re-fire after scrolling away, got %d", len(events))
	}

	t.Run("waits for full materialization", func(t *testing.T) {
		fired := 0
		c := newController(t, newFakeSource(rowsN(49)), &fakeHost{}, DefaultConfig(),
			WithEndReachedHandler(func(EndReachedEvent) { fired++ }))
		c.OnScroll(scrollEvent(3000, 800, 2000))
		if fired != 0 {
			t.Errorf("fired with %d of 49 rows materialized", c.State().Materialized)
		}
	})
}

func TestControllerEmptySectionOptIn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableEmptySections = Bool(false)
	c := newController(t, newFakeSource(nil, rowsN(2)), &fakeHost{}, cfg)

	_, err := c.Render()
	var inv *InvariantError
	if !errors.Is(err, ErrEmptySectionsOptIn) || !errors.As(err, &inv) {
		t.Fatalf("expected invariant error, got %v", err)
	}
}

func TestControllerHighlight(t *testing.T) {
	host := &fakeHost{}
	c := newController(t, newFakeSource(rowsN(3)), host, DefaultConfig(),
		WithLayout(Layout{Separators: true}))
	c.Render()

	c.SetHighlight(RowKey{"s0", "r1"})
	c.SetHighlight(RowKey{"s0", "r1"})
	if host.renders != 1 {
		t.Errorf("expected one render request, got %d", host.renders)
	}
	flat, _ := c.Render()
	var lit []int
	for _, u := range flat.Units {
		if u.Kind == UnitSeparator && u.Highlighted {
			lit = append(lit, u.Row)
		}
	}
	if len(lit) != 2 || lit[0] != 0 || lit[1] != 1 {
		t.Errorf("expected separators after r0 and r1 lit, got %v", lit)
	}
}

func TestControllerDataSourceChangeDropsRemovedRows(t *testing.T) {
	host := &fakeHost{measurement: true}
	before := &fakeSource{ids: []string{"s0", "s1"}, rows: [][]string{{"p1", "p2"}, {"p3"}}}
	var last VisibilityDiff
	c := newController(t, before, host, DefaultConfig(),
		WithVisibleRowsHandler(func(_ VisibilitySet, d VisibilityDiff) { last = d }))

	flat, _ := c.Render()
	c.OnLayout(100, 100)
	host.deliver(rowFrames(flat, 10))
	if got := c.Metrics().VisibleRows; got != 3 {
		t.Fatalf("expected 3 visible rows, got %d", got)
	}

	c.SetDataSource(&fakeSource{ids: []string{"s0", "s2"}, rows: [][]string{{"p1"}, {"p3"}}})
	flat, err := c.Render()
	if err != nil {
		t.Fatal(err)
	}
	host.deliver(rowFrames(flat, 10))

	want := VisibilitySet{"s0": {"p1": true}, "s2": {"p3": true}}
	if got := c.Visible(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := c.Metrics().VisibleRows; got != 2 {
		t.Errorf("expected 2 visible rows, got %d", got)
	}
	if last["s0"]["p2"] || last["s1"]["p3"] {
		t.Errorf("expected removed rows reported hidden, got %v", last)
	}
	if _, ok := last["s1"]["p3"]; !ok {
		t.Errorf("expected s1/p3 in the diff, got %v", last)
	}
}
