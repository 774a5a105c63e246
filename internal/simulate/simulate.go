// Package simulate replays a list headlessly: rows of a fixed height in a
// fixed viewport, mounted and then scrolled to the end in steps. It reports
// every render pass, end-reached event and visibility change the engine
// produced, which makes paging behavior observable without a terminal.
package simulate

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Akashdeep-Patra/zed-list-view/internal/datasource"
	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
)

// maxPasses bounds the render passes of a single settle.
const maxPasses = 100_000

// ErrRunaway is returned when render requests never stop.
var ErrRunaway = errors.New("simulate: render passes did not settle")

// Script describes one replay.
type Script struct {
	Rows      int
	RowHeight float64
	Viewport  float64
	// Step is the scroll distance per event; 0 skips the scroll phase.
	Step float64
	List listview.Config
}

// DefaultScript mirrors the basic 49-row example with line-sized rows.
func DefaultScript() Script {
	return Script{
		Rows:      49,
		RowHeight: 1,
		Viewport:  24,
		Step:      5,
		List:      listview.DefaultConfig(),
	}
}

// Event is one observable engine output.
type Event struct {
	Kind          string  `json:"kind"` // "render", "end_reached" or "visible"
	Offset        float64 `json:"offset"`
	Materialized  int     `json:"materialized,omitempty"`
	ContentLength float64 `json:"content_length,omitempty"`
	Visible       int     `json:"visible,omitempty"`
	Changed       int     `json:"changed,omitempty"`
}

// Report is the outcome of a replay.
type Report struct {
	Passes        int     `json:"passes"`
	EndReached    int     `json:"end_reached"`
	TotalRows     int     `json:"total_rows"`
	RenderedRows  int     `json:"rendered_rows"`
	VisibleRows   int     `json:"visible_rows"`
	ContentLength float64 `json:"content_length"`
	Events        []Event `json:"events"`
}

// host is a listview.Host with line geometry and synchronous delivery.
type host struct {
	pending  bool
	measure  []func([]listview.FrameUpdate)
	offset   float64
	content  float64
	viewport float64
}

func (h *host) RequestRender()            { h.pending = true }
func (h *host) SupportsMeasurement() bool { return true }
func (h *host) SupportsScrollToEnd() bool { return true }

func (h *host) MeasureFrames(deliver func([]listview.FrameUpdate)) {
	h.measure = append(h.measure, deliver)
}

func (h *host) ScrollTo(_, y float64, _ bool) { h.offset = max(y, 0) }

func (h *host) ScrollToEnd(bool) { h.offset = max(h.content-h.viewport, 0) }

type runner struct {
	script Script
	host   *host
	ctrl   *listview.Controller
	report Report
}

// Run replays s and returns what the engine did.
func Run(s Script, log *slog.Logger) (*Report, error) {
	if s.Rows < 0 || s.RowHeight <= 0 || s.Viewport <= 0 || s.Step < 0 {
		return nil, fmt.Errorf("simulate: rows %d, row height %v, viewport %v, step %v out of range",
			s.Rows, s.RowHeight, s.Viewport, s.Step)
	}
	rows := make([]string, s.Rows)
	for i := range rows {
		rows[i] = strconv.Itoa(i)
	}
	ds := datasource.New(func(a, b string) bool { return a != b }).CloneWithRows(rows)

	r := &runner{script: s, host: &host{viewport: s.Viewport}}
	opts := []listview.Option{
		listview.WithEndReachedHandler(func(ev listview.EndReachedEvent) {
			r.report.EndReached++
			r.record(Event{Kind: "end_reached", ContentLength: ev.Geometry.ContentLength.Value})
		}),
		listview.WithVisibleRowsHandler(func(set listview.VisibilitySet, diff listview.VisibilityDiff) {
			changed := 0
			for _, rows := range diff {
				changed += len(rows)
			}
			r.record(Event{Kind: "visible", Visible: set.Rows(), Changed: changed})
		}),
	}
	if log != nil {
		opts = append(opts, listview.WithLogger(log))
	}
	ctrl, err := listview.New(ds, r.host, s.List, opts...)
	if err != nil {
		return nil, err
	}
	r.ctrl = ctrl

	// Mount: layout first, then the initial pass.
	r.ctrl.OnLayout(1, s.Viewport)
	r.host.RequestRender()
	if err := r.settle(); err != nil {
		return nil, err
	}

	if s.Step > 0 {
		for {
			end := max(r.host.content-s.Viewport, 0)
			if r.host.offset >= end {
				break
			}
			r.host.offset = min(r.host.offset+s.Step, end)
			r.ctrl.OnScroll(listview.ScrollEvent{
				LayoutMeasurement: listview.Size{Width: 1, Height: s.Viewport},
				ContentSize:       listview.Size{Width: 1, Height: r.host.content},
				ContentOffset:     listview.Point{Y: r.host.offset},
			})
			if err := r.settle(); err != nil {
				return nil, err
			}
		}
	}

	m := r.ctrl.Metrics()
	r.report.TotalRows = m.TotalRows
	r.report.RenderedRows = m.RenderedRows
	r.report.VisibleRows = m.VisibleRows
	r.report.ContentLength = m.ContentLength.Value
	r.ctrl.Close()
	return &r.report, nil
}

func (r *runner) record(ev Event) {
	ev.Offset = r.host.offset
	r.report.Events = append(r.report.Events, ev)
}

// settle runs render passes until none is requested. Each pass is laid
// out, its content size reported and its frames delivered, in the order a
// real host produces them.
func (r *runner) settle() error {
	for i := 0; r.host.pending; i++ {
		if i >= maxPasses {
			return ErrRunaway
		}
		r.host.pending = false
		flat, err := r.ctrl.Render()
		if err != nil {
			return err
		}
		r.report.Passes++
		r.record(Event{Kind: "render", Materialized: r.ctrl.State().Materialized})

		frames, content := r.layout(flat)
		r.host.content = content
		r.ctrl.OnContentSizeChange(1, content)

		deliveries := r.host.measure
		r.host.measure = nil
		for _, deliver := range deliveries {
			deliver(frames)
		}
	}
	return nil
}

// layout stacks rows at RowHeight; every other unit is zero-height.
func (r *runner) layout(flat *listview.Flat) ([]listview.FrameUpdate, float64) {
	out := make([]listview.FrameUpdate, 0, len(flat.Units))
	y := 0.0
	for _, u := range flat.Units {
		h := 0.0
		if u.Kind == listview.UnitRow {
			h = r.script.RowHeight
		}
		out = append(out, listview.FrameUpdate{
			FlatIndex: u.FlatIndex,
			Frame:     listview.Frame{Y: y, Width: 1, Height: h},
		})
		y += h
	}
	return out, y
}
