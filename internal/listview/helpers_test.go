package listview

import (
	"bytes"
	"fmt"
	"log/slog"
)

// fakeSource is a minimal DataSource over literal sections.
type fakeSource struct {
	ids     []string
	rows    [][]string
	changed map[RowKey]bool
	// headerChanged marks section headers as changed by section ID.
	headerChanged map[string]bool
	allChanged    bool
}

func newFakeSource(sections ...[]string) *fakeSource {
	s := &fakeSource{changed: map[RowKey]bool{}, headerChanged: map[string]bool{}}
	for i, rows := range sections {
		s.ids = append(s.ids, fmt.Sprintf("s%d", i))
		s.rows = append(s.rows, rows)
	}
	return s
}

// rowsN builds n row IDs "r0".."r{n-1}".
func rowsN(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("r%d", i)
	}
	return out
}

func (s *fakeSource) SectionIDs() []string { return s.ids }
func (s *fakeSource) RowIDs() [][]string { return s.rows }
func (s *fakeSource) RowData(sec, row int) any { return s.rows[sec][row] }
func (s *fakeSource) SectionHeaderData(sec int) any { return s.ids[sec] }
func (s *fakeSource) RowShouldUpdate(sec, row int) bool {
	return s.allChanged || s.changed[RowKey{s.ids[sec], s.rows[sec][row]}]
}
func (s *fakeSource) SectionHeaderShouldUpdate(sec int) bool {
	return s.allChanged || s.headerChanged[s.ids[sec]]
}
func (s *fakeSource) RowCount() int {
	n := 0
	for _, r := range s.rows {
		n += len(r)
	}
	return n
}
func (s *fakeSource) RowAndSectionCount() int { return s.RowCount() + len(s.rows) }

// fakeHost records requests and holds measurement callbacks until the test
// delivers them.
type fakeHost struct {
	renders     int
	measurement bool
	toEnd       bool
	pending     []func([]FrameUpdate)
	scrolledTo  []Point
	scrolledEnd int
}

func (h *fakeHost) RequestRender() { h.renders++ }
func (h *fakeHost) SupportsMeasurement() bool { return h.measurement }
func (h *fakeHost) MeasureFrames(deliver func([]FrameUpdate)) {
	h.pending = append(h.pending, deliver)
}
func (h *fakeHost) ScrollTo(x, y float64, _ bool) { h.scrolledTo = append(h.scrolledTo, Point{x, y}) }
func (h *fakeHost) SupportsScrollToEnd() bool { return h.toEnd }
func (h *fakeHost) ScrollToEnd(bool) { h.scrolledEnd++ }

// deliver hands frames to every pending measurement callback.
func (h *fakeHost) deliver(frames []FrameUpdate) {
	pending := h.pending
	h.pending = nil
	for _, fn := range pending {
		fn(frames)
	}
}

// rowFrames lays every row unit of flat out vertically with height h.
func rowFrames(flat *Flat, h float64) []FrameUpdate {
	var out []FrameUpdate
	y := 0.0
	for _, u := range flat.Units {
		if u.Kind == UnitRow {
			out = append(out, FrameUpdate{FlatIndex: u.FlatIndex, Frame: Frame{Y: y, Width: 100, Height: h}})
		}
		y += h
	}
	return out
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func geometry(content, visible, offset float64) ScrollGeometry {
	return ScrollGeometry{
		ContentLength: KnownLength(content),
		VisibleLength: KnownLength(visible),
		Offset:        offset,
	}
}
