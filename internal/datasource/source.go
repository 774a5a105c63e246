// Package datasource provides an immutable, sectioned implementation of
// listview.DataSource. Every clone is a new value whose dirty flags are
// computed against the clone it was derived from.
package datasource

import (
	"fmt"
	"strconv"

	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
)

// DefaultSectionID is the section used by CloneWithRows.
const DefaultSectionID = "s1"

// Section is one block of rows with optional header data.
type Section[R any] struct {
	ID     string
	Header any
	Rows   []R
	// RowIDs are optional; when nil they default to "0".."n-1".
	RowIDs []string
}

// Option configures a Source.
type Option[R any] func(*Source[R])

// WithSectionHeaderHasChanged sets the comparison used for section headers.
// Without it, a header is dirty only when its section is new.
func WithSectionHeaderHasChanged[R any](fn func(prev, next any) bool) Option[R] {
	return func(s *Source[R]) { s.headerHasChanged = fn }
}

// Source is an immutable snapshot of sectioned rows.
type Source[R any] struct {
	rowHasChanged    func(prev, next R) bool
	headerHasChanged func(prev, next any) bool

	sectionIDs []string
	rowIDs     [][]string
	rows       [][]R
	headers    []any

	dirtyRows     [][]bool
	dirtySections []bool

	// index maps section ID → row ID → row position, for diffing the next
	// clone against this one.
	index map[string]map[string]int
	// sectionIndex maps section ID → section position.
	sectionIndex map[string]int
}

var _ listview.DataSource = (*Source[int])(nil)

// New returns an empty source. rowHasChanged decides whether a row present
// in both the previous and the next clone must re-render.
func New[R any](rowHasChanged func(prev, next R) bool, opts ...Option[R]) *Source[R] {
	if rowHasChanged == nil {
		panic("datasource: rowHasChanged is required")
	}
	s := &Source[R]{
		rowHasChanged: rowHasChanged,
		index:         map[string]map[string]int{},
		sectionIndex:  map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CloneWithRows returns a single-section clone with positional row IDs.
func (s *Source[R]) CloneWithRows(rows []R) *Source[R] {
	return s.mustClone([]Section[R]{{ID: DefaultSectionID, Rows: rows}})
}

// CloneWithSections returns a clone holding the given sections. Section IDs
// must be unique, and row IDs unique within their section.
func (s *Source[R]) CloneWithSections(sections []Section[R]) (*Source[R], error) {
	next := &Source[R]{
		rowHasChanged:    s.rowHasChanged,
		headerHasChanged: s.headerHasChanged,
		index:            make(map[string]map[string]int, len(sections)),
		sectionIndex:     make(map[string]int, len(sections)),
	}
	for i, sec := range sections {
		if _, dup := next.sectionIndex[sec.ID]; dup {
			return nil, fmt.Errorf("duplicate section id %q", sec.ID)
		}
		ids := sec.RowIDs
		if ids == nil {
			ids = make([]string, len(sec.Rows))
			for r := range ids {
				ids[r] = strconv.Itoa(r)
			}
		}
		if len(ids) != len(sec.Rows) {
			return nil, fmt.Errorf("section %q: %d row ids for %d rows", sec.ID, len(ids), len(sec.Rows))
		}

		rowIndex := make(map[string]int, len(ids))
		for r, id := range ids {
			if _, dup := rowIndex[id]; dup {
				return nil, fmt.Errorf("section %q: duplicate row id %q", sec.ID, id)
			}
			rowIndex[id] = r
		}
		next.sectionIndex[sec.ID] = i
		next.index[sec.ID] = rowIndex
		next.sectionIDs = append(next.sectionIDs, sec.ID)
		next.rowIDs = append(next.rowIDs, ids)
		next.rows = append(next.rows, append([]R(nil), sec.Rows...))
		next.headers = append(next.headers, sec.Header)
	}
	next.computeDirty(s)
	return next, nil
}

func (s *Source[R]) mustClone(sections []Section[R]) *Source[R] {
	next, err := s.CloneWithSections(sections)
	if err != nil {
		panic("datasource: " + err.Error())
	}
	return next
}

// computeDirty marks new sections and rows dirty, and compares the rest
// with the change functions.
func (s *Source[R]) computeDirty(prev *Source[R]) {
	s.dirtySections = make([]bool, len(s.sectionIDs))
	s.dirtyRows = make([][]bool, len(s.sectionIDs))
	for i, sectionID := range s.sectionIDs {
		pi, existed := prev.sectionIndex[sectionID]
		switch {
		case !existed:
			s.dirtySections[i] = true
		case s.headerHasChanged != nil:
			s.dirtySections[i] = s.headerHasChanged(prev.headers[pi], s.headers[i])
		}

		dirty := make([]bool, len(s.rowIDs[i]))
		for r, rowID := range s.rowIDs[i] {
			if !existed {
				dirty[r] = true
				continue
			}
			pr, ok := prev.index[sectionID][rowID]
			dirty[r] = !ok || s.rowHasChanged(prev.rows[pi][pr], s.rows[i][r])
		}
		s.dirtyRows[i] = dirty
	}
}

// Row returns the typed data of a row.
func (s *Source[R]) Row(section, row int) R { return s.rows[section][row] }

// Header returns the header data of a section.
func (s *Source[R]) Header(section int) any { return s.headers[section] }

// SectionCount returns the number of sections.
func (s *Source[R]) SectionCount() int { return len(s.sectionIDs) }

// ── listview.DataSource ─────────────────────────────────────────────────────

func (s *Source[R]) SectionIDs() []string { return s.sectionIDs }

func (s *Source[R]) RowIDs() [][]string { return s.rowIDs }

func (s *Source[R]) RowData(section, row int) any { return s.rows[section][row] }

func (s *Source[R]) SectionHeaderData(section int) any { return s.headers[section] }

func (s *Source[R]) RowShouldUpdate(section, row int) bool {
	return s.dirtyRows[section][row]
}

func (s *Source[R]) SectionHeaderShouldUpdate(section int) bool {
	return s.dirtySections[section]
}

func (s *Source[R]) RowCount() int {
	n := 0
	for _, ids := range s.rowIDs {
		n += len(ids)
	}
	return n
}

func (s *Source[R]) RowAndSectionCount() int { return s.RowCount() + len(s.sectionIDs) }
