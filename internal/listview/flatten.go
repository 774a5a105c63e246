package listview

import (
	"log/slog"
)

// UnitKind classifies a rendered unit.
type UnitKind int

const (
	UnitHeader UnitKind = iota
	UnitSectionHeader
	UnitRow
	UnitSeparator
	UnitFooter
)

func (k UnitKind) String() string {
	switch k {
	case UnitHeader:
		return "header"
	case UnitSectionHeader:
		return "section-header"
	case UnitRow:
		return "row"
	case UnitSeparator:
		return "separator"
	case UnitFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Unit is one rendered element of a flattened list.
type Unit struct {
	Kind      UnitKind
	FlatIndex int

	// Section and Row are positional indexes into the data source; -1 when
	// not applicable. A separator carries the row it follows.
	Section   int
	Row       int
	SectionID string
	RowID     string

	// Key is stable across passes and unique within one pass.
	Key string

	// ShouldUpdate is the render gate: hosts that already hold a rendering
	// for Key may keep it when this is false.
	ShouldUpdate bool

	// Highlighted is set on separators adjacent to the highlighted row.
	Highlighted bool
}

// RowKey returns the row identity of a row or separator unit.
func (u Unit) RowKey() RowKey { return RowKey{SectionID: u.SectionID, RowID: u.RowID} }

// Layout says which optional units the host renders.
type Layout struct {
	Header         bool
	Footer         bool
	SectionHeaders bool
	Separators     bool
}

// FlattenInput is everything the Flattener reads.
type FlattenInput struct {
	Layout               Layout
	StickySectionHeaders bool
	StickyHeaderIndices  []int
	EnableEmptySections  *bool

	Source           DataSource
	Materialized     int
	PrevMaterialized int

	// Highlight is the highlighted row of this pass, PrevHighlight the one
	// of the previous pass. A separator whose adjacent-highlight state
	// differs between the two always re-renders.
	Highlight     RowKey
	PrevHighlight RowKey

	Logger *slog.Logger
}

// Flat is the result of one flatten pass.
type Flat struct {
	Units         []Unit
	StickyIndices []int
	// Rows is the number of row units emitted.
	Rows int

	rows map[RowKey]int
}

// Unit returns the unit at a FlatIndex.
func (f *Flat) Unit(idx int) (Unit, bool) {
	if f == nil || idx < 0 || idx >= len(f.Units) {
		return Unit{}, false
	}
	return f.Units[idx], true
}

// IndexOf returns the FlatIndex of a materialized row.
func (f *Flat) IndexOf(k RowKey) (int, bool) {
	if f == nil {
		return 0, false
	}
	idx, ok := f.rows[k]
	return idx, ok
}

// Updates returns the FlatIndexes whose render gate is open.
func (f *Flat) Updates() []int {
	var out []int
	for _, u := range f.Units {
		if u.ShouldUpdate {
			out = append(out, u.FlatIndex)
		}
	}
	return out
}

// Count returns how many units of kind k the pass produced.
func (f *Flat) Count(k UnitKind) int {
	n := 0
	for _, u := range f.Units {
		if u.Kind == k {
			n++
		}
	}
	return n
}

// Flatten maps the sectioned data source onto a dense FlatIndex sequence.
// It is deterministic: identical inputs give identical output.
//
// A separator follows every row except the last row of the final non-empty
// section. Rows stop after in.Materialized rows; the footer is always
// emitted.
func Flatten(in FlattenInput) (*Flat, error) {
	log := in.Logger
	if log == nil {
		log = slog.Default()
	}

	f := &Flat{
		StickyIndices: append([]int{}, in.StickyHeaderIndices...),
		rows:          make(map[RowKey]int),
	}
	push := func(u Unit) int {
		u.FlatIndex = len(f.Units)
		f.Units = append(f.Units, u)
		return u.FlatIndex
	}

	if in.Layout.Header {
		push(Unit{Kind: UnitHeader, Section: -1, Row: -1, Key: "h"})
	}

	if ds := in.Source; ds != nil {
		sectionIDs := ds.SectionIDs()
		allRows := ds.RowIDs()
		assertf(len(sectionIDs) == len(allRows), "section-row-shape",
			"%d section ids, %d row id lists", len(sectionIDs), len(allRows))

		last := lastNonEmpty(allRows)
		rowCount := 0

		for s, rowIDs := range allRows {
			if rowCount >= in.Materialized {
				break
			}
			sectionID := sectionIDs[s]

			if len(rowIDs) == 0 {
				if in.EnableEmptySections == nil {
					log.Warn("skipping empty section; set enable empty sections to render its header",
						"section", sectionID)
					continue
				}
				if !*in.EnableEmptySections {
					return nil, &InvariantError{
						Invariant: "enable-empty-sections-opt-in",
						Detail:    "empty section " + sectionID + " encountered with the flag set to false",
						Err:       ErrEmptySectionsOptIn,
					}
				}
			}

			if in.Layout.SectionHeaders {
				idx := push(Unit{
					Kind:         UnitSectionHeader,
					Section:      s,
					Row:          -1,
					SectionID:    sectionID,
					Key:          "s_" + sectionID,
					ShouldUpdate: rowCount >= in.PrevMaterialized && ds.SectionHeaderShouldUpdate(s),
				})
				if in.StickySectionHeaders {
					f.StickyIndices = append(f.StickyIndices, idx)
				}
			}

			for r, rowID := range rowIDs {
				key := RowKey{SectionID: sectionID, RowID: rowID}
				fresh := rowCount >= in.PrevMaterialized
				rowChanged := ds.RowShouldUpdate(s, r)

				f.rows[key] = push(Unit{
					Kind:         UnitRow,
					Section:      s,
					Row:          r,
					SectionID:    sectionID,
					RowID:        rowID,
					Key:          "r_" + key.String(),
					ShouldUpdate: fresh && rowChanged,
				})

				if in.Layout.Separators && (s != last || r != len(rowIDs)-1) {
					lit := adjacentHighlighted(in.Highlight, sectionID, rowIDs, r)
					wasLit := adjacentHighlighted(in.PrevHighlight, sectionID, rowIDs, r)
					push(Unit{
						Kind:         UnitSeparator,
						Section:      s,
						Row:          r,
						SectionID:    sectionID,
						RowID:        rowID,
						Key:          "sep_" + key.String(),
						ShouldUpdate: (fresh && rowChanged) || lit != wasLit,
						Highlighted:  lit,
					})
				}

				rowCount++
				if rowCount >= in.Materialized {
					break
				}
			}
		}
		f.Rows = rowCount
	}

	if in.Layout.Footer {
		push(Unit{Kind: UnitFooter, Section: -1, Row: -1, Key: "f"})
	}
	return f, nil
}

// lastNonEmpty returns the index of the final section with rows, or -1.
func lastNonEmpty(allRows [][]string) int {
	for s := len(allRows) - 1; s >= 0; s-- {
		if len(allRows[s]) > 0 {
			return s
		}
	}
	return -1
}

// adjacentHighlighted reports whether the separator after row r touches the
// highlighted row (the row itself or the next row of the same section).
func adjacentHighlighted(h RowKey, sectionID string, rowIDs []string, r int) bool {
	if h.IsZero() || h.SectionID != sectionID {
		return false
	}
	if h.RowID == rowIDs[r] {
		return true
	}
	return r+1 < len(rowIDs) && h.RowID == rowIDs[r+1]
}
