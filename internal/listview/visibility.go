package listview

// VisibilitySet maps a section ID to the set of its visible row IDs.
// Sections with no visible rows are absent.
type VisibilitySet map[string]map[string]bool

// VisibilityDiff maps section ID → row ID → new visibility, for rows whose
// membership changed.
type VisibilityDiff map[string]map[string]bool

// Clone returns a deep copy.
func (s VisibilitySet) Clone() VisibilitySet {
	out := make(VisibilitySet, len(s))
	for sec, rows := range s {
		cp := make(map[string]bool, len(rows))
		for id, v := range rows {
			cp[id] = v
		}
		out[sec] = cp
	}
	return out
}

// Contains reports whether a row is visible.
func (s VisibilitySet) Contains(k RowKey) bool { return s[k.SectionID][k.RowID] }

// Rows returns the number of visible rows across all sections.
func (s VisibilitySet) Rows() int {
	n := 0
	for _, rows := range s {
		n += len(rows)
	}
	return n
}

func (d VisibilityDiff) record(sectionID, rowID string, visible bool) {
	sec, ok := d[sectionID]
	if !ok {
		sec = make(map[string]bool)
		d[sectionID] = sec
	}
	sec[rowID] = visible
}

// FrameTable stores measured frames keyed by stable row identity, so a
// change in flatten order between passes cannot attach a frame to the wrong
// row. Entries are overwritten, never deleted.
type FrameTable struct {
	frames map[RowKey]Frame
}

// NewFrameTable returns an empty table.
func NewFrameTable() *FrameTable {
	return &FrameTable{frames: make(map[RowKey]Frame)}
}

// Apply translates FlatIndex-keyed updates through the pass that produced
// them and stores the row frames. Non-row units are ignored. It returns the
// number of frames stored.
func (t *FrameTable) Apply(flat *Flat, updates []FrameUpdate) int {
	n := 0
	for _, up := range updates {
		u, ok := flat.Unit(up.FlatIndex)
		if !ok || u.Kind != UnitRow {
			continue
		}
		t.frames[u.RowKey()] = up.Frame
		n++
	}
	return n
}

// Set stores a frame for a row.
func (t *FrameTable) Set(k RowKey, f Frame) { t.frames[k] = f }

// Get returns the frame of a row.
func (t *FrameTable) Get(k RowKey) (Frame, bool) {
	f, ok := t.frames[k]
	return f, ok
}

// Len returns the number of stored frames.
func (t *FrameTable) Len() int { return len(t.frames) }

// VisibilityInput is everything a visibility pass reads.
type VisibilityInput struct {
	Source   DataSource
	Frames   *FrameTable
	Geometry ScrollGeometry
	Axis     Axis
	Previous VisibilitySet
}

// ComputeVisibility derives the visible rows from measured frames. It does
// not modify in.Previous and returns the same result for the same input.
//
// Frames arrive front to back, so the first unmeasured row of a section ends
// that section's scan; rows after it keep their previous state. Rows missing
// from the source are dropped from the set.
func ComputeVisibility(in VisibilityInput) (VisibilitySet, VisibilityDiff) {
	next := in.Previous.Clone()
	diff := make(VisibilityDiff)
	if in.Source == nil || in.Frames == nil {
		return next, diff
	}

	visibleMin := in.Geometry.Offset
	visibleMax := visibleMin + in.Geometry.VisibleLength.Value

	sectionIDs := in.Source.SectionIDs()
	for s, rowIDs := range in.Source.RowIDs() {
		if len(rowIDs) == 0 {
			continue
		}
		sectionID := sectionIDs[s]
		section := next[sectionID]
		if section == nil {
			section = make(map[string]bool)
		}

		for _, rowID := range rowIDs {
			frame, ok := in.Frames.Get(RowKey{SectionID: sectionID, RowID: rowID})
			if !ok {
				break
			}
			lo, hi := extent(in.Axis, frame)
			if degenerate(lo, hi) {
				break
			}
			was := section[rowID]
			visible := !(lo > visibleMax || hi < visibleMin)
			switch {
			case visible && !was:
				section[rowID] = true
				diff.record(sectionID, rowID, true)
			case !visible && was:
				delete(section, rowID)
				diff.record(sectionID, rowID, false)
			}
		}

		if len(section) > 0 {
			next[sectionID] = section
		} else {
			delete(next, sectionID)
		}
	}
	dropRemoved(next, diff, sectionIDs, in.Source.RowIDs())
	return next, diff
}

// dropRemoved clears visible rows that are no longer in the data source and
// records them as hidden.
func dropRemoved(next VisibilitySet, diff VisibilityDiff, sectionIDs []string, rowIDs [][]string) {
	present := make(map[string]map[string]bool, len(sectionIDs))
	for s, sectionID := range sectionIDs {
		rows := make(map[string]bool, len(rowIDs[s]))
		for _, rowID := range rowIDs[s] {
			rows[rowID] = true
		}
		present[sectionID] = rows
	}
	for sectionID, section := range next {
		for rowID := range section {
			if !present[sectionID][rowID] {
				delete(section, rowID)
				diff.record(sectionID, rowID, false)
			}
		}
		if len(section) == 0 {
			delete(next, sectionID)
		}
	}
}
