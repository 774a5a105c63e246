package listview

// DataSource supplies ordered section/row identities, per-unit data, and
// change-detection predicates. Section and row arguments are positional
// indexes into SectionIDs and RowIDs.
//
// The Controller treats a DataSource value as an identity: replacing it with
// a different value (see Controller.SetDataSource) starts a new epoch.
// Values are compared with ==, so implementations must be pointers or other
// comparable types; a struct holding slices panics on comparison.
type DataSource interface {
	SectionIDs() []string
	// RowIDs returns one slice of row identities per section, in the same
	// order as SectionIDs.
	RowIDs() [][]string

	RowData(section, row int) any
	SectionHeaderData(section int) any

	RowShouldUpdate(section, row int) bool
	SectionHeaderShouldUpdate(section int) bool

	// RowCount is the number of rows across all sections.
	RowCount() int
	// RowAndSectionCount is RowCount plus the number of sections. It is the
	// total used when empty sections are enabled.
	RowAndSectionCount() int
}

// RowKey identifies a row by its stable section and row identities.
type RowKey struct {
	SectionID string
	RowID     string
}

// String returns the combined key, unique within one list.
func (k RowKey) String() string { return k.SectionID + "_" + k.RowID }

// IsZero reports whether k is the empty key.
func (k RowKey) IsZero() bool { return k.SectionID == "" && k.RowID == "" }

// totalRows returns the collection size the window is bounded by.
func totalRows(ds DataSource, emptySections bool) int {
	if ds == nil {
		return 0
	}
	if emptySections {
		return ds.RowAndSectionCount()
	}
	return ds.RowCount()
}
