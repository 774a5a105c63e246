package datasource

import (
	"reflect"
	"testing"

	"github.com/Akashdeep-Patra/zed-list-view/internal/listview"
)

func neq(a, b int) bool { return a != b }

func TestCloneWithRows(t *testing.T) {
	ds := New(neq).CloneWithRows([]int{0, 1, 2})

	if got := ds.SectionIDs(); !reflect.DeepEqual(got, []string{"s1"}) {
		t.Errorf("expected [s1], got %v", got)
	}
	if got := ds.RowIDs(); !reflect.DeepEqual(got, [][]string{{"0", "1", "2"}}) {
		t.Errorf("expected positional ids, got %v", got)
	}
	if ds.RowCount() != 3 || ds.RowAndSectionCount() != 4 {
		t.Errorf("expected 3/4, got %d/%d", ds.RowCount(), ds.RowAndSectionCount())
	}
	for r := 0; r < 3; r++ {
		if !ds.RowShouldUpdate(0, r) {
			t.Errorf("row %d: expected dirty on first clone", r)
		}
	}
	if !ds.SectionHeaderShouldUpdate(0) {
		t.Error("expected new section dirty")
	}
}

func TestCloneDirtyFlags(t *testing.T) {
	first := New(neq).CloneWithRows([]int{10, 11, 12})
	second := first.CloneWithRows([]int{10, 99, 12, 13})

	want := []bool{false, true, false, true}
	for r, w := range want {
		if got := second.RowShouldUpdate(0, r); got != w {
			t.Errorf("row %d: expected dirty=%v, got %v", r, w, got)
		}
	}
	if second.SectionHeaderShouldUpdate(0) {
		t.Error("existing section without header comparator must stay clean")
	}
	if first == second {
		t.Error("clone must be a new identity")
	}
}

func TestCloneWithSections(t *testing.T) {
	base := New(neq, WithSectionHeaderHasChanged[int](func(a, b any) bool { return a != b }))
	first, err := base.CloneWithSections([]Section[int]{
		{ID: "a", Header: "A", Rows: []int{1, 2}, RowIDs: []string{"x", "y"}},
		{ID: "b", Header: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := first.CloneWithSections([]Section[int]{
		{ID: "a", Header: "A2", Rows: []int{2, 1}, RowIDs: []string{"y", "x"}},
		{ID: "b", Header: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !second.SectionHeaderShouldUpdate(0) || second.SectionHeaderShouldUpdate(1) {
		t.Error("expected only section a's header dirty")
	}
	// Rows are matched by ID, so reordering alone is not a change.
	if second.RowShouldUpdate(0, 0) || second.RowShouldUpdate(0, 1) {
		t.Error("expected reordered rows clean")
	}
	if second.Row(0, 0) != 2 || second.Header(0) != "A2" || second.SectionCount() != 2 {
		t.Errorf("unexpected accessors: %v %v %d", second.Row(0, 0), second.Header(0), second.SectionCount())
	}

	t.Run("rejects duplicates", func(t *testing.T) {
		tests := []struct {
			name     string
			sections []Section[int]
		}{
			{"section", []Section[int]{{ID: "a"}, {ID: "a"}}},
			{"row", []Section[int]{{ID: "a", Rows: []int{1, 2}, RowIDs: []string{"r", "r"}}}},
			{"mismatch", []Section[int]{{ID: "a", Rows: []int{1}, RowIDs: []string{}}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := base.CloneWithSections(tt.sections); err == nil {
					t.Error("expected error")
				}
			})
		}
	})
}

func TestSourceDrivesController(t *testing.T) {
	data := make([]int, 49)
	for i := range data {
		data[i] = i
	}
	ds := New(neq).CloneWithRows(data)
	c, err := listview.New(ds, nopHost{}, listview.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	flat, err := c.Render()
	if err != nil {
		t.Fatal(err)
	}
	if flat.Rows != 10 || c.Metrics().TotalRows != 49 {
		t.Errorf("expected 10 of 49 rows, got %d of %d", flat.Rows, c.Metrics().TotalRows)
	}
}

type nopHost struct{}

func (nopHost) RequestRender() {}
func (nopHost) SupportsMeasurement() bool { return false }
func (nopHost) MeasureFrames(func([]listview.FrameUpdate)) {}
func (nopHost) ScrollTo(float64, float64, bool) {}
func (nopHost) SupportsScrollToEnd() bool { return false }
func (nopHost) ScrollToEnd(bool) {}
