package listview

import (
	"reflect"
	"testing"
)

// stackFrames stores vertical frames of height h for the given rows, in
// order, starting at y=start.
func stackFrames(t *FrameTable, start, h float64, keys ...RowKey) {
	y := start
	for _, k := range keys {
		t.Set(k, Frame{Y: y, Width: 80, Height: h})
		y += h
	}
}

func TestComputeVisibilityDiff(t *testing.T) {
	ds := newFakeSource(rowsN(5), rowsN(3))
	frames := NewFrameTable()
	var keys []RowKey
	for s, rows := range ds.rows {
		for _, r := range rows {
			keys = append(keys, RowKey{ds.ids[s], r})
		}
	}
	stackFrames(frames, 0, 100, keys...)

	first, diff := ComputeVisibility(VisibilityInput{
		Source: ds, Frames: frames, Geometry: geometry(800, 250, 0),
	})
	wantFirst := VisibilitySet{"s0": {"r0": true, "r1": true, "r2": true}}
	if !reflect.DeepEqual(first, wantFirst) {
		t.Fatalf("expected %v, got %v", wantFirst, first)
	}
	if !reflect.DeepEqual(VisibilitySet(diff), wantFirst) {
		t.Errorf("expected diff %v, got %v", wantFirst, diff)
	}

	second, diff := ComputeVisibility(VisibilityInput{
		Source: ds, Frames: frames, Geometry: geometry(800, 250, 440), Previous: first,
	})
	wantSecond := VisibilitySet{"s0": {"r4": true}, "s1": {"r0": true, "r1": true}}
	if !reflect.DeepEqual(second, wantSecond) {
		t.Errorf("expected %v, got %v", wantSecond, second)
	}
	wantDiff := VisibilityDiff{
		"s0": {"r0": false, "r1": false, "r2": false, "r4": true},
		"s1": {"r0": true, "r1": true},
	}
	if !reflect.DeepEqual(diff, wantDiff) {
		t.Errorf("expected diff %v, got %v", wantDiff, diff)
	}
	if !first.Contains(RowKey{"s0", "r0"}) {
		t.Error("previous set must not be modified")
	}

	t.Run("idempotent", func(t *testing.T) {
		again, diff := ComputeVisibility(VisibilityInput{
			Source: ds, Frames: frames, Geometry: geometry(800, 250, 440), Previous: second,
		})
		if !reflect.DeepEqual(again, second) || len(diff) != 0 {
			t.Errorf("expected no change, got %v / %v", again, diff)
		}
	})
}

func TestComputeVisibilityStopsAtUnmeasured(t *testing.T) {
	ds := newFakeSource(rowsN(4))
	frames := NewFrameTable()
	stackFrames(frames, 0, 10, RowKey{"s0", "r0"})
	frames.Set(RowKey{"s0", "r1"}, Frame{Y: 10, Width: 80}) // zero height
	frames.Set(RowKey{"s0", "r2"}, Frame{Y: 20, Width: 80, Height: 10})

	got, _ := ComputeVisibility(VisibilityInput{Source: ds, Frames: frames, Geometry: geometry(100, 100, 0)})
	want := VisibilitySet{"s0": {"r0": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComputeVisibilityPrunesEmptySections(t *testing.T) {
	ds := newFakeSource(rowsN(1), rowsN(1))
	frames := NewFrameTable()
	stackFrames(frames, 0, 50, RowKey{"s0", "r0"}, RowKey{"s1", "r0"})

	prev := VisibilitySet{"s0": {"r0": true}}
	got, diff := ComputeVisibility(VisibilityInput{
		Source: ds, Frames: frames, Geometry: geometry(100, 20, 70), Previous: prev,
	})
	if _, ok := got["s0"]; ok {
		t.Errorf("expected s0 pruned, got %v", got)
	}
	if v, ok := diff["s0"]["r0"]; !ok || v {
		t.Errorf("expected s0/r0 -> false in diff, got %v", diff)
	}
	if !got.Contains(RowKey{"s1", "r0"}) {
		t.Errorf("expected s1/r0 visible, got %v", got)
	}
}

func TestComputeVisibilityHorizontal(t *testing.T) {
	ds := newFakeSource(rowsN(3))
	frames := NewFrameTable()
	for i, r := range ds.rows[0] {
		frames.Set(RowKey{"s0", r}, Frame{X: float64(i) * 40, Y: 0, Width: 40, Height: 300})
	}
	got, _ := ComputeVisibility(VisibilityInput{
		Source: ds, Frames: frames, Geometry: geometry(120, 25, 50), Axis: Horizontal,
	})
	want := VisibilitySet{"s0": {"r1": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFrameTableApply(t *testing.T) {
	ds := newFakeSource([]string{"a", "b"})
	flat := mustFlatten(t, FlattenInput{
		Layout: Layout{Header: true, Separators: true}, Source: ds, Materialized: 2,
	})
	table := NewFrameTable()
	n := table.Apply(flat, []FrameUpdate{
		{FlatIndex: 0, Frame: Frame{Height: 5}},         // header
		{FlatIndex: 1, Frame: Frame{Y: 5, Height: 10}},  // a
		{FlatIndex: 2, Frame: Frame{Y: 15, Height: 1}},  // separator
		{FlatIndex: 3, Frame: Frame{Y: 16, Height: 10}}, // b
		{FlatIndex: 9, Frame: Frame{Height: 1}},         // stale
	})
	if n != 2 || table.Len() != 2 {
		t.Fatalf("expected 2 row frames, got %d/%d", n, table.Len())
	}
	if f, ok := table.Get(RowKey{"s0", "b"}); !ok || f.Y != 16 {
		t.Errorf("expected b at 16, got %+v", f)
	}
}

func TestComputeVisibilityDropsRemovedRows(t *testing.T) {
	before := &fakeSource{ids: []string{"s0", "s1"}, rows: [][]string{{"p1", "p2"}, {"p3"}}}
	frames := NewFrameTable()
	stackFrames(frames, 0, 10, RowKey{"s0", "p1"}, RowKey{"s0", "p2"}, RowKey{"s1", "p3"})
	prev, _ := ComputeVisibility(VisibilityInput{Source: before, Frames: frames, Geometry: geometry(30, 100, 0)})
	if prev.Rows() != 3 {
		t.Fatalf("expected 3 visible rows, got %v", prev)
	}

	after := &fakeSource{ids: []string{"s0", "s2"}, rows: [][]string{{"p1"}, {"p3"}}}
	stackFrames(frames, 10, 10, RowKey{"s2", "p3"})
	got, diff := ComputeVisibility(VisibilityInput{
		Source: after, Frames: frames, Geometry: geometry(20, 100, 0), Previous: prev,
	})
	want := VisibilitySet{"s0": {"p1": true}, "s2": {"p3": true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	wantDiff := VisibilityDiff{"s0": {"p2": false}, "s1": {"p3": false}, "s2": {"p3": true}}
	if !reflect.DeepEqual(diff, wantDiff) {
		t.Errorf("expected diff %v, got %v", wantDiff, diff)
	}
}
