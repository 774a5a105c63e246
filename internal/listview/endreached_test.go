package listview

import "testing"

func TestEndReachedDetector(t *testing.T) {
	const threshold = 1000
	var d EndReachedDetector

	near := geometry(3000, 800, 2000) // distance 200
	far := geometry(3000, 800, 700)   // distance 1500

	if d.Check(near, 49, 40, threshold) {
		t.Error("must not fire before the window covers the list")
	}
	if !d.Check(near, 49, 49, threshold) {
		t.Fatal("expected first qualifying check to fire")
	}
	if d.Check(near, 49, 49, threshold) {
		t.Error("repeated check with same content length fired twice")
	}
	if d.Armed() {
		t.Error("expected FIRED state")
	}

	d.ResetIfScrolledAway(near, threshold)
	if d.Armed() {
		t.Error("reset inside the end zone must not re-arm")
	}
	d.ResetIfScrolledAway(far, threshold)
	if !d.Armed() {
		t.Fatal("expected ARMED after scrolling away")
	}
	if !d.Check(near, 49, 49, threshold) {
		t.Error("expected re-fire for the same content length after reset")
	}

	t.Run("new content length fires without reset", func(t *testing.T) {
		var d EndReachedDetector
		d.Check(near, 1, 1, threshold)
		longer := geometry(3100, 800, 2100)
		if !d.Check(longer, 1, 1, threshold) {
			t.Error("expected fire for new content length")
		}
		if got := d.SentFor(); !got.Equal(KnownLength(3100)) {
			t.Errorf("expected sent 3100, got %+v", got)
		}
	})

	t.Run("unknown geometry never fires", func(t *testing.T) {
		var d EndReachedDetector
		if d.Check(ScrollGeometry{}, 0, 0, threshold) {
			t.Error("fired with unknown geometry")
		}
	})
}
