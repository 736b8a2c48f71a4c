package window

import (
	"testing"
	"time"
)

func TestRing(t *testing.T) {
	t.Run("EmptyMean", func(t *testing.T) {
		r := NewRing(5)
		if _, ok := r.Mean(); ok {
			t.Error("expected ok=false for empty ring")
		}
	})

	t.Run("MeanWithinCapacity", func(t *testing.T) {
		r := NewRing(5)
		for _, v := range []float64{100, 200, 300} {
			r.Push(v)
		}
		mean, ok := r.Mean()
		if !ok {
			t.Fatal("expected ok=true")
		}
		if mean != 200 {
			t.Errorf("expected mean 200, got %v", mean)
		}
	})

	t.Run("EvictsOldestBeyondCapacity", func(t *testing.T) {
		r := NewRing(3)
		for _, v := range []float64{1, 2, 3, 4} {
			r.Push(v)
		}
		if r.Len() != 3 {
			t.Fatalf("expected len 3, got %d", r.Len())
		}
		mean, _ := r.Mean()
		if mean != 3 { // (2+3+4)/3
			t.Errorf("expected mean 3 after eviction, got %v", mean)
		}
	})
}

func TestTimeWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("BoundaryInclusive", func(t *testing.T) {
		w := NewTimeWindow(time.Hour)
		w.Add(start)
		// Exactly 3600s later: the minute-0 entry is still inside.
		if got := w.Count(start.Add(60 * time.Minute)); got != 1 {
			t.Errorf("expected count 1 at the window boundary, got %d", got)
		}
		// One minute past the boundary: evicted.
		if got := w.Count(start.Add(61 * time.Minute)); got != 0 {
			t.Errorf("expected count 0 past the boundary, got %d", got)
		}
		// A fresh entry at minute 61 counts itself.
		w.Add(start.Add(61 * time.Minute))
		if got := w.Count(start.Add(61 * time.Minute)); got != 1 {
			t.Errorf("expected count 1 for the fresh entry, got %d", got)
		}
	})

	t.Run("MonotonicallyNonIncreasing", func(t *testing.T) {
		w := NewTimeWindow(time.Hour)
		for i := 0; i < 10; i++ {
			w.Add(start.Add(time.Duration(i) * time.Minute))
		}
		prev := w.Count(start.Add(10 * time.Minute))
		for m := 11; m < 120; m++ {
			got := w.Count(start.Add(time.Duration(m) * time.Minute))
			if got > prev {
				t.Fatalf("count increased from %d to %d at minute %d with no new entries", prev, got, m)
			}
			prev = got
		}
		if prev != 0 {
			t.Errorf("expected all entries evicted after two hours, got %d", prev)
		}
	})

	t.Run("CompactionKeepsOrder", func(t *testing.T) {
		w := NewTimeWindow(time.Minute)
		for i := 0; i < 1000; i++ {
			ts := start.Add(time.Duration(i) * time.Second)
			w.Add(ts)
			w.Evict(ts)
		}
		// 60s window, boundary inclusive: entries at t-60..t remain.
		if got := w.Count(start.Add(999 * time.Second)); got != 61 {
			t.Errorf("expected 61 entries in the trailing minute, got %d", got)
		}
	})
}
