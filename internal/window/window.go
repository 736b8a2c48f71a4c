// Package window provides bounded history containers used for per-account
// behavioral state: a fixed-capacity ring of recent values and a sliding
// time window with lazy eviction.
package window

import (
	"time"
)

// Ring is a fixed-capacity FIFO of float64 values. Pushing beyond capacity
// evicts the oldest value.
type Ring struct {
	vals []float64
	head int
	size int
}

// NewRing creates a ring holding at most capacity values.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{vals: make([]float64, capacity)}
}

// Push appends a value, evicting the oldest when full.
func (r *Ring) Push(v float64) {
	if r.size < len(r.vals) {
		r.vals[(r.head+r.size)%len(r.vals)] = v
		r.size++
		return
	}
	r.vals[r.head] = v
	r.head = (r.head + 1) % len(r.vals)
}

// Len returns the number of stored values.
func (r *Ring) Len() int {
	return r.size
}

// Mean returns the average of stored values. ok is false when empty.
func (r *Ring) Mean() (mean float64, ok bool) {
	if r.size == 0 {
		return 0, false
	}
	var sum float64
	for i := 0; i < r.size; i++ {
		sum += r.vals[(r.head+i)%len(r.vals)]
	}
	return sum / float64(r.size), true
}

// TimeWindow is a sliding window of timestamps with a fixed span.
// Eviction is lazy: callers must Evict (or use Count) before reading so
// stale entries are never counted. Entries strictly older than the span
// relative to now are evicted; an entry exactly at the span boundary stays.
type TimeWindow struct {
	span  time.Duration
	times []time.Time
	head  int
}

// NewTimeWindow creates a window covering the trailing span.
func NewTimeWindow(span time.Duration) *TimeWindow {
	return &TimeWindow{span: span}
}

// Add appends a timestamp. Timestamps are expected in non-decreasing order;
// the window does not reorder them.
func (w *TimeWindow) Add(ts time.Time) {
	w.times = append(w.times, ts)
}

// Evict drops all entries strictly older than the span relative to now.
// Amortized O(1) per Add: the head index advances and the backing slice is
// compacted once half of it is dead.
func (w *TimeWindow) Evict(now time.Time) {
	for w.head < len(w.times) && now.Sub(w.times[w.head]) > w.span {
		w.head++
	}
	if w.head > len(w.times)/2 {
		w.times = append(w.times[:0], w.times[w.head:]...)
		w.head = 0
	}
}

// Count evicts stale entries and returns the number remaining.
func (w *TimeWindow) Count(now time.Time) int {
	w.Evict(now)
	return len(w.times) - w.head
}
