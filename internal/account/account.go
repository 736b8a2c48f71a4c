// Package account maintains per-account behavioral memory for the stream
// simulator: immutable baselines plus bounded histories that back the
// velocity and recency features.
package account

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/opensource-finance/shrike/internal/window"
)

const (
	// amountHistoryCap bounds the per-account amount history.
	amountHistoryCap = 50

	// velocitySpan is the trailing window for transaction counting.
	velocitySpan = time.Hour

	// noPriorTxnSecs is the recency sentinel for accounts with no history.
	noPriorTxnSecs = 99999
)

// State is one account's behavioral record. Age, AvgTxnValue and
// TrustedDevice are fixed for the run; DeviceID changes under
// takeover-style fraud; the histories grow with every sent transaction.
type State struct {
	ID            string
	Age           int
	AvgTxnValue   float64
	DeviceID      string
	TrustedDevice string

	lastTxn time.Time
	hasTxn  bool
	amounts *window.Ring
	recent  *window.TimeWindow
}

// Store owns the account population for one simulation run. It is not
// safe for concurrent use; the driver loop is its only caller.
type Store struct {
	ids    []string
	states map[string]*State
}

// NewStore creates one state record per account with randomized but
// range-bounded baselines. Device IDs come from a pool of size n/3 so
// device reuse across accounts occurs by construction. Each account's
// trusted device is its initial device.
func NewStore(n int, rng *rand.Rand) *Store {
	pool := n / 3
	if pool < 1 {
		pool = 1
	}

	s := &Store{
		ids:    make([]string, 0, n),
		states: make(map[string]*State, n),
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("U%05d", i)
		device := fmt.Sprintf("D%d", rng.Intn(pool)+1)
		s.ids = append(s.ids, id)
		s.states[id] = &State{
			ID:            id,
			Age:           rng.Intn(2500) + 1,
			AvgTxnValue:   float64(rng.Intn(1701) + 300),
			DeviceID:      device,
			TrustedDevice: device,
			amounts:       window.NewRing(amountHistoryCap),
			recent:        window.NewTimeWindow(velocitySpan),
		}
	}
	return s
}

// IDs returns the account population in creation order. Callers must not
// mutate the returned slice.
func (s *Store) IDs() []string {
	return s.ids
}

// Get returns the state record for an account, or nil if unknown.
func (s *Store) Get(id string) *State {
	return s.states[id]
}

// Record registers a sent transaction: appends the amount to the bounded
// history, the timestamp to the velocity window, and updates the last
// transaction time. Called after feature extraction so the current event
// never leaks into its own features.
func (s *Store) Record(id string, amount float64, ts time.Time) {
	st := s.states[id]
	if st == nil {
		return
	}
	st.amounts.Push(amount)
	st.recent.Add(ts)
	st.lastTxn = ts
	st.hasTxn = true
}

// VelocityCount evicts window entries older than one hour relative to now,
// then returns the remaining count. Eviction happens before counting so
// stale entries are never overcounted.
func (s *Store) VelocityCount(id string, now time.Time) int {
	st := s.states[id]
	if st == nil {
		return 0
	}
	return st.recent.Count(now)
}

// AmountChangeRatio compares an amount against the mean of the account's
// recent amounts. Returns 1.0 when no history exists; the denominator is
// floored at 1 and the result rounded to 2 decimals.
func (s *Store) AmountChangeRatio(id string, amount float64) float64 {
	st := s.states[id]
	if st == nil {
		return 1.0
	}
	mean, ok := st.amounts.Mean()
	if !ok {
		return 1.0
	}
	return math.Round(amount/math.Max(mean, 1)*100) / 100
}

// TimeSinceLast returns elapsed whole seconds since the account's previous
// transaction, or a large sentinel when there is none.
func (s *Store) TimeSinceLast(id string, now time.Time) int64 {
	st := s.states[id]
	if st == nil || !st.hasTxn {
		return noPriorTxnSecs
	}
	return int64(now.Sub(st.lastTxn).Seconds())
}

// SetDevice replaces the account's current device. Used by takeover-style
// typologies where the attacker's device persists on the account.
func (s *Store) SetDevice(id, device string) {
	if st := s.states[id]; st != nil {
		st.DeviceID = device
	}
}
