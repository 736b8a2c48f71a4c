// Package learner implements the online classification pipeline: an
// incrementally fitted standardizer, a growing one-hot encoder and a
// Hoeffding-style incremental tree, composed as named stages invoked in a
// fixed order. All stages learn one observation at a time.
package learner

import (
	"math"
)

// Welford tracks running mean and variance of one feature.
// Fields are exported for gob serialization.
type Welford struct {
	N    float64
	Mean float64
	M2   float64
}

// Update folds one observation into the running statistics.
func (w *Welford) Update(x float64) {
	w.N++
	delta := x - w.Mean
	w.Mean += delta / w.N
	w.M2 += delta * (x - w.Mean)
}

// Var returns the population variance.
func (w *Welford) Var() float64 {
	if w.N == 0 {
		return 0
	}
	return w.M2 / w.N
}

// Std returns the population standard deviation.
func (w *Welford) Std() float64 {
	return math.Sqrt(w.Var())
}

// Scaler standardizes numeric features using running statistics.
type Scaler struct {
	Stats map[string]*Welford
}

// NewScaler creates an empty scaler.
func NewScaler() *Scaler {
	return &Scaler{Stats: make(map[string]*Welford)}
}

// Learn updates the running statistics with one observation.
func (s *Scaler) Learn(x map[string]float64) {
	for name, v := range x {
		st, ok := s.Stats[name]
		if !ok {
			st = &Welford{}
			s.Stats[name] = st
		}
		st.Update(v)
	}
}

// Transform standardizes an observation with the current statistics.
// Features with no observed spread (or never observed) map to zero, so a
// cold-start prediction is centered rather than wild.
func (s *Scaler) Transform(x map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(x))
	for name, v := range x {
		st, ok := s.Stats[name]
		if !ok || st.Std() == 0 {
			out[name] = 0
			continue
		}
		out[name] = (v - st.Mean) / st.Std()
	}
	return out
}
