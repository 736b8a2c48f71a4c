package learner

import (
	"sort"
)

// MacroF1 is a running macro-averaged F1 score over all labels observed in
// either ground truth or predictions.
type MacroF1 struct {
	TP     map[string]float64
	FP     map[string]float64
	FN     map[string]float64
	Labels map[string]bool
}

// NewMacroF1 creates an empty metric.
func NewMacroF1() *MacroF1 {
	return &MacroF1{
		TP:     make(map[string]float64),
		FP:     make(map[string]float64),
		FN:     make(map[string]float64),
		Labels: make(map[string]bool),
	}
}

// Update folds one (truth, prediction) pair into the running counts.
func (m *MacroF1) Update(truth, pred string) {
	m.Labels[truth] = true
	m.Labels[pred] = true
	if truth == pred {
		m.TP[truth]++
		return
	}
	m.FP[pred]++
	m.FN[truth]++
}

// Get returns the macro average of per-label F1 scores. Labels with no
// true positives and no errors contribute zero, matching the convention
// of treating undefined F1 as zero.
func (m *MacroF1) Get() float64 {
	if len(m.Labels) == 0 {
		return 0
	}
	labels := make([]string, 0, len(m.Labels))
	for l := range m.Labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var sum float64
	for _, l := range labels {
		denom := 2*m.TP[l] + m.FP[l] + m.FN[l]
		if denom > 0 {
			sum += 2 * m.TP[l] / denom
		}
	}
	return sum / float64(len(labels))
}
