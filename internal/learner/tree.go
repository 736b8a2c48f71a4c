package learner

import (
	"math"
	"sort"
)

// TreeConfig tunes the incremental tree.
type TreeConfig struct {
	// GracePeriod is the number of observations a leaf accumulates between
	// split attempts.
	GracePeriod int

	// Delta is the split confidence: one minus the probability that the
	// chosen split is the true best.
	Delta float64

	// TieThreshold forces a split when the Hoeffding bound shrinks below
	// it, breaking ties between near-equal candidates.
	TieThreshold float64
}

// DefaultTreeConfig mirrors the simulator's tuned values.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		GracePeriod:  200,
		Delta:        1e-5,
		TieThreshold: 0.05,
	}
}

// LeafStats holds sufficient statistics for prediction and split search:
// class counts plus per-feature per-class running Gaussians.
type LeafStats struct {
	ClassCounts  map[string]float64
	FeatureStats map[string]map[string]*Welford
	SinceAttempt float64
}

func newLeafStats() *LeafStats {
	return &LeafStats{
		ClassCounts:  make(map[string]float64),
		FeatureStats: make(map[string]map[string]*Welford),
	}
}

func (l *LeafStats) total() float64 {
	var n float64
	for _, c := range l.ClassCounts {
		n += c
	}
	return n
}

// Node is either an internal binary split (Feature <= Threshold goes left)
// or a leaf carrying statistics.
type Node struct {
	Feature   string
	Threshold float64
	Left      *Node
	Right     *Node
	Leaf      *LeafStats
}

// HoeffdingTree is an incremental decision tree: it grows by splitting
// leaves only when the Hoeffding bound guarantees, with confidence
// 1-Delta, that the observed best split beats the runner-up. Leaves
// predict with naive Bayes over their Gaussian estimators.
type HoeffdingTree struct {
	Cfg     TreeConfig
	Root    *Node
	Classes map[string]bool
	Seen    float64
}

// NewHoeffdingTree creates an empty tree.
func NewHoeffdingTree(cfg TreeConfig) *HoeffdingTree {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultTreeConfig().GracePeriod
	}
	if cfg.Delta <= 0 {
		cfg.Delta = DefaultTreeConfig().Delta
	}
	return &HoeffdingTree{
		Cfg:     cfg,
		Root:    &Node{Leaf: newLeafStats()},
		Classes: make(map[string]bool),
	}
}

// Learn folds one labeled observation into the tree.
func (t *HoeffdingTree) Learn(x map[string]float64, y string) {
	t.Classes[y] = true
	t.Seen++

	leaf := t.sortToLeaf(x)
	stats := leaf.Leaf
	stats.ClassCounts[y]++
	for name, v := range x {
		perClass, ok := stats.FeatureStats[name]
		if !ok {
			perClass = make(map[string]*Welford)
			stats.FeatureStats[name] = perClass
		}
		w, ok := perClass[y]
		if !ok {
			w = &Welford{}
			perClass[y] = w
		}
		w.Update(v)
	}

	stats.SinceAttempt++
	if int(stats.SinceAttempt) >= t.Cfg.GracePeriod {
		stats.SinceAttempt = 0
		t.attemptSplit(leaf)
	}
}

// Predict returns the predicted label for an observation. ok is false when
// the tree has seen no data yet (the learner abstains).
func (t *HoeffdingTree) Predict(x map[string]float64) (string, bool) {
	if t.Seen == 0 {
		return "", false
	}
	leaf := t.sortToLeaf(x).Leaf
	if leaf.total() == 0 {
		return "", false
	}
	return leaf.predictNB(x), true
}

// ClassLabels returns all observed labels in sorted order.
func (t *HoeffdingTree) ClassLabels() []string {
	labels := make([]string, 0, len(t.Classes))
	for c := range t.Classes {
		labels = append(labels, c)
	}
	sort.Strings(labels)
	return labels
}

func (t *HoeffdingTree) sortToLeaf(x map[string]float64) *Node {
	n := t.Root
	for n.Leaf == nil {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

// predictNB scores classes with log priors plus per-feature Gaussian
// log-likelihoods, skipping features the leaf has no estimator for.
func (l *LeafStats) predictNB(x map[string]float64) string {
	total := l.total()
	best, bestScore := "", math.Inf(-1)

	classes := make([]string, 0, len(l.ClassCounts))
	for c := range l.ClassCounts {
		classes = append(classes, c)
	}
	sort.Strings(classes) // deterministic tie-breaking

	for _, c := range classes {
		count := l.ClassCounts[c]
		if count == 0 {
			continue
		}
		score := math.Log(count / total)
		for name, perClass := range l.FeatureStats {
			w, ok := perClass[c]
			if !ok || w.N < 1 {
				continue
			}
			variance := math.Max(w.Var(), 1e-4)
			diff := x[name] - w.Mean
			score += -0.5*math.Log(2*math.Pi*variance) - diff*diff/(2*variance)
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// attemptSplit evaluates candidate binary splits and converts the leaf to
// an internal node when the best candidate clears the Hoeffding bound.
func (t *HoeffdingTree) attemptSplit(n *Node) {
	stats := n.Leaf

	active := 0
	for _, c := range stats.ClassCounts {
		if c > 0 {
			active++
		}
	}
	if active < 2 {
		return
	}

	baseEntropy := entropy(stats.ClassCounts)
	bestGain, secondGain := 0.0, 0.0
	var bestFeature string
	var bestThreshold float64
	var bestLeft, bestRight map[string]float64

	featureNames := make([]string, 0, len(stats.FeatureStats))
	for name := range stats.FeatureStats {
		featureNames = append(featureNames, name)
	}
	sort.Strings(featureNames) // deterministic candidate order

	for _, name := range featureNames {
		threshold, left, right, ok := stats.candidateSplit(name)
		if !ok {
			continue
		}
		gain := baseEntropy - weightedEntropy(left, right)
		if gain > bestGain {
			secondGain = bestGain
			bestGain, bestFeature, bestThreshold = gain, name, threshold
			bestLeft, bestRight = left, right
		} else if gain > secondGain {
			secondGain = gain
		}
	}

	if bestGain <= 0 {
		return
	}

	bound := hoeffdingBound(float64(active), t.Cfg.Delta, stats.total())
	if bestGain-secondGain <= bound && bound >= t.Cfg.TieThreshold {
		return
	}

	n.Feature = bestFeature
	n.Threshold = bestThreshold
	n.Left = &Node{Leaf: seededLeaf(bestLeft)}
	n.Right = &Node{Leaf: seededLeaf(bestRight)}
	n.Leaf = nil
}

// candidateSplit proposes one threshold per feature (the count-weighted
// centroid of the class means) and projects class mass to each side with
// the Gaussian CDF.
func (l *LeafStats) candidateSplit(feature string) (threshold float64, left, right map[string]float64, ok bool) {
	perClass := l.FeatureStats[feature]

	var weightedMean, weight float64
	for c, w := range perClass {
		count := l.ClassCounts[c]
		if count == 0 || w.N == 0 {
			continue
		}
		weightedMean += w.Mean * count
		weight += count
	}
	if weight == 0 {
		return 0, nil, nil, false
	}
	threshold = weightedMean / weight

	left = make(map[string]float64, len(perClass))
	right = make(map[string]float64, len(perClass))
	for c, w := range perClass {
		count := l.ClassCounts[c]
		if count == 0 || w.N == 0 {
			continue
		}
		frac := normalCDF(threshold, w.Mean, math.Max(w.Std(), 1e-3))
		left[c] = count * frac
		right[c] = count * (1 - frac)
	}
	return threshold, left, right, true
}

// seededLeaf starts a child with its projected class distribution so it
// predicts sensibly before accumulating its own observations.
func seededLeaf(counts map[string]float64) *LeafStats {
	l := newLeafStats()
	for c, n := range counts {
		if n > 1e-9 {
			l.ClassCounts[c] = n
		}
	}
	return l
}

func entropy(counts map[string]float64) float64 {
	var total float64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c > 0 {
			p := c / total
			h -= p * math.Log2(p)
		}
	}
	return h
}

func weightedEntropy(left, right map[string]float64) float64 {
	var nl, nr float64
	for _, c := range left {
		nl += c
	}
	for _, c := range right {
		nr += c
	}
	total := nl + nr
	if total == 0 {
		return 0
	}
	return nl/total*entropy(left) + nr/total*entropy(right)
}

// hoeffdingBound gives the gain margin guaranteeing the best split with
// confidence 1-delta; the range R of information gain is log2(classes).
func hoeffdingBound(classes, delta, n float64) float64 {
	r := math.Log2(classes)
	return math.Sqrt(r * r * math.Log(1/delta) / (2 * n))
}

func normalCDF(x, mean, std float64) float64 {
	return 0.5 * (1 + math.Erf((x-mean)/(std*math.Sqrt2)))
}
