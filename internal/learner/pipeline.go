package learner

import (
	"github.com/opensource-finance/shrike/internal/features"
)

// Pipeline composes the three stages in a fixed order: numeric features
// pass through the scaler, categoricals through the encoder, and the
// combined vector feeds the tree. Prediction uses the statistics fitted
// so far and never updates them; Learn updates every stage.
type Pipeline struct {
	Scaler  *Scaler
	Encoder *Encoder
	Tree    *HoeffdingTree
}

// NewPipeline creates a pipeline with default tree configuration.
func NewPipeline() *Pipeline {
	return NewPipelineWithConfig(DefaultTreeConfig())
}

// NewPipelineWithConfig creates a pipeline with a custom tree config.
func NewPipelineWithConfig(cfg TreeConfig) *Pipeline {
	return &Pipeline{
		Scaler:  NewScaler(),
		Encoder: NewEncoder(),
		Tree:    NewHoeffdingTree(cfg),
	}
}

// Predict scores an observation against the model as fitted by prior
// observations only. ok is false while the learner abstains.
func (p *Pipeline) Predict(v features.Vector) (label string, ok bool) {
	return p.Tree.Predict(p.transform(v))
}

// Learn updates the scaler and encoder with the observation, then trains
// the tree on the transformed vector.
func (p *Pipeline) Learn(v features.Vector, label string) {
	p.Scaler.Learn(v.Numeric)
	p.Encoder.Learn(v.Categorical)
	p.Tree.Learn(p.transform(v), label)
}

func (p *Pipeline) transform(v features.Vector) map[string]float64 {
	x := p.Scaler.Transform(v.Numeric)
	for name, val := range p.Encoder.Transform(v.Categorical) {
		x[name] = val
	}
	return x
}
