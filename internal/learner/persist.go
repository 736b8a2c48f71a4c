package learner

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/opensource-finance/shrike/internal/features"
)

// Marshal serializes the fitted pipeline as an opaque blob.
func (p *Pipeline) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode pipeline: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalPipeline restores a pipeline from its serialized blob.
func UnmarshalPipeline(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline: %w", err)
	}
	return &p, nil
}

// ScalerStat is one feature's fitted standardization statistics.
type ScalerStat struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Count float64 `json:"count"`
}

// Manifest is the companion artifact the downstream explanation service
// loads next to the model blob: feature names in schema order, the grown
// one-hot columns, observed classes, and scaler statistics.
type Manifest struct {
	NumericFeatures     []string              `json:"numericFeatures"`
	CategoricalFeatures []string              `json:"categoricalFeatures"`
	EncodedFeatures     []string              `json:"encodedFeatures"`
	Classes             []string              `json:"classes"`
	Scaler              map[string]ScalerStat `json:"scaler"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// BuildManifest captures the pipeline's current feature contract.
func (p *Pipeline) BuildManifest(now time.Time) Manifest {
	encoded := p.Encoder.EncodedNames()
	sort.Strings(encoded)

	scaler := make(map[string]ScalerStat, len(p.Scaler.Stats))
	for name, w := range p.Scaler.Stats {
		scaler[name] = ScalerStat{Mean: w.Mean, Std: w.Std(), Count: w.N}
	}

	return Manifest{
		NumericFeatures:     features.NumericNames(),
		CategoricalFeatures: features.CategoricalNames(),
		EncodedFeatures:     encoded,
		Classes:             p.Tree.ClassLabels(),
		Scaler:              scaler,
		CreatedAt:           now,
	}
}

// Marshal serializes the manifest as indented JSON.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}
