package learner

// Encoder one-hot encodes categorical features. The vocabulary grows as new
// category values are observed; encoded feature names are "name=value".
type Encoder struct {
	Vocab map[string]map[string]bool
}

// NewEncoder creates an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{Vocab: make(map[string]map[string]bool)}
}

// Learn adds observed category values to the vocabulary.
func (e *Encoder) Learn(cats map[string]string) {
	for name, val := range cats {
		vals, ok := e.Vocab[name]
		if !ok {
			vals = make(map[string]bool)
			e.Vocab[name] = vals
		}
		vals[val] = true
	}
}

// Transform encodes an observation. The active value of each feature maps
// to 1; known-but-inactive values map to 0 so downstream statistics see
// the full indicator column, not just the hot entry.
func (e *Encoder) Transform(cats map[string]string) map[string]float64 {
	out := make(map[string]float64)
	for name, val := range cats {
		for known := range e.Vocab[name] {
			out[name+"="+known] = 0
		}
		out[name+"="+val] = 1
	}
	return out
}

// EncodedNames returns all one-hot column names in the current vocabulary.
func (e *Encoder) EncodedNames() []string {
	var names []string
	for name, vals := range e.Vocab {
		for val := range vals {
			names = append(names, name+"="+val)
		}
	}
	return names
}
