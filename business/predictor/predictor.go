package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Classifier is the opaque trained-model boundary: a feature vector in,
// a churn probability in [0,1] out. Training and tuning live outside
// this repository; the serving layer only ever calls Predict.
type Classifier interface {
	Predict(features map[string]float64) (float64, error)
	Version() string
}

// LogisticModel scores with exported coefficients, the artifact format
// the training side writes out next to the boosted model. Weights key
// on feature column names; a feature without a weight contributes
// nothing.
type LogisticModel struct {
	ModelVersion string             `json:"model_version"`
	Bias         float64            `json:"bias"`
	Weights      map[string]float64 `json:"weights"`
}

func LoadLogisticModel(path string) (*LogisticModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var m LogisticModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}

	return &m, nil
}

func (m *LogisticModel) Version() string {
	return m.ModelVersion
}

// Predict sums weight contributions in sorted key order so repeated
// scoring of the same vector is bit-for-bit reproducible, then squashes
// through the logistic function and clamps into [0,1].
func (m *LogisticModel) Predict(features map[string]float64) (float64, error) {
	if len(features) == 0 {
		return 0, fmt.Errorf("empty feature vector")
	}

	names := make([]string, 0, len(m.Weights))
	for name := range m.Weights {
		names = append(names, name)
	}
	sort.Strings(names)

	z := m.Bias
	for _, name := range names {
		v, ok := features[name]
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %s is not finite", name)
		}
		z += m.Weights[name] * v
	}

	p := 1.0 / (1.0 + math.Exp(-z))
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}

	return p, nil
}
