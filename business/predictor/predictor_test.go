package predictor

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLogisticModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	artifact := `{"model_version":"lr-v2","bias":-1.5,"weights":{"total_orders":-0.2,"days_since_last_order":0.05}}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	m, err := LoadLogisticModel(path)
	require.NoError(t, err)
	assert.Equal(t, "lr-v2", m.Version())
	assert.Equal(t, -1.5, m.Bias)
}

func TestLoadLogisticModelMissingFile(t *testing.T) {
	_, err := LoadLogisticModel(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadLogisticModelNoWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model_version":"x","bias":0}`), 0o644))

	_, err := LoadLogisticModel(path)
	require.Error(t, err)
}

func TestPredict(t *testing.T) {
	m := &LogisticModel{
		ModelVersion: "lr-v2",
		Bias:         0,
		Weights:      map[string]float64{"a": 1, "b": -1},
	}

	// a and b cancel: sigmoid(0) = 0.5.
	p, err := m.Predict(map[string]float64{"a": 2, "b": 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	// Unweighted features contribute nothing.
	p2, err := m.Predict(map[string]float64{"a": 2, "b": 2, "c": 999})
	require.NoError(t, err)
	assert.Equal(t, p, p2)
}

func TestPredictBounds(t *testing.T) {
	m := &LogisticModel{Weights: map[string]float64{"a": 1}}

	hi, err := m.Predict(map[string]float64{"a": 1000})
	require.NoError(t, err)
	assert.LessOrEqual(t, hi, 1.0)
	assert.Greater(t, hi, 0.99)

	lo, err := m.Predict(map[string]float64{"a": -1000})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.Less(t, lo, 0.01)
}

func TestPredictRejectsNonFinite(t *testing.T) {
	m := &LogisticModel{Weights: map[string]float64{"a": 1}}

	_, err := m.Predict(map[string]float64{"a": math.NaN()})
	require.Error(t, err)

	_, err = m.Predict(map[string]float64{"a": math.Inf(1)})
	require.Error(t, err)
}

func TestPredictEmptyVector(t *testing.T) {
	m := &LogisticModel{Weights: map[string]float64{"a": 1}}

	_, err := m.Predict(nil)
	require.Error(t, err)
}
