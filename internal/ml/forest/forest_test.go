package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
)

// separable returns a small, cleanly separable binary dataset.
func separable() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		X = append(X, []float64{float64(i % 5), float64(i % 3)})
		y = append(y, 0)
	}
	for i := 0; i < 20; i++ {
		X = append(X, []float64{10 + float64(i%5), 10 + float64(i%3)})
		y = append(y, 1)
	}
	return X, y
}

func TestFitAndPredict(t *testing.T) {
	X, y := separable()

	f := New()
	f.NEstimators = 20
	f.MaxDepth = 4
	require.NoError(t, f.Fit(X, y))
	assert.Len(t, f.Trees, 20)
	assert.Equal(t, 2, f.NumFeatures)

	preds, err := f.Predict([][]float64{{1, 1}, {12, 11}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, preds)

	probas, err := f.PredictProba([][]float64{{1, 1}, {12, 11}})
	require.NoError(t, err)
	assert.Less(t, probas[0], 0.5)
	assert.GreaterOrEqual(t, probas[1], 0.5)
	for _, p := range probas {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestFit_Deterministic(t *testing.T) {
	X, y := separable()

	a := New()
	a.NEstimators = 10
	require.NoError(t, a.Fit(X, y))

	b := New()
	b.NEstimators = 10
	require.NoError(t, b.Fit(X, y))

	probe := [][]float64{{0, 0}, {5, 5}, {11, 10}}
	pa, err := a.PredictProba(probe)
	require.NoError(t, err)
	pb, err := b.PredictProba(probe)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestPredict_Unfitted(t *testing.T) {
	f := New()
	_, err := f.PredictProba([][]float64{{1, 2}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
}

func TestPredict_ShapeMismatch(t *testing.T) {
	X, y := separable()
	f := New()
	f.NEstimators = 5
	require.NoError(t, f.Fit(X, y))

	_, err := f.PredictProba([][]float64{{1, 2, 3}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFit_Errors(t *testing.T) {
	f := New()
	require.Error(t, f.Fit(nil, nil))
	require.Error(t, f.Fit([][]float64{{1}}, []int{0, 1}))
}
