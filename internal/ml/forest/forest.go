// Package forest implements a random-forest binary classifier: bootstrapped
// CART trees with Gini splits and square-root feature subsampling. The model
// exposes scikit-learn-shaped Predict and PredictProba over scaled feature
// vectors and serializes with encoding/gob.
package forest

import (
	"math"
	"math/rand"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
)

// Defaults matching the persisted production model.
const (
	DefaultNEstimators     = 100
	DefaultMaxDepth        = 12
	DefaultMinSamplesSplit = 2
	DefaultSeed            = 42
)

// RandomForest is a bagged ensemble of decision trees. Exported fields keep
// the fitted model gob-serializable.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 means sqrt(num features)
	Seed            int64
	NumFeatures     int
	Trees           []*TreeNode
}

// New returns a forest with the default hyperparameters.
func New() *RandomForest {
	return &RandomForest{
		NEstimators:     DefaultNEstimators,
		MaxDepth:        DefaultMaxDepth,
		MinSamplesSplit: DefaultMinSamplesSplit,
		Seed:            DefaultSeed,
	}
}

// Fit trains the ensemble. Each tree draws a bootstrap sample and a
// tree-specific RNG derived from the forest seed, so fitting is
// deterministic for a fixed seed and input.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.NewValidationError("EMPTY_MATRIX", "cannot fit on empty data")
	}
	if len(X) != len(y) {
		return errors.NewValidationError("SHAPE_MISMATCH", "feature matrix and labels differ in length")
	}

	f.NumFeatures = len(X[0])
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(f.NumFeatures)))))
	}
	cfg := treeConfig{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: f.MinSamplesSplit,
		maxFeatures:     maxFeatures,
	}

	f.Trees = make([]*TreeNode, f.NEstimators)
	for t := 0; t < f.NEstimators; t++ {
		rng := rand.New(rand.NewSource(f.Seed + int64(t)))

		indices := make([]int, len(X))
		for i := range indices {
			indices[i] = rng.Intn(len(X))
		}

		f.Trees[t] = growTree(X, y, indices, 0, cfg, rng)
	}
	return nil
}

// PredictProba returns the positive-class probability per sample: the mean
// of the per-tree leaf probabilities.
func (f *RandomForest) PredictProba(X [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errors.NewUnavailableError("model has not been fitted")
	}
	out := make([]float64, len(X))
	for i, sample := range X {
		if len(sample) != f.NumFeatures {
			return nil, errors.NewValidationError("SHAPE_MISMATCH", "sample width does not match fitted features")
		}
		var sum float64
		for _, tree := range f.Trees {
			sum += tree.predictProba(sample)
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

// Predict returns the binary label per sample at the 0.5 threshold.
func (f *RandomForest) Predict(X [][]float64) ([]int, error) {
	probas, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probas))
	for i, p := range probas {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}
