package scoring

import "context"

// Classifier is the fitted model consumed by the scorer: binary labels from
// Predict, positive-class probabilities from PredictProba.
type Classifier interface {
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([]float64, error)
}

// Transformer is the persisted standardization transform, applied as fitted
// and never refit at serving time.
type Transformer interface {
	TransformVector(vector []float64) ([]float64, error)
	NumFeatures() int
}

// Service scores transactions against the loaded artifacts.
type Service interface {
	// Score runs the serving pipeline for one transaction.
	Score(ctx context.Context, req *ScoreRequest) (*ScoreResult, error)
	// Ready reports whether artifacts are loaded and scoring is possible.
	Ready() bool
}
