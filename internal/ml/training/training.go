// Package training fits the fraud classifier: stratified train/test split,
// synthetic minority oversampling of the training split only, and a
// random-forest fit. The held-out test split is returned untouched so
// evaluation reflects the true class distribution.
package training

import (
	"math/rand"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
	"github.com/frdetect/fraud-detection-backend/internal/ml/forest"
	"github.com/frdetect/fraud-detection-backend/internal/ml/smote"
)

// Config controls a training run.
type Config struct {
	TestFraction float64 // held-out fraction, default 0.2
	Seed         int64   // split, SMOTE and forest seed, default 42
	NEstimators  int     // tree count, default 100
	MaxDepth     int
	SMOTEK       int
	Columns      []string // feature layout of X, default transaction.TrainingFeatureColumns
}

func (c Config) withDefaults() Config {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.2
	}
	if c.Seed == 0 {
		c.Seed = forest.DefaultSeed
	}
	if c.NEstimators <= 0 {
		c.NEstimators = forest.DefaultNEstimators
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = forest.DefaultMaxDepth
	}
	if c.SMOTEK <= 0 {
		c.SMOTEK = smote.DefaultK
	}
	if len(c.Columns) == 0 {
		c.Columns = transaction.TrainingFeatureColumns
	}
	return c
}

// Result carries the fitted model, the untouched held-out split and its
// evaluation metrics.
type Result struct {
	Model   *forest.RandomForest
	Columns []string
	XTest   [][]float64
	YTest   []int
	Metrics Metrics
}

// Matrix converts engineered rows into the training feature matrix and label
// vector. The identifier, timestamp and label columns are dropped here; only
// the columns in transaction.TrainingFeatureColumns survive, in that order.
func Matrix(rows []transaction.Row) ([][]float64, []int) {
	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i := range rows {
		X[i] = rows[i].TrainingVector()
		y[i] = rows[i].IsFraud
	}
	return X, y
}

// ServingMatrix converts engineered rows into the four-column serving
// layout. Training on this layout produces artifacts the prediction API can
// actually score with; the six-column layout reproduces the upstream model
// and its train/serve feature mismatch. The trainer chooses between them.
func ServingMatrix(rows []transaction.Row) ([][]float64, []int) {
	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i := range rows {
		X[i] = rows[i].ServingVector()
		y[i] = rows[i].IsFraud
	}
	return X, y
}

// Train runs the full fit: stratified split, SMOTE on the training split,
// forest fit, holdout evaluation.
func Train(X [][]float64, y []int, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	if len(X) != len(y) {
		return nil, errors.NewValidationError("SHAPE_MISMATCH", "feature matrix and labels differ in length")
	}
	if len(X) == 0 {
		return nil, errors.NewValidationError("EMPTY_MATRIX", "cannot train on empty data")
	}

	trainIdx, testIdx := stratifiedSplit(y, cfg.TestFraction, cfg.Seed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, errors.NewValidationError("TOO_FEW_SAMPLES", "not enough samples for a train/test split")
	}

	XTrain, yTrain := gather(X, y, trainIdx)
	XTest, yTest := gather(X, y, testIdx)

	XRes, yRes, err := smote.Oversample(XTrain, yTrain, cfg.SMOTEK, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "oversampling training split")
	}

	model := forest.New()
	model.NEstimators = cfg.NEstimators
	model.MaxDepth = cfg.MaxDepth
	model.Seed = cfg.Seed
	if err := model.Fit(XRes, yRes); err != nil {
		return nil, errors.Wrap(err, "fitting model")
	}

	probas, err := model.PredictProba(XTest)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating holdout")
	}

	return &Result{
		Model:   model,
		Columns: append([]string(nil), cfg.Columns...),
		XTest:   XTest,
		YTest:   yTest,
		Metrics: Evaluate(yTest, probas, 0.5),
	}, nil
}

// stratifiedSplit shuffles each class independently and assigns the leading
// (1 - testFraction) of each to the training set, preserving class balance
// across the split.
func stratifiedSplit(y []int, testFraction float64, seed int64) (trainIdx, testIdx []int) {
	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for _, class := range [][]int{pos, neg} {
		rng.Shuffle(len(class), func(i, j int) {
			class[i], class[j] = class[j], class[i]
		})
		cut := len(class) - int(testFraction*float64(len(class)))
		trainIdx = append(trainIdx, class[:cut]...)
		testIdx = append(testIdx, class[cut:]...)
	}

	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return trainIdx, testIdx
}

func gather(X [][]float64, y []int, indices []int) ([][]float64, []int) {
	outX := make([][]float64, len(indices))
	outY := make([]int, len(indices))
	for i, idx := range indices {
		outX[i] = X[idx]
		outY[i] = y[idx]
	}
	return outX, outY
}
