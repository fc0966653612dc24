// Command train fits the fraud model from a labeled CSV batch and writes the
// model and scaler artifacts the prediction API loads at startup.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
	"github.com/frdetect/fraud-detection-backend/internal/infrastructure/artifacts"
	"github.com/frdetect/fraud-detection-backend/internal/ml/scaler"
	"github.com/frdetect/fraud-detection-backend/internal/ml/training"
	"github.com/frdetect/fraud-detection-backend/internal/pipeline/features"
	"github.com/frdetect/fraud-detection-backend/internal/pipeline/preprocess"
)

func main() {
	var (
		inputPath    = flag.String("input", "data/transactions.csv", "Path to the labeled transaction CSV")
		modelPath    = flag.String("model", artifacts.DefaultModelPath, "Output path for the model artifact")
		scalerPath   = flag.String("scaler", artifacts.DefaultScalerPath, "Output path for the scaler artifact")
		layout       = flag.String("layout", "serving", "Feature layout to train on: serving (4 columns, scoreable by the API) or training (6 columns, includes batch frequency features)")
		trees        = flag.Int("trees", 0, "Number of trees (0 = default)")
		maxDepth     = flag.Int("max-depth", 0, "Maximum tree depth (0 = default)")
		seed         = flag.Int64("seed", 0, "Random seed (0 = default)")
		testFraction = flag.Float64("test-fraction", 0.2, "Held-out fraction for evaluation")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	start := time.Now()

	txns, err := preprocess.LoadCSV(*inputPath)
	if err != nil {
		logger.Fatal("failed to load input", zap.String("path", *inputPath), zap.Error(err))
	}
	txns = preprocess.Clean(txns)
	rows := features.Engineer(txns)

	var (
		X       [][]float64
		y       []int
		columns []string
	)
	switch *layout {
	case "serving":
		X, y = training.ServingMatrix(rows)
		columns = transaction.ServingFeatureColumns
	case "training":
		X, y = training.Matrix(rows)
		columns = transaction.TrainingFeatureColumns
	default:
		logger.Fatal("unknown feature layout", zap.String("layout", *layout))
	}

	positives := 0
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}
	logger.Info("loaded training batch",
		zap.String("path", *inputPath),
		zap.Int("rows", len(y)),
		zap.Int("fraud", positives),
		zap.Int("legitimate", len(y)-positives),
		zap.Strings("columns", columns),
	)

	fitted, err := scaler.Fit(X, columns)
	if err != nil {
		logger.Fatal("failed to fit scaler", zap.Error(err))
	}
	XScaled, err := fitted.Transform(X)
	if err != nil {
		logger.Fatal("failed to scale features", zap.Error(err))
	}

	result, err := training.Train(XScaled, y, training.Config{
		TestFraction: *testFraction,
		Seed:         *seed,
		NEstimators:  *trees,
		MaxDepth:     *maxDepth,
		Columns:      columns,
	})
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	logger.Info("holdout evaluation",
		zap.Int("test_rows", len(result.YTest)),
		zap.Float64("accuracy", result.Metrics.Accuracy),
		zap.Float64("precision", result.Metrics.Precision),
		zap.Float64("recall", result.Metrics.Recall),
		zap.Float64("f1", result.Metrics.F1),
		zap.Float64("roc_auc", result.Metrics.ROCAUC),
	)

	store := artifacts.NewStore(*modelPath, *scalerPath)
	now := time.Now().UTC()

	if err := store.SaveModel(&artifacts.ModelArtifact{
		Model:        result.Model,
		Columns:      result.Columns,
		TrainedAt:    now,
		TrainingRows: len(y),
	}); err != nil {
		logger.Fatal("failed to save model artifact", zap.Error(err))
	}
	if err := store.SaveScaler(&artifacts.ScalerArtifact{
		Scaler:   fitted,
		Columns:  result.Columns,
		FittedAt: now,
	}); err != nil {
		logger.Fatal("failed to save scaler artifact", zap.Error(err))
	}

	logger.Info("artifacts written",
		zap.String("model", store.ModelPath),
		zap.String("scaler", store.ScalerPath),
		zap.Duration("elapsed", time.Since(start)),
	)
}
