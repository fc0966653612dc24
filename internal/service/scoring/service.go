package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
	"github.com/frdetect/fraud-detection-backend/internal/infrastructure/artifacts"
)

// service implements the Service interface. The model and scaler are set
// once at construction and never mutated, so concurrent requests share them
// without locking.
type service struct {
	model  Classifier
	scaler Transformer
	logger *zap.Logger
}

// NewService creates a scoring service over loaded artifacts. Either
// dependency may be nil, in which case the service starts degraded: it
// answers readiness checks but refuses predictions.
func NewService(model Classifier, scaler Transformer, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		model:  model,
		scaler: scaler,
		logger: logger,
	}
}

// LoadFromStore builds the service from persisted artifacts. Load failures
// degrade the service instead of failing startup: the process stays up and
// keeps answering health checks.
func LoadFromStore(store *artifacts.Store, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	var model Classifier
	var transform Transformer

	modelArtifact, err := store.LoadModel()
	if err != nil {
		logger.Warn("model artifact unavailable, starting degraded",
			zap.String("path", store.ModelPath),
			zap.Error(err),
		)
	} else {
		model = modelArtifact.Model
		logger.Info("model loaded",
			zap.String("path", store.ModelPath),
			zap.Int("trees", len(modelArtifact.Model.Trees)),
			zap.Strings("columns", modelArtifact.Columns),
			zap.Time("trained_at", modelArtifact.TrainedAt),
		)
	}

	scalerArtifact, err := store.LoadScaler()
	if err != nil {
		logger.Warn("scaler artifact unavailable, starting degraded",
			zap.String("path", store.ScalerPath),
			zap.Error(err),
		)
	} else {
		transform = scalerArtifact.Scaler
		logger.Info("scaler loaded",
			zap.String("path", store.ScalerPath),
			zap.Int("features", scalerArtifact.Scaler.NumFeatures()),
		)
	}

	return NewService(model, transform, logger)
}

// Ready reports whether both artifacts are loaded.
func (s *service) Ready() bool {
	return s.model != nil && s.scaler != nil
}

// Score validates the request, reconstructs the serving-time features,
// applies the persisted scaler and invokes the model. Any failure inside
// feature computation, scaling or inference surfaces as an
// InternalPredictionError carrying the cause.
func (s *service) Score(ctx context.Context, req *ScoreRequest) (result *ScoreResult, err error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !s.Ready() {
		return nil, errors.NewUnavailableError("model is not available")
	}

	// The model is an external collaborator; treat a panic inside it like
	// any other inference failure.
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = errors.NewPredictionError(fmt.Sprintf("inference panic: %v", recovered))
		}
	}()

	vector := featureVector(req)

	scaled, err := s.scaler.TransformVector(vector)
	if err != nil {
		return nil, errors.NewPredictionError("failed to scale features").WithCause(err)
	}

	labels, err := s.model.Predict([][]float64{scaled})
	if err != nil {
		return nil, errors.NewPredictionError("model predict failed").WithCause(err)
	}
	probas, err := s.model.PredictProba([][]float64{scaled})
	if err != nil {
		return nil, errors.NewPredictionError("model predict_proba failed").WithCause(err)
	}

	s.logger.Debug("transaction scored",
		zap.String("transaction_id", req.TransactionID),
		zap.Int("is_fraud", labels[0]),
		zap.Float64("confidence", probas[0]),
	)

	return &ScoreResult{
		TransactionID: req.TransactionID,
		IsFraud:       labels[0],
		Confidence:    probas[0],
	}, nil
}

// featureVector rebuilds the four serving-time features in the order fixed
// at training time. Frequency features are never computed here: the serving
// path has no history, a mismatch inherited from the original model and
// deliberately not papered over.
func featureVector(req *ScoreRequest) []float64 {
	userAvg := req.UserAvgAmount
	ratio := req.Amount / (userAvg + ServingEpsilon)

	return []float64{
		req.Amount,
		transaction.HourOf(req.OccurredAt),
		transaction.WeekdayOf(req.OccurredAt),
		ratio,
	}
}

func validateRequest(req *ScoreRequest) error {
	if req == nil {
		return errors.NewValidationError("INVALID_REQUEST", "request cannot be nil")
	}
	if req.TransactionID == "" {
		return errors.NewValidationError("MISSING_TRANSACTION_ID", "transaction_id is required")
	}
	if req.UserID == "" {
		return errors.NewValidationError("MISSING_USER_ID", "user_id is required")
	}
	if req.MerchantID == "" {
		return errors.NewValidationError("MISSING_MERCHANT_ID", "merchant_id is required")
	}
	if req.OccurredAt.IsZero() {
		return errors.NewValidationError("MISSING_TIMESTAMP", "transaction_dt is required")
	}
	if req.Amount < 0 {
		return errors.NewValidationError("INVALID_AMOUNT", "transaction_amount must not be negative")
	}
	if req.UserAvgAmount < 0 {
		return errors.NewValidationError("INVALID_USER_AVG", "user_avg_amount must not be negative")
	}
	return nil
}
