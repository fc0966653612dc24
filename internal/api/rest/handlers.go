package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domainErrors "github.com/frdetect/fraud-detection-backend/internal/domain/errors"
	"github.com/frdetect/fraud-detection-backend/internal/metrics"
	"github.com/frdetect/fraud-detection-backend/internal/pipeline/preprocess"
	"github.com/frdetect/fraud-detection-backend/internal/service/scoring"
)

const welcomeMessage = "Welcome to the fraud detection API. Use the /predict endpoint to score transactions."

// Handler serves the prediction API endpoints.
type Handler struct {
	scorer    scoring.Service
	validator *validator.Validate
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(scorer scoring.Service, registry *metrics.Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		scorer:    scorer,
		validator: validator.New(),
		metrics:   registry,
		logger:    logger,
	}
}

// handleRoot answers the liveness/info request.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, InfoResponse{Message: welcomeMessage})
}

// handlePredict scores a single transaction. Body-shape and required-field
// violations map to 422; semantically invalid values to 400; a degraded
// service to 503; feature or inference failures to 500.
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, ErrorBody{
			Code:    "INVALID_BODY",
			Message: "request body is not valid JSON for the expected schema",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, ErrorBody{
			Code:    "VALIDATION_FAILED",
			Message: "request body failed schema validation",
			Fields:  validationFields(err),
		})
		return
	}

	occurredAt := preprocess.ParseTimestamp(req.TransactionDT)
	if occurredAt == nil {
		h.writeError(w, http.StatusBadRequest, ErrorBody{
			Code:    "INVALID_TIMESTAMP",
			Message: "transaction_dt is not a parseable timestamp",
		})
		return
	}

	userAvg := scoring.DefaultUserAvgAmount
	if req.UserAvgAmount != nil {
		userAvg = *req.UserAvgAmount
	}

	result, err := h.scorer.Score(r.Context(), &scoring.ScoreRequest{
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		MerchantID:    req.MerchantID,
		Amount:        *req.Amount,
		OccurredAt:    *occurredAt,
		UserAvgAmount: userAvg,
	})
	if err != nil {
		h.handleScoreError(w, err)
		return
	}

	if h.metrics != nil {
		outcome := "legitimate"
		if result.IsFraud == 1 {
			outcome = "fraud"
		}
		h.metrics.PredictionTotal.WithLabelValues(outcome).Inc()
		h.metrics.ConfidenceScores.Observe(result.Confidence)
	}

	h.writeJSON(w, http.StatusOK, PredictResponse{
		TransactionID:   result.TransactionID,
		IsFraud:         result.IsFraud,
		ConfidenceScore: result.ConfidenceString(),
	})
}

func (h *Handler) handleScoreError(w http.ResponseWriter, err error) {
	if h.metrics != nil {
		h.metrics.PredictionTotal.WithLabelValues("error").Inc()
	}

	status := domainErrors.GetStatusCode(err)
	body := ErrorBody{
		Code:    "PREDICTION_FAILED",
		Message: "an error occurred during prediction",
		Details: err.Error(),
	}
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		body.Code = appErr.Code
		body.Message = appErr.Message
		if appErr.Cause != nil {
			body.Details = appErr.Cause.Error()
		} else {
			body.Details = ""
		}
	}

	if status >= 500 {
		h.logger.Error("prediction failed", zap.Error(err))
	}
	h.writeError(w, status, body)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, body ErrorBody) {
	h.writeJSON(w, status, ErrorResponse{Error: body})
}

// validationFields flattens validator errors into a field → failure list map.
func validationFields(err error) map[string][]string {
	fields := make(map[string][]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
	}
	return fields
}
