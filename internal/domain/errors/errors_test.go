package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantCode   string
		wantStatus int
	}{
		{
			name:       "parse error",
			err:        NewParseError("bad file"),
			wantType:   ErrorTypeParse,
			wantCode:   "PARSE_ERROR",
			wantStatus: 400,
		},
		{
			name:       "validation error",
			err:        NewValidationError("MISSING_FIELD", "field is required"),
			wantType:   ErrorTypeValidation,
			wantCode:   "MISSING_FIELD",
			wantStatus: 400,
		},
		{
			name:       "unavailable error",
			err:        NewUnavailableError("model is not available"),
			wantType:   ErrorTypeUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
			wantStatus: 503,
		},
		{
			name:       "prediction error",
			err:        NewPredictionError("inference failed"),
			wantType:   ErrorTypePrediction,
			wantCode:   "PREDICTION_FAILED",
			wantStatus: 500,
		},
		{
			name:       "not found error",
			err:        NewNotFoundError("artifact models/model.gob"),
			wantType:   ErrorTypeNotFound,
			wantCode:   "RESOURCE_NOT_FOUND",
			wantStatus: 404,
		},
		{
			name:       "internal error",
			err:        NewInternalError("something broke"),
			wantType:   ErrorTypeInternal,
			wantCode:   "INTERNAL_ERROR",
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.True(t, IsType(tt.err, tt.wantType))
			assert.Equal(t, tt.wantStatus, GetStatusCode(tt.err))
		})
	}
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("failed to write artifact").WithCause(cause)

	assert.Contains(t, err.Error(), "failed to write artifact")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAppError_WithDetails(t *testing.T) {
	err := NewValidationError("SHAPE_MISMATCH", "bad shape").
		WithDetails(map[string]interface{}{"expected": 4, "got": 6})

	require.NotNil(t, err.Details)
	assert.Equal(t, 4, err.Details["expected"])
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	inner := NewUnavailableError("model is not available")
	wrapped := Wrap(inner, "scoring transaction")
	require.Error(t, wrapped)

	// The typed error survives wrapping.
	assert.True(t, IsType(wrapped, ErrorTypeUnavailable))
	assert.Equal(t, 503, GetStatusCode(wrapped))
}

func TestGetStatusCode_UnknownError(t *testing.T) {
	assert.Equal(t, 500, GetStatusCode(fmt.Errorf("plain error")))
	assert.False(t, IsType(fmt.Errorf("plain error"), ErrorTypeParse))
}
