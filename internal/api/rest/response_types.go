package rest

// PredictResponse is the body of a successful POST /predict.
// ConfidenceScore is the positive-class probability as a 4-decimal string.
type PredictResponse struct {
	TransactionID   string `json:"transaction_id"`
	IsFraud         int    `json:"is_fraud"`
	ConfidenceScore string `json:"confidence_score"`
}

// InfoResponse is the body of GET /.
type InfoResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of the readiness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Model  bool   `json:"model_loaded"`
}

// ErrorBody is the error payload shared by all failure responses.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ErrorResponse wraps an ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
