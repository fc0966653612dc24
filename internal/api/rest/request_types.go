package rest

// PredictRequest is the body of POST /predict. user_avg_amount is the
// caller-supplied running average for the user; the service keeps no
// transaction history to derive it from.
type PredictRequest struct {
	TransactionID string   `json:"transaction_id" validate:"required"`
	UserID        string   `json:"user_id" validate:"required"`
	MerchantID    string   `json:"merchant_id" validate:"required"`
	Amount        *float64 `json:"transaction_amount" validate:"required"`
	TransactionDT string   `json:"transaction_dt" validate:"required"`
	UserAvgAmount *float64 `json:"user_avg_amount" validate:"omitempty,gte=0"`
}
