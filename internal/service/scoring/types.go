package scoring

import (
	"fmt"
	"time"
)

// ServingEpsilon guards the ratio denominator at request time. It differs
// from the training-time epsilon (1e-5); the skew is inherited from the
// model this service reproduces and is kept per pipeline stage rather than
// unified. See DESIGN.md.
const ServingEpsilon = 1e-6

// DefaultUserAvgAmount is assumed when the caller supplies no running
// average. The serving path has no transaction history to query, so the
// per-user average always comes from the caller.
const DefaultUserAvgAmount = 85.50

// ScoreRequest is a single transaction to score.
type ScoreRequest struct {
	TransactionID string
	UserID        string
	MerchantID    string
	Amount        float64
	OccurredAt    time.Time
	UserAvgAmount float64
}

// ScoreResult is the outcome of scoring one transaction.
type ScoreResult struct {
	TransactionID string
	IsFraud       int
	Confidence    float64
}

// ConfidenceString renders the fraud probability the way the API returns
// it: a 4-decimal string.
func (r *ScoreResult) ConfidenceString() string {
	return fmt.Sprintf("%.4f", r.Confidence)
}
