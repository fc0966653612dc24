package transaction

import (
	"math"
	"time"
)

// Feature column names, fixed at training time. The ordering of the slices
// below is a contract shared by the scaler and the model: vectors fed to
// either must follow it exactly.
const (
	ColAmount           = "transaction_amount"
	ColHourOfDay        = "hour_of_day"
	ColDayOfWeek        = "day_of_week"
	ColAmountVsAvgRatio = "amount_vs_avg_ratio"
	ColUserTransFreq24h = "user_trans_freq_24h"
	ColCardTransFreq1h  = "card_trans_freq_1h"
)

// ServingFeatureColumns is the vector layout used at request time.
var ServingFeatureColumns = []string{
	ColAmount,
	ColHourOfDay,
	ColDayOfWeek,
	ColAmountVsAvgRatio,
}

// TrainingFeatureColumns is the vector layout used when fitting. Training
// carries the two frequency features that the serving path never computes;
// that asymmetry is inherited from the model this service reproduces and is
// deliberately not reconciled here.
var TrainingFeatureColumns = []string{
	ColAmount,
	ColHourOfDay,
	ColDayOfWeek,
	ColAmountVsAvgRatio,
	ColUserTransFreq24h,
	ColCardTransFreq1h,
}

// MissingCategory is substituted for an absent merchant category.
const MissingCategory = "Unknown"

// Transaction represents a single payment transaction record.
// Amount is NaN when the source value was missing, until Clean fills it with
// the batch median. OccurredAt is nil when the source timestamp was missing
// or unparseable; derived time features then stay null rather than erroring.
type Transaction struct {
	TransactionID    string     `json:"transaction_id"`
	UserID           string     `json:"user_id"`
	CardID           string     `json:"card_id"`
	MerchantID       string     `json:"merchant_id"`
	MerchantCategory string     `json:"merchant_category"`
	Amount           float64    `json:"transaction_amount"`
	OccurredAt       *time.Time `json:"transaction_dt"`
	IsFraud          int        `json:"is_fraud"`
}

// HasTimestamp reports whether the record carries a usable timestamp.
func (t *Transaction) HasTimestamp() bool {
	return t.OccurredAt != nil
}

// HasAmount reports whether the record carries a usable amount.
func (t *Transaction) HasAmount() bool {
	return !math.IsNaN(t.Amount)
}

// Features holds the engineered feature columns for one record. Time
// features are NaN when the record has no timestamp.
type Features struct {
	HourOfDay        float64 `json:"hour_of_day"`
	DayOfWeek        float64 `json:"day_of_week"`
	UserAvgAmount    float64 `json:"user_avg_amount"`
	AmountVsAvgRatio float64 `json:"amount_vs_avg_ratio"`
	UserTransFreq24h float64 `json:"user_trans_freq_24h"`
	CardTransFreq1h  float64 `json:"card_trans_freq_1h"`
}

// Row pairs a transaction with its engineered features while it moves
// through the pipeline.
type Row struct {
	Transaction
	Features
}

// TrainingVector returns the row's features in TrainingFeatureColumns order.
func (r *Row) TrainingVector() []float64 {
	return []float64{
		r.Amount,
		r.HourOfDay,
		r.DayOfWeek,
		r.AmountVsAvgRatio,
		r.UserTransFreq24h,
		r.CardTransFreq1h,
	}
}

// ServingVector returns the row's features in ServingFeatureColumns order.
func (r *Row) ServingVector() []float64 {
	return []float64{
		r.Amount,
		r.HourOfDay,
		r.DayOfWeek,
		r.AmountVsAvgRatio,
	}
}

// HourOf extracts the hour feature from a timestamp.
func HourOf(ts time.Time) float64 {
	return float64(ts.Hour())
}

// WeekdayOf extracts the day-of-week feature from a timestamp using the
// Monday=0 convention.
func WeekdayOf(ts time.Time) float64 {
	return float64((int(ts.Weekday()) + 6) % 7)
}
