// Package features derives the engineered feature columns from cleaned
// transaction batches. The value and frequency transforms are batch-scoped:
// they need the full population in memory and do not support incremental
// computation.
package features

import (
	"math"
	"sort"

	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
)

const (
	// TrainingEpsilon guards the ratio denominator when fitting.
	// The serving path uses a different epsilon (see the scoring service);
	// the asymmetry is inherited behavior and is kept per pipeline stage.
	TrainingEpsilon = 1e-5

	// Gap assigned to the first record of a group, meaning "not frequent".
	firstGapSeconds = 999999

	userWindowSeconds = 86400
	cardWindowSeconds = 3600
)

// BuildRows wraps cleaned transactions into pipeline rows with empty
// feature columns.
func BuildRows(txns []transaction.Transaction) []transaction.Row {
	rows := make([]transaction.Row, len(txns))
	for i, txn := range txns {
		rows[i] = transaction.Row{Transaction: txn}
	}
	return rows
}

// AddTimeFeatures extracts hour-of-day and day-of-week per record. Records
// without a timestamp keep null (NaN) time features; order-independent.
func AddTimeFeatures(rows []transaction.Row) []transaction.Row {
	for i := range rows {
		rows[i].HourOfDay = nullFeature
		rows[i].DayOfWeek = nullFeature
		if ts := rows[i].OccurredAt; ts != nil {
			rows[i].HourOfDay = transaction.HourOf(*ts)
			rows[i].DayOfWeek = transaction.WeekdayOf(*ts)
		}
	}
	return rows
}

// AddValueFeatures computes the per-user mean amount over the whole batch,
// broadcasts it to every record of that user, and derives the
// amount-to-average ratio with the training epsilon.
func AddValueFeatures(rows []transaction.Row) []transaction.Row {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range rows {
		sums[rows[i].UserID] += rows[i].Amount
		counts[rows[i].UserID]++
	}

	for i := range rows {
		avg := sums[rows[i].UserID] / float64(counts[rows[i].UserID])
		rows[i].UserAvgAmount = avg
		rows[i].AmountVsAvgRatio = rows[i].Amount / (avg + TrainingEpsilon)
	}
	return rows
}

// AddFrequencyFeatures runs the two windowed-repeat passes. Each pass sorts
// the batch by (key, timestamp), takes the gap to the immediately preceding
// record of the same key (first record of a key gets 999999s), flags gaps
// below the window, and accumulates a running sum of flags over the entire
// sorted sequence. The running sum is intentionally never reset at key
// boundaries: the column is a global cumulative count of fast-repeat flags,
// not a per-key rolling window count. That matches the behavior this service
// reproduces; change it only with an explicit product decision.
//
// The returned slice is left in (card_id, timestamp) order, the order the
// second pass imposes.
func AddFrequencyFeatures(rows []transaction.Row) []transaction.Row {
	sortByKeyTime(rows, func(r *transaction.Row) string { return r.UserID })
	cumulate(rows, func(r *transaction.Row) string { return r.UserID }, userWindowSeconds,
		func(r *transaction.Row, v float64) { r.UserTransFreq24h = v })

	sortByKeyTime(rows, func(r *transaction.Row) string { return r.CardID })
	cumulate(rows, func(r *transaction.Row) string { return r.CardID }, cardWindowSeconds,
		func(r *transaction.Row, v float64) { r.CardTransFreq1h = v })

	return rows
}

// Engineer applies the full feature pipeline in training order.
func Engineer(txns []transaction.Transaction) []transaction.Row {
	rows := BuildRows(txns)
	rows = AddTimeFeatures(rows)
	rows = AddValueFeatures(rows)
	rows = AddFrequencyFeatures(rows)
	return rows
}

var nullFeature = math.NaN()

// sortByKeyTime orders rows by (key, timestamp) ascending, null timestamps
// last within their key group.
func sortByKeyTime(rows []transaction.Row, key func(*transaction.Row) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(&rows[i]), key(&rows[j])
		if ki != kj {
			return ki < kj
		}
		ti, tj := rows[i].OccurredAt, rows[j].OccurredAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.Before(*tj)
		}
	})
}

func cumulate(rows []transaction.Row, key func(*transaction.Row) string, windowSeconds float64, set func(*transaction.Row, float64)) {
	var running float64
	for i := range rows {
		gap := float64(firstGapSeconds)
		if i > 0 && key(&rows[i]) == key(&rows[i-1]) &&
			rows[i].OccurredAt != nil && rows[i-1].OccurredAt != nil {
			gap = rows[i].OccurredAt.Sub(*rows[i-1].OccurredAt).Seconds()
		}
		if gap < windowSeconds {
			running++
		}
		set(&rows[i], running)
	}
}
