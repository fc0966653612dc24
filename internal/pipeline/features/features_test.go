package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
)

func txn(id, userID, cardID string, amount float64, ts *time.Time) transaction.Transaction {
	return transaction.Transaction{
		TransactionID: id,
		UserID:        userID,
		CardID:        cardID,
		Amount:        amount,
		OccurredAt:    ts,
	}
}

func at(offset time.Duration) *time.Time {
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC).Add(offset)
	return &ts
}

func rowByID(t *testing.T, rows []transaction.Row, id string) *transaction.Row {
	t.Helper()
	for i := range rows {
		if rows[i].TransactionID == id {
			return &rows[i]
		}
	}
	t.Fatalf("row %s not found", id)
	return nil
}

func TestAddTimeFeatures(t *testing.T) {
	// 2024-03-15 was a Friday.
	rows := BuildRows([]transaction.Transaction{
		txn("t1", "u1", "c1", 10, at(0)),
		txn("t2", "u1", "c1", 10, nil),
	})

	rows = AddTimeFeatures(rows)

	assert.Equal(t, 14.0, rows[0].HourOfDay)
	assert.Equal(t, 4.0, rows[0].DayOfWeek)

	// Null timestamps yield null features, not zeros.
	assert.True(t, math.IsNaN(rows[1].HourOfDay))
	assert.True(t, math.IsNaN(rows[1].DayOfWeek))
}

func TestAddValueFeatures(t *testing.T) {
	rows := BuildRows([]transaction.Transaction{
		txn("t1", "u1", "c1", 50, at(0)),
		txn("t2", "u1", "c1", 150, at(time.Hour)),
		txn("t3", "u2", "c2", 30, at(0)),
	})

	rows = AddValueFeatures(rows)

	// u1 averages 100 across the batch; the average is broadcast to every
	// record of the user.
	assert.InDelta(t, 100.0, rows[0].UserAvgAmount, 1e-12)
	assert.InDelta(t, 100.0, rows[1].UserAvgAmount, 1e-12)
	assert.InDelta(t, 30.0, rows[2].UserAvgAmount, 1e-12)

	assert.InDelta(t, 50.0/(100.0+TrainingEpsilon), rows[0].AmountVsAvgRatio, 1e-12)
	assert.InDelta(t, 150.0/(100.0+TrainingEpsilon), rows[1].AmountVsAvgRatio, 1e-12)
	assert.InDelta(t, 30.0/(30.0+TrainingEpsilon), rows[2].AmountVsAvgRatio, 1e-12)
}

func TestAddFrequencyFeatures_GlobalRunningSum(t *testing.T) {
	// Two users with one fast repeat each, on distinct cards. The user-level
	// running sum carries across the u1/u2 boundary: it counts fast repeats
	// over the whole sorted batch, not per user.
	rows := BuildRows([]transaction.Transaction{
		txn("a1", "u1", "c1", 10, at(0)),
		txn("a2", "u1", "c2", 10, at(time.Minute)),
		txn("b1", "u2", "c3", 10, at(0)),
		txn("b2", "u2", "c4", 10, at(time.Minute)),
	})

	rows = AddFrequencyFeatures(rows)

	assert.Equal(t, 0.0, rowByID(t, rows, "a1").UserTransFreq24h)
	assert.Equal(t, 1.0, rowByID(t, rows, "a2").UserTransFreq24h)
	assert.Equal(t, 1.0, rowByID(t, rows, "b1").UserTransFreq24h)
	assert.Equal(t, 2.0, rowByID(t, rows, "b2").UserTransFreq24h)

	// Every card appears once, so no card-level fast repeats exist.
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		assert.Equal(t, 0.0, rowByID(t, rows, id).CardTransFreq1h)
	}
}

func TestAddFrequencyFeatures_CardWindow(t *testing.T) {
	rows := BuildRows([]transaction.Transaction{
		txn("t1", "u1", "c1", 10, at(0)),
		txn("t2", "u2", "c1", 10, at(30*time.Minute)),  // within the 1h window
		txn("t3", "u3", "c1", 10, at(180*time.Minute)), // outside it
	})

	rows = AddFrequencyFeatures(rows)

	assert.Equal(t, 0.0, rowByID(t, rows, "t1").CardTransFreq1h)
	assert.Equal(t, 1.0, rowByID(t, rows, "t2").CardTransFreq1h)
	assert.Equal(t, 1.0, rowByID(t, rows, "t3").CardTransFreq1h)
}

func TestAddFrequencyFeatures_MonotonicNonDecreasing(t *testing.T) {
	rows := BuildRows([]transaction.Transaction{
		txn("t1", "u1", "c1", 10, at(0)),
		txn("t2", "u1", "c1", 10, at(time.Minute)),
		txn("t3", "u2", "c1", 10, at(2*time.Minute)),
		txn("t4", "u2", "c2", 10, at(3*time.Minute)),
		txn("t5", "u3", "c2", 10, at(4*time.Minute)),
	})

	rows = AddFrequencyFeatures(rows)

	// The running sums never decrease over their pass order. The slice
	// comes back in (card, timestamp) order, which is the card pass order.
	prev := -1.0
	for i := range rows {
		assert.GreaterOrEqual(t, rows[i].CardTransFreq1h, prev)
		prev = rows[i].CardTransFreq1h
	}
}

func TestAddFrequencyFeatures_NullTimestamps(t *testing.T) {
	rows := BuildRows([]transaction.Transaction{
		txn("t1", "u1", "c1", 10, at(0)),
		txn("t2", "u1", "c1", 10, nil),
		txn("t3", "u1", "c1", 10, at(time.Minute)),
	})

	rows = AddFrequencyFeatures(rows)

	// Null timestamps sort last within the user group and never count as a
	// fast repeat themselves.
	assert.Equal(t, 0.0, rowByID(t, rows, "t1").UserTransFreq24h)
	assert.Equal(t, 1.0, rowByID(t, rows, "t3").UserTransFreq24h)
	assert.Equal(t, 1.0, rowByID(t, rows, "t2").UserTransFreq24h)
}

func TestEngineer(t *testing.T) {
	rows := Engineer([]transaction.Transaction{
		txn("t1", "u1", "c1", 100, at(0)),
		txn("t2", "u1", "c1", 100, at(time.Minute)),
	})

	require.Len(t, rows, 2)
	for i := range rows {
		vec := rows[i].TrainingVector()
		require.Len(t, vec, len(transaction.TrainingFeatureColumns))
		for _, v := range vec {
			assert.False(t, math.IsNaN(v))
		}
	}
}
