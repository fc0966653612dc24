package transaction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 was a Monday.
	tests := []struct {
		name string
		date time.Time
		want float64
	}{
		{"monday", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 0},
		{"wednesday", time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), 2},
		{"saturday", time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), 5},
		{"sunday", time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekdayOf(tt.date))
		})
	}
}

func TestHourOf(t *testing.T) {
	assert.Equal(t, 0.0, HourOf(time.Date(2024, 1, 1, 0, 59, 0, 0, time.UTC)))
	assert.Equal(t, 23.0, HourOf(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)))
}

func TestTransaction_HasAmount(t *testing.T) {
	txn := Transaction{Amount: math.NaN()}
	assert.False(t, txn.HasAmount())

	txn.Amount = 0
	assert.True(t, txn.HasAmount())
}

func TestTransaction_HasTimestamp(t *testing.T) {
	txn := Transaction{}
	assert.False(t, txn.HasTimestamp())

	ts := time.Now()
	txn.OccurredAt = &ts
	assert.True(t, txn.HasTimestamp())
}

func TestRow_Vectors(t *testing.T) {
	row := Row{
		Transaction: Transaction{Amount: 100},
		Features: Features{
			HourOfDay:        14,
			DayOfWeek:        2,
			AmountVsAvgRatio: 1.5,
			UserTransFreq24h: 3,
			CardTransFreq1h:  1,
		},
	}

	assert.Equal(t, []float64{100, 14, 2, 1.5}, row.ServingVector())
	assert.Equal(t, []float64{100, 14, 2, 1.5, 3, 1}, row.TrainingVector())

	assert.Len(t, ServingFeatureColumns, len(row.ServingVector()))
	assert.Len(t, TrainingFeatureColumns, len(row.TrainingVector()))
}
