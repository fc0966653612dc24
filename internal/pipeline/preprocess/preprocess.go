// Package preprocess loads raw transaction batches and normalizes them for
// feature engineering: permissive timestamp parsing, categorical defaults and
// median imputation of missing amounts.
package preprocess

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
	"github.com/frdetect/fraud-detection-backend/internal/domain/transaction"
)

// timestampLayouts are tried in order. Anything that matches none of them is
// coerced to a null timestamp rather than rejected.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp permissively, returning nil when the
// value is empty or matches no known layout.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}

// LoadCSV reads a training batch from a tabular file. Column order is taken
// from the header row. Missing or non-numeric amounts become NaN until Clean
// imputes them; bad timestamps become null. An unreadable file or a missing
// required column yields a ParseError.
func LoadCSV(path string) ([]transaction.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open input file").WithCause(err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]transaction.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParseError("failed to read header row").WithCause(err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"transaction_id", "user_id", "card_id", "transaction_amount", "transaction_dt"} {
		if _, ok := col[required]; !ok {
			return nil, errors.NewParseError("missing required column: " + required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var txns []transaction.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError("failed to read record").WithCause(err)
		}

		amount := math.NaN()
		if raw := field(record, "transaction_amount"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				amount = v
			}
		}

		isFraud := 0
		if raw := field(record, "is_fraud"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				isFraud = v
			}
		}

		txns = append(txns, transaction.Transaction{
			TransactionID:    field(record, "transaction_id"),
			UserID:           field(record, "user_id"),
			CardID:           field(record, "card_id"),
			MerchantID:       field(record, "merchant_id"),
			MerchantCategory: field(record, "merchant_category"),
			Amount:           amount,
			OccurredAt:       ParseTimestamp(field(record, "transaction_dt")),
			IsFraud:          isFraud,
		})
	}

	return txns, nil
}

// Clean fills missing values in place: merchant_category defaults to
// "Unknown" and missing amounts take the median of the amounts present in
// this batch. The median is batch-local, so cleaning a different window of
// the same data can impute a different value.
func Clean(txns []transaction.Transaction) []transaction.Transaction {
	present := make([]float64, 0, len(txns))
	for i := range txns {
		if txns[i].HasAmount() {
			present = append(present, txns[i].Amount)
		}
	}
	median := Median(present)

	for i := range txns {
		if txns[i].MerchantCategory == "" {
			txns[i].MerchantCategory = transaction.MissingCategory
		}
		if !txns[i].HasAmount() {
			txns[i].Amount = median
		}
	}
	return txns
}

// Median returns the batch median, averaging the two middle values for an
// even count. NaN when the batch is empty.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
