// Package scaler implements per-feature standardization (zero mean, unit
// variance) with persistable fitted parameters. The scaler is fit exactly
// once, on training data; the serving path re-applies the persisted fit and
// never refits.
package scaler

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
)

// StandardScaler holds fitted per-feature standardization parameters.
// Fields are exported for gob serialization.
type StandardScaler struct {
	Columns []string
	Means   []float64
	Stds    []float64
}

// Fit computes per-feature mean and population standard deviation over the
// supplied matrix. NaN cells (null-derived time features) are excluded from
// the statistics. A feature with zero spread keeps std 1 so Transform is a
// no-op shift for it.
func Fit(matrix [][]float64, columns []string) (*StandardScaler, error) {
	if len(matrix) == 0 {
		return nil, errors.NewValidationError("EMPTY_MATRIX", "cannot fit scaler on empty data")
	}
	width := len(columns)
	for _, row := range matrix {
		if len(row) != width {
			return nil, errors.NewValidationError("SHAPE_MISMATCH", "row width does not match column count")
		}
	}

	s := &StandardScaler{
		Columns: append([]string(nil), columns...),
		Means:   make([]float64, width),
		Stds:    make([]float64, width),
	}

	column := make([]float64, 0, len(matrix))
	for j := 0; j < width; j++ {
		column = column[:0]
		for _, row := range matrix {
			if !math.IsNaN(row[j]) {
				column = append(column, row[j])
			}
		}
		if len(column) == 0 {
			s.Means[j] = 0
			s.Stds[j] = 1
			continue
		}
		s.Means[j] = stat.Mean(column, nil)
		s.Stds[j] = stat.PopStdDev(column, nil)
		if s.Stds[j] == 0 {
			s.Stds[j] = 1
		}
	}

	return s, nil
}

// Transform standardizes a matrix with the fitted parameters.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := s.TransformVector(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformVector standardizes a single feature vector. The vector must
// follow the column ordering the scaler was fitted with.
func (s *StandardScaler) TransformVector(vector []float64) ([]float64, error) {
	if len(vector) != len(s.Means) {
		return nil, errors.NewValidationError("SHAPE_MISMATCH", "vector width does not match fitted features")
	}
	out := make([]float64, len(vector))
	for j, v := range vector {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out, nil
}

// InverseTransform maps a standardized vector back to the original scale.
func (s *StandardScaler) InverseTransform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.Means) {
		return nil, errors.NewValidationError("SHAPE_MISMATCH", "vector width does not match fitted features")
	}
	out := make([]float64, len(vector))
	for j, v := range vector {
		out[j] = v*s.Stds[j] + s.Means[j]
	}
	return out, nil
}

// NumFeatures returns the fitted feature count.
func (s *StandardScaler) NumFeatures() int {
	return len(s.Means)
}
