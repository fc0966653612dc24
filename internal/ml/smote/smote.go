// Package smote rebalances a binary training set by synthesizing minority
// samples along segments between a minority sample and one of its nearest
// minority neighbors. Only the training split is ever resampled; the test
// split must keep its original distribution.
package smote

import (
	"math"
	"math/rand"
	"sort"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
)

// DefaultK is the neighbor count used when the caller passes k <= 0.
const DefaultK = 5

// Oversample returns the input augmented with synthetic minority samples
// until both classes are the same size. Deterministic for a fixed seed.
// Inputs are not mutated; the returned slices share the original rows.
func Oversample(X [][]float64, y []int, k int, seed int64) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, errors.NewValidationError("SHAPE_MISMATCH", "feature matrix and labels differ in length")
	}
	if k <= 0 {
		k = DefaultK
	}

	var minority, majority []int
	for i, label := range y {
		if label == 1 {
			minority = append(minority, i)
		} else {
			majority = append(majority, i)
		}
	}
	// Convention elsewhere in the pipeline is fraud=1 as the minority class,
	// but a batch can be inverted; synthesize whichever class is smaller.
	minorityLabel := 1
	if len(majority) < len(minority) {
		minority, majority = majority, minority
		minorityLabel = 0
	}
	need := len(majority) - len(minority)
	if need == 0 || len(minority) == 0 {
		return X, y, nil
	}
	if len(minority) < 2 {
		return nil, nil, errors.NewValidationError("TOO_FEW_SAMPLES", "need at least 2 minority samples to oversample")
	}
	if k >= len(minority) {
		k = len(minority) - 1
	}

	neighbors := nearestNeighbors(X, minority, k)
	rng := rand.New(rand.NewSource(seed))

	outX := make([][]float64, len(X), len(X)+need)
	copy(outX, X)
	outY := make([]int, len(y), len(y)+need)
	copy(outY, y)

	for n := 0; n < need; n++ {
		base := rng.Intn(len(minority))
		neighbor := neighbors[base][rng.Intn(k)]
		gap := rng.Float64()

		a := X[minority[base]]
		b := X[neighbor]
		synthetic := make([]float64, len(a))
		for j := range a {
			synthetic[j] = a[j] + gap*(b[j]-a[j])
		}
		outX = append(outX, synthetic)
		outY = append(outY, minorityLabel)
	}

	return outX, outY, nil
}

// nearestNeighbors computes, for each minority sample, the indices of its k
// nearest minority neighbors by Euclidean distance. NaN coordinates are
// skipped in the distance sum so null-derived features do not poison it.
func nearestNeighbors(X [][]float64, minority []int, k int) [][]int {
	type candidate struct {
		index int
		dist  float64
	}

	out := make([][]int, len(minority))
	for i, self := range minority {
		candidates := make([]candidate, 0, len(minority)-1)
		for _, other := range minority {
			if other == self {
				continue
			}
			candidates = append(candidates, candidate{other, distance(X[self], X[other])})
		}
		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].dist != candidates[b].dist {
				return candidates[a].dist < candidates[b].dist
			}
			return candidates[a].index < candidates[b].index
		})
		picks := make([]int, k)
		for j := 0; j < k; j++ {
			picks[j] = candidates[j].index
		}
		out[i] = picks
	}
	return out
}

func distance(a, b []float64) float64 {
	var sum float64
	for j := range a {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		d := a[j] - b[j]
		sum += d * d
	}
	return math.Sqrt(sum)
}
