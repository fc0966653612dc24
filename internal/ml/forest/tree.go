package forest

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is a single node of a CART decision tree. Exported fields keep
// the tree gob-serializable.
type TreeNode struct {
	Leaf      bool
	Proba     float64 // fraction of positive samples at a leaf
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// treeConfig controls tree growth.
type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

// growTree builds a tree on the given sample indices. NaN feature values
// fail every threshold comparison and route right.
func growTree(X [][]float64, y []int, indices []int, depth int, cfg treeConfig, rng *rand.Rand) *TreeNode {
	pos := 0
	for _, idx := range indices {
		if y[idx] == 1 {
			pos++
		}
	}
	proba := float64(pos) / float64(len(indices))

	if depth >= cfg.maxDepth || len(indices) < cfg.minSamplesSplit || pos == 0 || pos == len(indices) {
		return &TreeNode{Leaf: true, Proba: proba}
	}

	feature, threshold, ok := bestSplit(X, y, indices, cfg.maxFeatures, rng)
	if !ok {
		return &TreeNode{Leaf: true, Proba: proba}
	}

	var left, right []int
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Proba: proba}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, depth+1, cfg, rng),
		Right:     growTree(X, y, right, depth+1, cfg, rng),
	}
}

// bestSplit evaluates candidate thresholds on a random feature subset and
// returns the split with the lowest weighted Gini impurity.
func bestSplit(X [][]float64, y []int, indices []int, maxFeatures int, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	numFeatures := len(X[0])
	candidates := rng.Perm(numFeatures)
	if maxFeatures > 0 && maxFeatures < numFeatures {
		candidates = candidates[:maxFeatures]
	}

	bestGini := math.Inf(1)
	values := make([]float64, 0, len(indices))

	for _, f := range candidates {
		values = values[:0]
		for _, idx := range indices {
			if v := X[idx][f]; !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) < 2 {
			continue
		}
		sort.Float64s(values)

		prev := values[0]
		for _, v := range values[1:] {
			if v == prev {
				continue
			}
			thr := (prev + v) / 2
			prev = v

			gini := splitGini(X, y, indices, f, thr)
			if gini < bestGini {
				bestGini = gini
				feature = f
				threshold = thr
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// splitGini computes the size-weighted Gini impurity of a candidate split.
func splitGini(X [][]float64, y []int, indices []int, feature int, threshold float64) float64 {
	var leftN, leftPos, rightN, rightPos float64
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			leftN++
			if y[idx] == 1 {
				leftPos++
			}
		} else {
			rightN++
			if y[idx] == 1 {
				rightPos++
			}
		}
	}
	total := leftN + rightN
	return leftN/total*gini(leftPos, leftN) + rightN/total*gini(rightPos, rightN)
}

func gini(pos, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := pos / n
	return 2 * p * (1 - p)
}

// predictProba walks the tree for one sample.
func (n *TreeNode) predictProba(sample []float64) float64 {
	node := n
	for !node.Leaf {
		if sample[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Proba
}
