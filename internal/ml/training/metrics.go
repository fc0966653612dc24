package training

import (
	"math"
	"sort"
)

// Metrics summarizes holdout performance at a fixed threshold.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	ROCAUC    float64 `json:"roc_auc"`
	Threshold float64 `json:"threshold"`
}

// Evaluate computes holdout metrics from labels and positive-class
// probabilities.
func Evaluate(y []int, probas []float64, threshold float64) Metrics {
	tp, fp, tn, fn := confusion(y, probas, threshold)

	m := Metrics{Threshold: threshold}
	if total := tp + fp + tn + fn; total > 0 {
		m.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.ROCAUC = rocAUC(y, probas)
	return m
}

func confusion(y []int, probas []float64, threshold float64) (tp, fp, tn, fn int) {
	for i := range y {
		pred := 0
		if probas[i] >= threshold {
			pred = 1
		}
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 1 && y[i] == 0:
			fp++
		case pred == 0 && y[i] == 0:
			tn++
		default:
			fn++
		}
	}
	return
}

// rocAUC computes the area under the ROC curve by trapezoidal integration
// over the score-sorted samples.
func rocAUC(y []int, probas []float64) float64 {
	type pair struct {
		score float64
		label int
	}
	n := len(y)
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{probas[i], y[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	var pos, neg int
	for _, p := range pairs {
		if p.label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}

	tp, fp := 0, 0
	prevScore := math.Inf(1)
	prevTPR, prevFPR := 0.0, 0.0
	var auc float64
	for i := 0; i < n; i++ {
		if pairs[i].score != prevScore {
			tpr := float64(tp) / float64(pos)
			fpr := float64(fp) / float64(neg)
			auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
			prevTPR, prevFPR = tpr, fpr
			prevScore = pairs[i].score
		}
		if pairs[i].label == 1 {
			tp++
		} else {
			fp++
		}
	}
	tpr := float64(tp) / float64(pos)
	fpr := float64(fp) / float64(neg)
	auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
	return auc
}
