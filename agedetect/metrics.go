package agedetect

// Accuracy is the fraction of predictions matching the true brackets.
func Accuracy(yTrue []int, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// confusionCounts tallies per-bracket true positives, false positives and
// false negatives. Brackets are 1-based; counts index by table row.
func confusionCounts(yTrue []int, yPred []int, numClass int) (tp, fp, fn []int) {
	tp = make([]int, numClass)
	fp = make([]int, numClass)
	fn = make([]int, numClass)
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			tp[classRow(yTrue[i])]++
		} else {
			fp[classRow(yPred[i])]++
			fn[classRow(yTrue[i])]++
		}
	}
	return tp, fp, fn
}

// MacroMetrics averages per-bracket precision, recall and F1 with equal
// weight per bracket. Brackets with no predictions or no support count as
// zero rather than being skipped.
func MacroMetrics(yTrue []int, yPred []int, numClass int) (precision, recall, f1 float64) {
	tp, fp, fn := confusionCounts(yTrue, yPred, numClass)
	for c := 0; c < numClass; c++ {
		var p, r, f float64
		if tp[c]+fp[c] > 0 {
			p = float64(tp[c]) / float64(tp[c]+fp[c])
		}
		if tp[c]+fn[c] > 0 {
			r = float64(tp[c]) / float64(tp[c]+fn[c])
		}
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}
		precision += p
		recall += r
		f1 += f
	}
	n := float64(numClass)
	return precision / n, recall / n, f1 / n
}

// MicroMetrics pools the confusion counts over all brackets before
// computing precision, recall and F1.
func MicroMetrics(yTrue []int, yPred []int, numClass int) (precision, recall, f1 float64) {
	tp, fp, fn := confusionCounts(yTrue, yPred, numClass)
	var sumTp, sumFp, sumFn int
	for c := 0; c < numClass; c++ {
		sumTp += tp[c]
		sumFp += fp[c]
		sumFn += fn[c]
	}
	if sumTp+sumFp > 0 {
		precision = float64(sumTp) / float64(sumTp+sumFp)
	}
	if sumTp+sumFn > 0 {
		recall = float64(sumTp) / float64(sumTp+sumFn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}
