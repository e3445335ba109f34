package agedetect

import "fmt"

// RunCVPred runs nrFold stratified cross validation and returns one
// prediction per row of prob. Folds are class-proportional; each fold is
// predicted by a model trained on the remaining folds, so every position
// of the result is written exactly once. Per-fold macro and micro metrics
// go to the package logger. The detector is refit on each fold's training
// split, so afterwards it holds the last fold's model, not one trained on
// the full dataset.
func RunCVPred(prob *Problem, detector *AgeDetector, nrFold int) ([]int, error) {
	if prob == nil || prob.L != len(prob.Y) || prob.L != len(prob.X) {
		return nil, fmt.Errorf("%w: misaligned problem", ErrDimensionMismatch)
	}
	if nrFold < 2 {
		return nil, fmt.Errorf("nr_fold must be >= 2, got %d", nrFold)
	}
	for i, label := range prob.Y {
		if label < 1 || label > detector.NumClass() {
			return nil, fmt.Errorf("%w: label %d at row %d with nr_class %d", ErrLabelDomain, label, i, detector.NumClass())
		}
	}

	l := prob.L
	if nrFold > l {
		nrFold = l
		logger.Println("WARNING: # folds > # data. Will use # folds = # data instead (i.e., leave-one-out cross validation)")
	}

	folds := stratifiedFolds(prob.Y, detector.NumClass(), nrFold)
	target := make([]int, l)

	for foldIdx, holdout := range folds {
		if len(holdout) == 0 {
			continue
		}

		held := make([]bool, l)
		for _, idx := range holdout {
			held[idx] = true
		}

		trainL := l - len(holdout)
		subProb := NewProblem(trainL, prob.N, make([]int, trainL), make([][]Feature, trainL))
		k := 0
		for j := 0; j < l; j++ {
			if held[j] {
				continue
			}
			subProb.X[k] = prob.X[j]
			subProb.Y[k] = prob.Y[j]
			k++
		}

		if err := detector.Fit(subProb); err != nil {
			return nil, fmt.Errorf("fold %d: %w", foldIdx, err)
		}

		testX := make([][]Feature, len(holdout))
		yTrue := make([]int, len(holdout))
		for n, idx := range holdout {
			testX[n] = prob.X[idx]
			yTrue[n] = prob.Y[idx]
		}

		predictions, err := detector.Predict(testX)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", foldIdx, err)
		}
		for n, idx := range holdout {
			target[idx] = predictions[n]
		}

		macroP, macroR, macroF := MacroMetrics(yTrue, predictions, detector.NumClass())
		microP, microR, microF := MicroMetrics(yTrue, predictions, detector.NumClass())
		logger.Printf("fold %d: macro precision=%.4f recall=%.4f f1=%.4f\n", foldIdx, macroP, macroR, macroF)
		logger.Printf("fold %d: micro precision=%.4f recall=%.4f f1=%.4f\n", foldIdx, microP, microR, microF)
	}

	return target, nil
}

// stratifiedFolds shuffles the row indices of each bracket and deals them
// into nrFold groups with a rotating counter, so every fold gets a
// class-proportional share.
func stratifiedFolds(y []int, numClass int, nrFold int) [][]int {
	byClass := make([][]int, numClass)
	for i, label := range y {
		c := classRow(label)
		byClass[c] = append(byClass[c], i)
	}

	for _, indices := range byClass {
		for i := range indices {
			j := i + random.Intn(len(indices)-i)
			swapIntArray(indices, i, j)
		}
	}

	folds := make([][]int, nrFold)
	next := 0
	for _, indices := range byClass {
		for _, idx := range indices {
			folds[next%nrFold] = append(folds[next%nrFold], idx)
			next++
		}
	}
	return folds
}

func swapIntArray(array []int, idxA int, idxB int) {
	temp := array[idxA]
	array[idxA] = array[idxB]
	array[idxB] = temp
}
