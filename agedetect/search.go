package agedetect

import "fmt"

// ParameterSearchResult holds the best smoothing divisor found by a sweep
// together with its cross-validation accuracy.
type ParameterSearchResult struct {
	bestDivisor float64
	bestRate    float64
}

// BestDivisor returns the winning smoothing divisor
func (r *ParameterSearchResult) BestDivisor() float64 {
	return r.bestDivisor
}

// BestRate returns the cross-validation accuracy of the winning divisor
func (r *ParameterSearchResult) BestRate() float64 {
	return r.bestRate
}

// FindSmoothingDivisor sweeps the smoothing divisor geometrically from
// startDivisor to maxDivisor, scoring each candidate with nrFold
// cross-validation accuracy. A non-positive startDivisor starts the sweep
// at 1.
func FindSmoothingDivisor(prob *Problem, param *Parameter, numClass int, nrFold int, startDivisor float64, maxDivisor float64) (*ParameterSearchResult, error) {
	if param == nil {
		param = DefaultParameter()
	}
	if startDivisor <= 0 {
		startDivisor = 1
	}
	if maxDivisor < startDivisor {
		return nil, fmt.Errorf("max divisor %g below start divisor %g", maxDivisor, startDivisor)
	}

	var ratio float64 = 2
	result := &ParameterSearchResult{bestDivisor: startDivisor, bestRate: -1}

	for divisor := startDivisor; divisor <= maxDivisor; divisor *= ratio {
		candidate := NewParameter(param.GetScoringMode(), divisor, param.GetLaplaceTerm())
		detector, err := NewAgeDetector(numClass, candidate)
		if err != nil {
			return nil, err
		}

		target, err := RunCVPred(prob, detector, nrFold)
		if err != nil {
			return nil, err
		}

		rate := Accuracy(prob.Y, target)
		logger.Printf("divisor %g: CV accuracy = %g%%\n", divisor, 100.0*rate)

		if rate > result.bestRate {
			result.bestDivisor = divisor
			result.bestRate = rate
		}
	}

	return result, nil
}
