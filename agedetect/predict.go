package agedetect

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Predict returns the most probable age bracket for each feature row,
// using the detector's trained model and uniform prior.
func (d *AgeDetector) Predict(x [][]Feature) ([]int, error) {
	predictions, _, err := d.PredictProba(x)
	return predictions, err
}

// PredictProba returns the predicted brackets together with the normalized
// (len(x) x nr_class) posterior matrix. The matrix is nil when x is empty.
func (d *AgeDetector) PredictProba(x [][]Feature) ([]int, *mat.Dense, error) {
	if d.model == nil {
		return nil, nil, ErrModelNotTrained
	}
	return PredictProba(d.model, x)
}

// Predict classifies each row of x against a trained model under a
// uniform class prior.
func Predict(model *Model, x [][]Feature) ([]int, error) {
	predictions, _, err := PredictProba(model, x)
	return predictions, err
}

// PredictProba accumulates per-feature evidence in log space, one joint
// score per (row, bracket). Only structurally non-zero entries of x
// contribute in SPARSE_APPROX mode; EXACT_BERNOULLI additionally charges
// every absent account its log(1-p) mass. Scores are shifted by the row
// maximum before exponentiating, so large feature sets cannot underflow.
// The posterior matrix is nil when x is empty.
func PredictProba(model *Model, x [][]Feature) ([]int, *mat.Dense, error) {
	if model == nil {
		return nil, nil, ErrModelNotTrained
	}
	if len(x) == 0 {
		return []int{}, nil, nil
	}
	for i, row := range x {
		for _, feature := range row {
			if index := feature.GetIndex(); index < 1 || index > model.NumFeatures {
				return nil, nil, fmt.Errorf("%w: account index %d at row %d but model has %d features", ErrDimensionMismatch, index, i, model.NumFeatures)
			}
		}
	}

	numClass := model.NumClass
	exact := model.ScoringMode.IsExactLikelihood()
	logPrior := math.Log(1.0 / float64(numClass))

	// In exact mode every absent account contributes log(1-p); start each
	// row from the all-absent baseline and correct for present accounts.
	var baseline []float64
	if exact {
		baseline = make([]float64, numClass)
		for c := 0; c < numClass; c++ {
			for j := 0; j < model.NumFeatures; j++ {
				baseline[c] += math.Log(1 - model.Table.At(c, j))
			}
		}
	}

	joint := mat.NewDense(len(x), numClass, nil)
	predictions := make([]int, len(x))

	for i, row := range x {
		scores := joint.RawRowView(i)
		if exact {
			copy(scores, baseline)
		}

		for _, feature := range row {
			j := feature.GetIndex() - 1
			for c := 0; c < numClass; c++ {
				p := model.Table.At(c, j)
				if exact {
					scores[c] += math.Log(p) - math.Log(1-p)
				} else {
					// SPARSE_APPROX accumulates the raw table entries as if
					// they were log scores.
					scores[c] += p
				}
			}
		}

		for c := 0; c < numClass; c++ {
			scores[c] += logPrior
		}

		// Shift by the row max before unlogging, logsumexp style.
		shift := floats.Max(scores)
		for c := range scores {
			scores[c] = math.Exp(scores[c] - shift)
		}
		normaliser := floats.Sum(scores)
		for c := range scores {
			scores[c] /= normaliser
		}

		// floats.MaxIdx returns the first maximum, so prior-only ties go to
		// the lowest bracket.
		predictions[i] = rowClass(floats.MaxIdx(scores))
	}

	return predictions, joint, nil
}

// WritePredictions writes one predicted age bracket per line.
func WritePredictions(writer io.Writer, predictions []int) error {
	w := bufio.NewWriter(writer)
	for _, p := range predictions {
		if _, err := fmt.Fprintf(w, "%d\n", p); err != nil {
			return err
		}
	}
	return w.Flush()
}
