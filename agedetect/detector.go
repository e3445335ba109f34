package agedetect

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"
)

var logger = log.New(os.Stdout, "[agedetect] ", log.LstdFlags)

var random = rand.New(rand.NewSource(0))

// tableEpsilon bounds every table entry away from 0 and 1. A feature with
// no followers in the training set yields a raw estimate of exactly 0, and
// a zero Laplace term can yield exactly 1; either would blow up the
// log(p)/log(1-p) terms of EXACT_BERNOULLI scoring.
const tableEpsilon = 1e-12

// AgeDetector estimates the age bracket of a user from the set of accounts
// they follow. Per-class follow probabilities are smoothed with an
// informative Beta prior derived from each account's overall popularity.
type AgeDetector struct {
	numClass int
	prior    []float64
	param    *Parameter
	model    *Model
}

// NewAgeDetector constructs a detector for numClass age brackets with a
// uniform class prior. A nil param selects the default hyperparameters.
func NewAgeDetector(numClass int, param *Parameter) (*AgeDetector, error) {
	if numClass < 2 {
		return nil, fmt.Errorf("nr_class must be >= 2, got %d", numClass)
	}
	if param == nil {
		param = DefaultParameter()
	}

	prior := make([]float64, numClass)
	for c := range prior {
		prior[c] = 1.0 / float64(numClass)
	}

	return &AgeDetector{
		numClass: numClass,
		prior:    prior,
		param:    param,
	}, nil
}

// NumClass returns the number of age brackets
func (d *AgeDetector) NumClass() int {
	return d.numClass
}

// Prior returns a copy of the class prior
func (d *AgeDetector) Prior() []float64 {
	prior := make([]float64, len(d.prior))
	copy(prior, d.prior)
	return prior
}

// Model returns the trained model, or nil before Fit
func (d *AgeDetector) Model() *Model {
	return d.model
}

// Fit estimates the probability table from a labelled follow dataset.
// For each bracket c and account j the smoothed estimate is
//
//	p = (posCount + a) / (bucketCount + a + laplace)
//	a = b * nFollowers / nSamples,  b = bucketCount / divisor
//
// so an account's overall popularity acts as the Beta prior mean. Entries
// are bounded into (tableEpsilon, 1-tableEpsilon) so every table value is
// strictly inside the unit interval. Any previously trained model is fully
// replaced.
func (d *AgeDetector) Fit(prob *Problem) error {
	if err := d.validate(prob); err != nil {
		return err
	}

	bucketCounts := make([]float64, d.numClass)
	nFollowers := make([]float64, prob.N)
	posCounts := mat.NewDense(d.numClass, prob.N, nil)

	for i, x := range prob.X {
		c := classRow(prob.Y[i])
		bucketCounts[c]++
		for _, feature := range x {
			j := feature.GetIndex() - 1
			posCounts.Set(c, j, posCounts.At(c, j)+feature.GetValue())
			nFollowers[j] += feature.GetValue()
		}
	}

	nData := float64(prob.L)
	divisor := d.param.GetSmoothingDivisor()
	laplace := d.param.GetLaplaceTerm()

	table := mat.NewDense(d.numClass, prob.N, nil)
	for c := 0; c < d.numClass; c++ {
		b := bucketCounts[c] / divisor
		for j := 0; j < prob.N; j++ {
			a := b * nFollowers[j] / nData
			numerator := posCounts.At(c, j) + a
			denominator := bucketCounts[c] + a + laplace
			p := numerator / denominator
			if p < tableEpsilon {
				p = tableEpsilon
			} else if p > 1-tableEpsilon {
				p = 1 - tableEpsilon
			}
			table.Set(c, j, p)
		}
	}

	d.model = NewModel(d.numClass, prob.N, d.param.GetScoringMode(), table)
	return nil
}

// validate checks every Fit precondition before any state is touched.
func (d *AgeDetector) validate(prob *Problem) error {
	if prob == nil {
		return fmt.Errorf("%w: nil problem", ErrDimensionMismatch)
	}
	if prob.L != len(prob.Y) || prob.L != len(prob.X) {
		return fmt.Errorf("%w: L=%d but %d feature rows and %d labels", ErrDimensionMismatch, prob.L, len(prob.X), len(prob.Y))
	}
	if prob.L == 0 {
		return fmt.Errorf("%w: empty training set", ErrDimensionMismatch)
	}
	if prob.N < 1 {
		return fmt.Errorf("%w: training set has no feature accounts (N=%d)", ErrDimensionMismatch, prob.N)
	}
	for i, label := range prob.Y {
		if label < 1 || label > d.numClass {
			return fmt.Errorf("%w: label %d at row %d with nr_class %d", ErrLabelDomain, label, i, d.numClass)
		}
	}
	for i, x := range prob.X {
		for _, feature := range x {
			if index := feature.GetIndex(); index < 1 || index > prob.N {
				return fmt.Errorf("%w: account index %d at row %d with N=%d", ErrDimensionMismatch, index, i, prob.N)
			}
		}
	}
	return nil
}
