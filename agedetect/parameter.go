package agedetect

import "fmt"

// DefaultSmoothingDivisor is the divisor applied to per-class totals when
// deriving the Beta hyperparameter b. It controls smoothing strength.
const DefaultSmoothingDivisor = 10.0

// DefaultLaplaceTerm is the additive term layered on top of the Beta prior
// in the smoothed denominator.
const DefaultLaplaceTerm = 1.0

// Parameter contains the hyperparameters for fitting and scoring
type Parameter struct {
	smoothingDivisor float64
	laplaceTerm      float64
	scoringMode      *ScoringMode
}

// NewParameter constructs a Parameter
func NewParameter(scoringMode *ScoringMode, smoothingDivisor float64, laplaceTerm float64) *Parameter {
	return &Parameter{
		scoringMode:      scoringMode,
		smoothingDivisor: smoothingDivisor,
		laplaceTerm:      laplaceTerm,
	}
}

// DefaultParameter constructs a Parameter with the default hyperparameters
func DefaultParameter() *Parameter {
	return NewParameter(SparseApprox, DefaultSmoothingDivisor, DefaultLaplaceTerm)
}

// GetSmoothingDivisor gets the smoothing divisor
func (p *Parameter) GetSmoothingDivisor() float64 {
	return p.smoothingDivisor
}

// SetSmoothingDivisor sets the smoothing divisor, which must be positive
func (p *Parameter) SetSmoothingDivisor(divisor float64) error {
	if divisor <= 0 {
		return fmt.Errorf("smoothing divisor must be > 0, got %g", divisor)
	}
	p.smoothingDivisor = divisor
	return nil
}

// GetLaplaceTerm gets the Laplace term
func (p *Parameter) GetLaplaceTerm() float64 {
	return p.laplaceTerm
}

// SetLaplaceTerm sets the Laplace term, which must not be negative
func (p *Parameter) SetLaplaceTerm(term float64) error {
	if term < 0 {
		return fmt.Errorf("laplace term must be >= 0, got %g", term)
	}
	p.laplaceTerm = term
	return nil
}

// GetScoringMode gets the scoring mode
func (p *Parameter) GetScoringMode() *ScoringMode {
	return p.scoringMode
}

// SetScoringMode sets the scoring mode, which must not be nil
func (p *Parameter) SetScoringMode(mode *ScoringMode) error {
	if mode == nil {
		return fmt.Errorf("scoring mode must not be nil")
	}
	p.scoringMode = mode
	return nil
}
