package agedetect

// SparseApprox accumulates the raw table entries of present features only,
// skipping the log(1-p) mass of absent ones. An approximation, not full
// Naive Bayes, but it only ever touches structurally non-zero entries.
var SparseApprox = NewScoringMode(0, "SPARSE_APPROX", false)

// ExactBernoulli scores the full Bernoulli log-likelihood: log(p) for each
// followed account plus log(1-p) for every account not followed.
var ExactBernoulli = NewScoringMode(1, "EXACT_BERNOULLI", true)

var scoringModeValues = []*ScoringMode{
	SparseApprox,
	ExactBernoulli,
}

// ScoringMode describes how predict accumulates per-feature evidence
type ScoringMode struct {
	name            string
	exactLikelihood bool
	id              int
}

// NewScoringMode returns a new ScoringMode based on input fields
func NewScoringMode(id int, name string, exactLikelihood bool) *ScoringMode {
	return &ScoringMode{
		id:              id,
		name:            name,
		exactLikelihood: exactLikelihood,
	}
}

// ScoringModeValues gives a list of ScoringModes
func ScoringModeValues() []*ScoringMode {
	return scoringModeValues
}

// Name does just that
func (s *ScoringMode) Name() string {
	return s.name
}

// Id does just that
func (s *ScoringMode) Id() int {
	return s.id
}

// IsExactLikelihood reports whether absent features contribute log(1-p)
func (s *ScoringMode) IsExactLikelihood() bool {
	return s.exactLikelihood
}

// GetScoringModeById returns the ScoringMode with the given id, or nil
func GetScoringModeById(id int) *ScoringMode {
	for _, mode := range scoringModeValues {
		if mode.id == id {
			return mode
		}
	}
	return nil
}

// GetScoringModeByName returns the ScoringMode with the given name, or nil
func GetScoringModeByName(name string) *ScoringMode {
	for _, mode := range scoringModeValues {
		if mode.name == name {
			return mode
		}
	}
	return nil
}
