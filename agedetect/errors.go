package agedetect

import "errors"

// Error kinds surfaced at the Fit/Predict boundary. All of them are
// precondition violations detected before any partial computation; none
// is recoverable inside the package.
var (
	// ErrModelNotTrained is returned by Predict before a successful Fit.
	ErrModelNotTrained = errors.New("agedetect: model not trained, call Fit first")

	// ErrDimensionMismatch is returned when the rows of X and y disagree,
	// or a feature index falls outside the trained model's feature range.
	ErrDimensionMismatch = errors.New("agedetect: dimension mismatch")

	// ErrLabelDomain is returned when a label falls outside [1, nr_class].
	ErrLabelDomain = errors.New("agedetect: label outside class range")
)
