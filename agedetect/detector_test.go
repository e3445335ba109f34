package agedetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// twoClassProblem is the 4-user, 2-account scenario: bracket 1 users
// follow account 1, bracket 2 users follow account 2.
func twoClassProblem() *Problem {
	x := make([][]Feature, 4)
	x[0] = []Feature{Follows(1)}
	x[1] = []Feature{Follows(1)}
	x[2] = []Feature{Follows(2)}
	x[3] = []Feature{Follows(2)}

	y := []int{1, 1, 2, 2}

	return NewProblem(4, 2, y, x)
}

func threeClassProblem() *Problem {
	x := make([][]Feature, 12)
	y := make([]int, 12)
	for c := 0; c < 3; c++ {
		for n := 0; n < 4; n++ {
			i := c*4 + n
			x[i] = []Feature{Follows(2*c + 1), Follows(2*c + 2)}
			y[i] = c + 1
		}
	}
	return NewProblem(12, 6, y, x)
}

func TestNewAgeDetector(t *testing.T) {
	detector, err := NewAgeDetector(7, nil)
	assert.NoError(t, err)
	assert.Equal(t, 7, detector.NumClass())
	assert.Nil(t, detector.Model())

	prior := detector.Prior()
	assert.Equal(t, 7, len(prior))
	for _, p := range prior {
		assert.InDelta(t, 1.0/7.0, p, 1e-15)
	}
}

func TestNewAgeDetectorTooFewClasses(t *testing.T) {
	for _, numClass := range []int{-1, 0, 1} {
		detector, err := NewAgeDetector(numClass, nil)
		assert.Error(t, err)
		assert.Nil(t, detector)
	}
}

func TestFitSmoothedTable(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)
	assert.NoError(t, detector.Fit(twoClassProblem()))

	model := detector.Model()
	assert.Equal(t, 2, model.NumClass)
	assert.Equal(t, 2, model.NumFeatures)

	// bucket counts are [2 2], positive counts [[2 0] [0 2]], and each
	// account has 2 followers out of 4 users. With divisor 10 that gives
	// b = 0.2 and a = 0.1 everywhere, so p = (m + 0.1) / (2 + 0.1 + 1).
	assert.InDelta(t, 2.1/3.1, model.Table.At(0, 0), 1e-12)
	assert.InDelta(t, 0.1/3.1, model.Table.At(0, 1), 1e-12)
	assert.InDelta(t, 0.1/3.1, model.Table.At(1, 0), 1e-12)
	assert.InDelta(t, 2.1/3.1, model.Table.At(1, 1), 1e-12)

	row1, err := detector.Model().ClassProbabilities(1)
	assert.NoError(t, err)
	assert.True(t, row1[0] > row1[1])

	row2, err := detector.Model().ClassProbabilities(2)
	assert.NoError(t, err)
	assert.True(t, row2[1] > row2[0])
}

func TestFitTableEntriesStrictlyInsideUnitInterval(t *testing.T) {
	detector, _ := NewAgeDetector(3, nil)
	assert.NoError(t, detector.Fit(threeClassProblem()))

	model := detector.Model()
	for c := 0; c < model.NumClass; c++ {
		for j := 0; j < model.NumFeatures; j++ {
			p := model.Table.At(c, j)
			assert.True(t, p > 0, "entry (%d,%d) = %g should be > 0", c, j, p)
			assert.True(t, p < 1, "entry (%d,%d) = %g should be < 1", c, j, p)
		}
	}
}

func TestFitZeroFollowerColumnStaysInsideUnitInterval(t *testing.T) {
	// Account 2 has no followers at all and bracket 3 has no users, so the
	// raw estimates for them are exactly zero; the stored table must still
	// be strictly inside (0, 1).
	prob := NewProblem(3, 2,
		[]int{1, 1, 2},
		[][]Feature{{Follows(1)}, {Follows(1)}, {Follows(1)}},
	)

	detector, _ := NewAgeDetector(3, nil)
	assert.NoError(t, detector.Fit(prob))

	model := detector.Model()
	for c := 0; c < model.NumClass; c++ {
		for j := 0; j < model.NumFeatures; j++ {
			p := model.Table.At(c, j)
			assert.True(t, p > 0, "entry (%d,%d) = %g should be > 0", c, j, p)
			assert.True(t, p < 1, "entry (%d,%d) = %g should be < 1", c, j, p)
		}
	}
}

func TestFitZeroLaplaceTermStaysBelowOne(t *testing.T) {
	// With no Laplace term, an account followed by every user of a bracket
	// would estimate to exactly 1 without the bound.
	param := NewParameter(SparseApprox, DefaultSmoothingDivisor, 0)
	detector, _ := NewAgeDetector(2, param)
	assert.NoError(t, detector.Fit(twoClassProblem()))

	model := detector.Model()
	for c := 0; c < model.NumClass; c++ {
		for j := 0; j < model.NumFeatures; j++ {
			p := model.Table.At(c, j)
			assert.True(t, p > 0 && p < 1, "entry (%d,%d) = %g outside (0,1)", c, j, p)
		}
	}
}

func TestFitIdempotent(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)
	prob := twoClassProblem()

	assert.NoError(t, detector.Fit(prob))
	first := mat.DenseCopyOf(detector.Model().Table)

	assert.NoError(t, detector.Fit(prob))
	assert.True(t, mat.Equal(first, detector.Model().Table))
}

func TestFitReplacesModel(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)

	assert.NoError(t, detector.Fit(twoClassProblem()))
	firstModel := detector.Model()

	flipped := NewProblem(4, 2,
		[]int{2, 2, 1, 1},
		[][]Feature{{Follows(1)}, {Follows(1)}, {Follows(2)}, {Follows(2)}},
	)
	assert.NoError(t, detector.Fit(flipped))

	assert.NotSame(t, firstModel, detector.Model())
	assert.False(t, mat.Equal(firstModel.Table, detector.Model().Table))
}

func TestFitMonotonicInPositiveCount(t *testing.T) {
	// Identical datasets except the second bracket-1 user also follows
	// account 1; the (1,1) table entry must strictly increase.
	before := NewProblem(3, 2,
		[]int{1, 1, 2},
		[][]Feature{{Follows(1)}, {}, {Follows(2)}},
	)
	after := NewProblem(3, 2,
		[]int{1, 1, 2},
		[][]Feature{{Follows(1)}, {Follows(1)}, {Follows(2)}},
	)

	detector, _ := NewAgeDetector(2, nil)

	assert.NoError(t, detector.Fit(before))
	pBefore := detector.Model().Table.At(0, 0)

	assert.NoError(t, detector.Fit(after))
	pAfter := detector.Model().Table.At(0, 0)

	assert.True(t, pAfter > pBefore, "expected %g > %g", pAfter, pBefore)
}

func TestFitRowCountMismatch(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)

	prob := NewProblem(2, 1, []int{1}, [][]Feature{{Follows(1)}, {Follows(1)}})
	err := detector.Fit(prob)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, detector.Model())
}

func TestFitLabelOutsideRange(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)

	for _, label := range []int{0, -1, 3} {
		prob := NewProblem(2, 1,
			[]int{1, label},
			[][]Feature{{Follows(1)}, {Follows(1)}},
		)
		err := detector.Fit(prob)
		assert.ErrorIs(t, err, ErrLabelDomain)
		assert.Nil(t, detector.Model())
	}
}

func TestFitFeatureIndexOutsideRange(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)

	prob := NewProblem(2, 2, []int{1, 2}, [][]Feature{{Follows(1)}, {Follows(3)}})
	err := detector.Fit(prob)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, detector.Model())
}

func TestFitEmptyProblem(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)

	err := detector.Fit(NewProblem(0, 0, []int{}, [][]Feature{}))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = detector.Fit(nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestClassProbabilitiesBadBracket(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)
	assert.NoError(t, detector.Fit(twoClassProblem()))

	_, err := detector.Model().ClassProbabilities(0)
	assert.ErrorIs(t, err, ErrLabelDomain)

	_, err = detector.Model().ClassProbabilities(3)
	assert.ErrorIs(t, err, ErrLabelDomain)
}
