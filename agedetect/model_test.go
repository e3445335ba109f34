package agedetect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSaveLoadModel(t *testing.T) {
	detector, _ := NewAgeDetector(2, nil)
	assert.NoError(t, detector.Fit(twoClassProblem()))
	model := detector.Model()

	var buf bytes.Buffer
	assert.NoError(t, SaveModel(&buf, model))

	loaded, err := LoadModel(&buf)
	assert.NoError(t, err)

	assert.Equal(t, model.NumClass, loaded.NumClass)
	assert.Equal(t, model.NumFeatures, loaded.NumFeatures)
	assert.Equal(t, model.ScoringMode, loaded.ScoringMode)
	assert.True(t, mat.EqualApprox(model.Table, loaded.Table, 1e-15))
}

func TestLoadedModelPredictsLikeOriginal(t *testing.T) {
	param := NewParameter(ExactBernoulli, DefaultSmoothingDivisor, DefaultLaplaceTerm)
	detector, _ := NewAgeDetector(2, param)
	assert.NoError(t, detector.Fit(twoClassProblem()))

	var buf bytes.Buffer
	assert.NoError(t, SaveModel(&buf, detector.Model()))
	loaded, err := LoadModel(&buf)
	assert.NoError(t, err)

	x := [][]Feature{{Follows(1)}, {Follows(2)}}
	fromOriginal, err := Predict(detector.Model(), x)
	assert.NoError(t, err)
	fromLoaded, err := Predict(loaded, x)
	assert.NoError(t, err)

	assert.Equal(t, fromOriginal, fromLoaded)
}

func TestLoadSimpleModel(t *testing.T) {
	text := strings.Join([]string{
		"scoring_mode SPARSE_APPROX",
		"nr_class 2",
		"nr_feature 3",
		"table",
		"0.1 0.2 0.3 ",
		"0.4 0.5 0.6 ",
		"",
	}, "\n")

	model, err := LoadModel(strings.NewReader(text))
	assert.NoError(t, err)
	assert.Equal(t, SparseApprox, model.ScoringMode)
	assert.Equal(t, 2, model.NumClass)
	assert.Equal(t, 3, model.NumFeatures)
	assert.InDelta(t, 0.5, model.Table.At(1, 1), 1e-15)
}

func TestLoadIllegalModel(t *testing.T) {
	cases := []string{
		"",
		"nr_class 2\nnr_feature 2\n",
		"nr_class 2\ntable\n0.1 0.2\n0.3 0.4\n",
		"nr_class 2\nnr_feature 2\ntable\n0.1\n0.3 0.4\n",
		"nr_class 2\nnr_feature 2\ntable\n0.1 0.2\n",
		"nr_class 2\nnr_feature 2\ntable\n0.1 0.2\n0.3 0.4\n0.5 0.6\n",
		"scoring_mode BOGUS\nnr_class 2\nnr_feature 2\ntable\n0.1 0.2\n0.3 0.4\n",
		"bogus_field 1\n",
		"nr_class x\n",
	}

	for _, text := range cases {
		model, err := LoadModel(strings.NewReader(text))
		assert.Error(t, err, "input %q should not load", text)
		assert.Nil(t, model)
	}
}

func TestLoadModelDefaultsScoringMode(t *testing.T) {
	text := "nr_class 2\nnr_feature 1\ntable\n0.1\n0.9\n"
	model, err := LoadModel(strings.NewReader(text))
	assert.NoError(t, err)
	assert.Equal(t, SparseApprox, model.ScoringMode)
}
