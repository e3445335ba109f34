package agedetect

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Model is the trained per-class, per-account probability table. Entry
// (c, j) is the smoothed probability that a user in bracket c+1 follows
// account j+1. The table is produced by one Fit call, read-only afterwards,
// and fully replaced by the next Fit.
type Model struct {
	NumClass    int
	NumFeatures int
	ScoringMode *ScoringMode
	Table       *mat.Dense
}

// NewModel constructs a Model
func NewModel(numClass int, numFeatures int, scoringMode *ScoringMode, table *mat.Dense) *Model {
	return &Model{
		NumClass:    numClass,
		NumFeatures: numFeatures,
		ScoringMode: scoringMode,
		Table:       table,
	}
}

// classRow maps a 1-based age bracket label to its 0-based table row.
// rowClass is its inverse. All label arithmetic goes through these two.
func classRow(label int) int {
	return label - 1
}

func rowClass(row int) int {
	return row + 1
}

// ClassProbabilities returns a copy of the table row for one age bracket.
func (m *Model) ClassProbabilities(label int) ([]float64, error) {
	if label < 1 || label > m.NumClass {
		return nil, fmt.Errorf("%w: bracket %d with nr_class %d", ErrLabelDomain, label, m.NumClass)
	}
	row := make([]float64, m.NumFeatures)
	copy(row, m.Table.RawRowView(classRow(label)))
	return row, nil
}

// SaveModel writes a model as text
func SaveModel(writer io.Writer, model *Model) error {
	w := bufio.NewWriter(writer)

	w.WriteString(fmt.Sprintf("scoring_mode %s\n", model.ScoringMode.Name()))
	w.WriteString(fmt.Sprintf("nr_class %d\n", model.NumClass))
	w.WriteString(fmt.Sprintf("nr_feature %d\n", model.NumFeatures))

	w.WriteString("table\n")
	for c := 0; c < model.NumClass; c++ {
		for j := 0; j < model.NumFeatures; j++ {
			w.WriteString(fmt.Sprintf("%.16g ", model.Table.At(c, j)))
		}
		w.WriteString("\n")
	}

	return w.Flush()
}

var whitespace = regexp.MustCompile("\\s+")

// LoadModel reads a model in the format written by SaveModel
func LoadModel(reader io.Reader) (*Model, error) {
	var scoringMode *ScoringMode
	var numClass, numFeatures int

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	inTable := false
	row := 0
	var table *mat.Dense

	for scanner.Scan() {
		line := scanner.Text()
		tokens := whitespace.Split(line, -1)
		if len(tokens) == 0 || tokens[0] == "" {
			continue
		}

		if !inTable {
			if tokens[0] != "table" && len(tokens) < 2 {
				return nil, fmt.Errorf("model header field %q has no value", tokens[0])
			}
			switch tokens[0] {
			case "scoring_mode":
				scoringMode = GetScoringModeByName(tokens[1])
				if scoringMode == nil {
					return nil, fmt.Errorf("unknown scoring_mode %q", tokens[1])
				}
			case "nr_class":
				v, err := strconv.Atoi(tokens[1])
				if err != nil {
					return nil, fmt.Errorf("bad nr_class: %v", err)
				}
				numClass = v
			case "nr_feature":
				v, err := strconv.Atoi(tokens[1])
				if err != nil {
					return nil, fmt.Errorf("bad nr_feature: %v", err)
				}
				numFeatures = v
			case "table":
				if numClass < 2 || numFeatures < 1 {
					return nil, fmt.Errorf("table before valid nr_class/nr_feature (nr_class=%d nr_feature=%d)", numClass, numFeatures)
				}
				table = mat.NewDense(numClass, numFeatures, nil)
				inTable = true
			default:
				return nil, fmt.Errorf("unknown model header field %q", tokens[0])
			}
			continue
		}

		if row >= numClass {
			return nil, fmt.Errorf("table has more than nr_class=%d rows", numClass)
		}
		values := make([]float64, 0, numFeatures)
		for _, token := range tokens {
			if token == "" {
				continue
			}
			v, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, fmt.Errorf("bad table value %q in row %d: %v", token, row, err)
			}
			values = append(values, v)
		}
		if len(values) != numFeatures {
			return nil, fmt.Errorf("table row %d has %d values, want nr_feature=%d", row, len(values), numFeatures)
		}
		table.SetRow(row, values)
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !inTable {
		return nil, fmt.Errorf("model has no table section")
	}
	if row != numClass {
		return nil, fmt.Errorf("table has %d rows, want nr_class=%d", row, numClass)
	}
	if scoringMode == nil {
		scoringMode = SparseApprox
	}

	return NewModel(numClass, numFeatures, scoringMode, table), nil
}
