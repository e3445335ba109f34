package agedetect

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Problem describes a labelled follow dataset: L users, N candidate
// accounts, one sparse binary feature row per user and an age bracket
// label per row. Labels are 1-based integers in [1, nr_class].
type Problem struct {
	L int
	N int
	Y []int
	X [][]Feature
}

// NewProblem constructs a Problem
func NewProblem(l int, n int, y []int, x [][]Feature) *Problem {
	return &Problem{
		L: l,
		N: n,
		Y: y,
		X: x,
	}
}

// ReadFeatures reads one user per line, each line the space-separated
// 1-based indices of the accounts that user follows. An empty line is a
// user who follows nobody. It returns the rows and the largest index seen.
func ReadFeatures(reader io.Reader) ([][]Feature, int, error) {
	scanner := bufio.NewScanner(reader)
	vx := make([][]Feature, 0)
	maxIndex := 0
	lineNr := 0

	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			vx = append(vx, []Feature{})
			continue
		}

		tokens := strings.Fields(line)
		x := make([]Feature, len(tokens))
		for i, token := range tokens {
			index, err := strconv.Atoi(token)
			if err != nil {
				return nil, 0, fmt.Errorf("wrong input format at line %d: %q is not an account index", lineNr, token)
			}
			if index < 1 {
				return nil, 0, fmt.Errorf("wrong input format at line %d: account index %d must be >= 1", lineNr, index)
			}
			if index > maxIndex {
				maxIndex = index
			}
			x[i] = Follows(index)
		}
		vx = append(vx, x)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	return vx, maxIndex, nil
}

// ReadLabels reads one integer age bracket per line.
func ReadLabels(reader io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(reader)
	vy := make([]int, 0)
	lineNr := 0

	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		label, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("wrong label format at line %d: %q is not an integer", lineNr, line)
		}
		vy = append(vy, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return vy, nil
}

// ReadProblem reads row-aligned feature and label streams into a Problem.
func ReadProblem(xReader io.Reader, yReader io.Reader) (*Problem, error) {
	vx, maxIndex, err := ReadFeatures(xReader)
	if err != nil {
		return nil, err
	}

	vy, err := ReadLabels(yReader)
	if err != nil {
		return nil, err
	}

	if len(vx) != len(vy) {
		return nil, fmt.Errorf("%w: %d feature rows but %d labels", ErrDimensionMismatch, len(vx), len(vy))
	}

	return NewProblem(len(vy), maxIndex, vy, vx), nil
}
