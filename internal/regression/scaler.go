package regression

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyInput is returned when a fit is attempted on no rows.
var ErrEmptyInput = errors.New("regression: empty input")

// StandardScaler standardizes each column to zero mean and unit population
// variance. Columns with (numerically) zero variance keep a scale of 1 so
// they map to zero instead of exploding.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler learns per-column mean and scale from x.
func FitScaler(x mat.Matrix) (*StandardScaler, error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyInput
	}

	s := &StandardScaler{
		Mean:  make([]float64, cols),
		Scale: make([]float64, cols),
	}

	col := make([]float64, rows)
	n := float64(rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean

		// Variance within accumulated rounding error of zero counts as zero.
		bound := n*eps*variance + (n*mean*eps)*(n*mean*eps)
		if variance <= bound {
			s.Scale[j] = 1
			continue
		}
		s.Scale[j] = math.Sqrt(variance)
	}

	return s, nil
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, x)
	return out
}

// TransformVec standardizes a single feature row.
func (s *StandardScaler) TransformVec(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

const eps = 2.220446049250313e-16
