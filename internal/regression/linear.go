package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrFactorization is returned when the SVD of the design matrix fails.
var ErrFactorization = errors.New("regression: SVD factorization failed")

// LinearModel is an ordinary least squares fit with intercept.
type LinearModel struct {
	Coef      []float64
	Intercept float64
}

// FitLinear fits y ~ x by least squares. x and y are centered first and the
// intercept recovered from the means; rank-deficient designs get the
// minimum-norm coefficient vector.
func FitLinear(x mat.Matrix, y []float64) (*LinearModel, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, ErrEmptyInput
	}
	if rows != len(y) {
		return nil, fmt.Errorf("regression: %d rows but %d targets", rows, len(y))
	}

	xMean := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		xMean[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	centered := mat.NewDense(rows, cols, nil)
	centered.Apply(func(i, j int, v float64) float64 {
		return v - xMean[j]
	}, x)

	yc := make([]float64, rows)
	for i, v := range y {
		yc[i] = v - yMean
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}

	// Singular values below eps*max(rows, cols)*s_max are treated as zero.
	// A bare eps*s_max cutoff can keep exactly collinear columns at full
	// rank through rounding noise.
	rank := svd.Rank(eps * float64(max(rows, cols)))

	beta := mat.NewVecDense(cols, nil)
	if rank > 0 {
		svd.SolveVecTo(beta, mat.NewVecDense(rows, yc), rank)
	}

	coef := make([]float64, cols)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}

	return &LinearModel{
		Coef:      coef,
		Intercept: yMean - floats.Dot(xMean, coef),
	}, nil
}

// Predict evaluates the model on one feature row.
func (m *LinearModel) Predict(row []float64) float64 {
	return floats.Dot(m.Coef, row) + m.Intercept
}

// PredictAll evaluates the model on every row of x.
func (m *LinearModel) PredictAll(x mat.Matrix) []float64 {
	rows, cols := x.Dims()
	out := make([]float64, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, x)
		out[i] = m.Predict(row)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
