package predictor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rcond is the relative singular-value cutoff below which directions are
// treated as zero when solving least squares.
const rcond = 1e-10

// LinearRegression is an ordinary least squares fit with intercept.
type LinearRegression struct {
	Intercept    float64
	Coefficients []float64
}

// Fit solves min ||X·w + b - y||² through the SVD pseudo-inverse of the
// centred design matrix, which yields the minimum-norm solution when
// columns are collinear or constant.
func (lr *LinearRegression) Fit(rows [][]float64, y []float64) error {
	n := len(rows)
	if n == 0 {
		return ErrNotEnoughData
	}
	if len(y) != n {
		return fmt.Errorf("have %d rows but %d targets", n, len(y))
	}
	p := len(rows[0])
	if p == 0 {
		return errors.New("no feature columns")
	}

	colMeans := make([]float64, p)
	for _, r := range rows {
		for j, v := range r {
			colMeans[j] += v
		}
	}
	for j := range colMeans {
		colMeans[j] /= float64(n)
	}
	yMean := stat.Mean(y, nil)

	x := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, r := range rows {
		for j, v := range r {
			x.Set(i, j, v-colMeans[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	coef := make([]float64, p)
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return errors.New("svd factorization failed")
	}
	if rank := svd.Rank(rcond); rank > 0 {
		var w mat.VecDense
		svd.SolveVecTo(&w, yc, rank)
		for j := 0; j < p; j++ {
			coef[j] = w.AtVec(j)
		}
	}

	intercept := yMean
	for j := range coef {
		intercept -= coef[j] * colMeans[j]
	}
	lr.Intercept = intercept
	lr.Coefficients = coef
	return nil
}

// Predict evaluates the fitted model on one feature row.
func (lr *LinearRegression) Predict(row []float64) (float64, error) {
	if len(row) != len(lr.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(lr.Coefficients), len(row))
	}
	return lr.Intercept + mat.Dot(mat.NewVecDense(len(row), row), mat.NewVecDense(len(row), lr.Coefficients)), nil
}
