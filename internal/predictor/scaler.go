package predictor

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit learns column means and deviations from rows.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return ErrNotEnoughData
	}
	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	column := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i, r := range rows {
			if len(r) != cols {
				return errors.New("ragged feature rows")
			}
			column[i] = r[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		s.Mean[j] = mean
		if std == 0 {
			std = 1
		}
		s.Scale[j] = std
	}
	return nil
}

// Transform returns the standardised copy of rows.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(s.Mean) {
			return nil, errors.New("feature width does not match fitted scaler")
		}
		row := make([]float64, len(r))
		for j, v := range r {
			row[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = row
	}
	return out, nil
}

// FitTransform is Fit followed by Transform on the same rows.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
