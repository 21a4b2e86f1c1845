package predictor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockSimulator/internal/model"
)

var (
	ErrNotEnoughData = errors.New("not enough data to train model")
	ErrUnknownSymbol = errors.New("no model trained for symbol")
)

// Model is the trained scaler/regression pair of one symbol together with
// the last observed feature row, which every prediction starts from.
type Model struct {
	Symbol     string
	Scaler     StandardScaler
	Regression LinearRegression
	History    []model.OHLCV
	lastRow    []float64
}

// Train fits a model on the bars of a single symbol.
func Train(symbol string, bars []model.OHLCV) (*Model, error) {
	fs, err := BuildFeatures(bars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	m := &Model{Symbol: symbol, History: fs.Bars, lastRow: fs.Last()}

	scaled, err := m.Scaler.FitTransform(fs.Rows)
	if err != nil {
		return nil, fmt.Errorf("%s: scale features: %w", symbol, err)
	}
	if err := m.Regression.Fit(scaled, fs.Targets); err != nil {
		return nil, fmt.Errorf("%s: fit regression: %w", symbol, err)
	}
	return m, nil
}

// LastDate is the date of the newest training bar.
func (m *Model) LastDate() time.Time {
	return m.History[len(m.History)-1].Time
}

// Weights maps each feature name to its fitted coefficient on the
// standardized inputs.
func (m *Model) Weights() map[string]float64 {
	w := make(map[string]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		if i < len(m.Regression.Coefficients) {
			w[name] = m.Regression.Coefficients[i]
		}
	}
	return w
}

// PredictAt predicts the close daysAhead days after the last bar, holding
// every other feature at its last observed value.
func (m *Model) PredictAt(daysAhead int) (float64, error) {
	row := make([]float64, len(m.lastRow))
	copy(row, m.lastRow)
	row[colDays] += float64(daysAhead)

	scaled, err := m.Scaler.Transform([][]float64{row})
	if err != nil {
		return 0, err
	}
	return m.Regression.Predict(scaled[0])
}

// PredictNext predicts the close of the day after the last bar.
func (m *Model) PredictNext() (float64, error) {
	return m.PredictAt(1)
}

// Forecast predicts the next days closes, one point per calendar day.
func (m *Model) Forecast(days int) (*model.Forecast, error) {
	if days <= 0 {
		return nil, errors.New("forecast days must be positive")
	}
	last := m.LastDate()
	fc := &model.Forecast{Symbol: m.Symbol, Points: make([]model.ForecastPoint, 0, days)}
	for d := 1; d <= days; d++ {
		p, err := m.PredictAt(d)
		if err != nil {
			return nil, err
		}
		fc.Points = append(fc.Points, model.ForecastPoint{Date: last.AddDate(0, 0, d), Price: p})
	}
	return fc, nil
}

func daysBetween(from, to time.Time) float64 {
	return math.Round(to.Sub(from).Hours() / 24)
}
