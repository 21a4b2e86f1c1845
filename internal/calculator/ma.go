package calculator

import (
	"errors"
	"math"

	"StockSimulator/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingMean returns the trailing mean over window values for every
// position. The first window-1 positions have no full window and hold NaN.
func RollingMean(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out, nil
}

// BackFill replaces each NaN with the next non-NaN value after it, in place.
// If the series has no valid value at all, every slot gets fallback.
func BackFill(values []float64, fallback float64) []float64 {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
			continue
		}
		next = values[i]
	}
	if len(values) > 0 && math.IsNaN(values[0]) {
		for i := range values {
			if math.IsNaN(values[i]) {
				values[i] = fallback
			}
		}
	}
	return values
}

// Mean is the arithmetic mean; zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MovingAverage is RollingMean followed by BackFill, falling back to the
// series mean when the input is shorter than the window.
func MovingAverage(closes []float64, window int) ([]float64, error) {
	ma, err := RollingMean(closes, window)
	if err != nil {
		return nil, err
	}
	return BackFill(ma, Mean(closes)), nil
}

// DailyChange returns close - open for every bar.
func DailyChange(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close - b.Open
	}
	return out
}

// HighLowSpread returns high - low for every bar.
func HighLowSpread(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High - b.Low
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
