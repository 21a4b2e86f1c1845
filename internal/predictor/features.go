package predictor

import (
	"fmt"
	"sort"

	"StockSimulator/internal/calculator"
	"StockSimulator/internal/model"
)

// FeatureNames lists the model inputs in column order.
var FeatureNames = []string{"Days", "MA20", "MA50", "MA100", "Daily_Change", "High_Low_Spread", "Volume"}

const (
	colDays = iota
	colMA20
	colMA50
	colMA100
	colDailyChange
	colSpread
	colVolume
	numFeatures
)

// FeatureSet is the engineered design matrix of one symbol, one row per bar.
type FeatureSet struct {
	Rows    [][]float64
	Targets []float64
	Bars    []model.OHLCV
}

// BuildFeatures sorts bars by date and derives the regression inputs:
// days since the first bar, 20/50/100-bar moving averages of the close
// (back-filled), daily change, high-low spread and volume.
func BuildFeatures(bars []model.OHLCV) (*FeatureSet, error) {
	if len(bars) == 0 {
		return nil, ErrNotEnoughData
	}
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	closes := make([]float64, len(sorted))
	for i, b := range sorted {
		closes[i] = b.Close
	}

	ma := make(map[int][]float64, 3)
	for _, w := range []int{20, 50, 100} {
		series, err := calculator.MovingAverage(closes, w)
		if err != nil {
			return nil, fmt.Errorf("moving average %d: %w", w, err)
		}
		ma[w] = series
	}
	change := calculator.DailyChange(sorted)
	spread := calculator.HighLowSpread(sorted)

	first := sorted[0].Time
	fs := &FeatureSet{
		Rows:    make([][]float64, len(sorted)),
		Targets: closes,
		Bars:    sorted,
	}
	for i, b := range sorted {
		row := make([]float64, numFeatures)
		row[colDays] = daysBetween(first, b.Time)
		row[colMA20] = ma[20][i]
		row[colMA50] = ma[50][i]
		row[colMA100] = ma[100][i]
		row[colDailyChange] = change[i]
		row[colSpread] = spread[i]
		row[colVolume] = float64(b.Volume)
		fs.Rows[i] = row
	}
	return fs, nil
}

// Last returns a copy of the most recent feature row.
func (fs *FeatureSet) Last() []float64 {
	last := fs.Rows[len(fs.Rows)-1]
	out := make([]float64, len(last))
	copy(out, last)
	return out
}
