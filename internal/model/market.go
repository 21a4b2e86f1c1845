package model

import "time"

// OHLCV represents a single daily candlestick bar for one company.
type OHLCV struct {
	Time   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the date-ordered bars of a single symbol.
type PriceSeries struct {
	Symbol    string
	DailyBars []OHLCV
}

// Closes returns the close prices of the series in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.DailyBars))
	for i, b := range s.DailyBars {
		closes[i] = b.Close
	}
	return closes
}

// Quote is the latest simulated price of a symbol.
type Quote struct {
	Symbol string
	Price  float64
	Time   time.Time
}
