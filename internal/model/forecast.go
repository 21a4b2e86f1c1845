package model

import "time"

// ForecastPoint is one predicted close price.
type ForecastPoint struct {
	Date  time.Time
	Price float64
}

// Forecast holds the predicted prices following the last known bar.
type Forecast struct {
	Symbol string
	Points []ForecastPoint
}
