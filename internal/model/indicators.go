package model

// MarketIndicators summarises the recent history of one symbol.
type MarketIndicators struct {
	Symbol      string
	LastClose   float64
	MA20        float64
	DailyRSI    float64
	High30d     float64
	Low30d      float64
	Position30d float64 // 0.0 ~ 1.0
}
