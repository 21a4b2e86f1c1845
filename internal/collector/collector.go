package collector

import (
	"errors"
	"fmt"
	"sort"

	"StockSimulator/internal/calculator"
	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"
)

// ErrNoData is returned when the fetcher produced no bars.
var ErrNoData = errors.New("no price data")

// Collector orchestrates data loading and per-symbol grouping.
type Collector struct {
	Fetcher Fetcher
	Log     *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *logger.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Log: log}
}

// Collect fetches bars and groups them into one date-sorted series per
// symbol, in order of first appearance.
func (c *Collector) Collect() ([]model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchBars()
	if err != nil {
		return nil, fmt.Errorf("fetch bars from %s: %w", c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	index := make(map[string]int)
	var series []model.PriceSeries
	for _, b := range bars {
		i, ok := index[b.Symbol]
		if !ok {
			i = len(series)
			index[b.Symbol] = i
			series = append(series, model.PriceSeries{Symbol: b.Symbol})
		}
		series[i].DailyBars = append(series[i].DailyBars, b)
	}
	for i := range series {
		bars := series[i].DailyBars
		sort.SliceStable(bars, func(a, b int) bool { return bars[a].Time.Before(bars[b].Time) })
	}

	c.Log.Info("collected price data",
		logger.StringField("source", c.Fetcher.Name()),
		logger.IntField("symbols", len(series)),
		logger.IntField("bars", len(bars)))
	return series, nil
}

// Indicators computes the status-line indicators of one series. Failures in
// individual indicators fall back to neutral values.
func (c *Collector) Indicators(s model.PriceSeries) (*model.MarketIndicators, error) {
	if len(s.DailyBars) == 0 {
		return nil, ErrNoData
	}
	bars := s.DailyBars
	last := bars[len(bars)-1].Close
	ind := &model.MarketIndicators{Symbol: s.Symbol, LastClose: last}

	if ma, err := calculator.CalculateSMA(s.Closes(), 20); err != nil {
		c.Log.Debug("MA20 unavailable, using last close", logger.StringField("symbol", s.Symbol), logger.ErrorField(err))
		ind.MA20 = last
	} else {
		ind.MA20 = ma
	}

	if rsi, err := calculator.CalculateRSI(bars, 14); err != nil {
		c.Log.Debug("RSI unavailable, defaulting to 50", logger.StringField("symbol", s.Symbol), logger.ErrorField(err))
		ind.DailyRSI = 50
	} else {
		ind.DailyRSI = rsi
	}

	if h, l, err := calculator.PriceRange(bars, 30); err != nil {
		ind.High30d, ind.Low30d = last, last
	} else {
		ind.High30d, ind.Low30d = h, l
	}

	if pos, err := calculator.RangePosition(last, ind.High30d, ind.Low30d); err != nil {
		ind.Position30d = 0.5
	} else {
		ind.Position30d = pos
	}
	return ind, nil
}
