package generator

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"StockSimulator/internal/model"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCompanies is the symbol set used when none is configured.
var DefaultCompanies = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "META"}

// Options controls synthetic data generation.
type Options struct {
	Companies []string
	Days      int
	End       time.Time
	Seed      uint64
}

// Generate produces Days consecutive daily bars per company ending at End,
// each company starting from a random price in [100, 500) and drifting by a
// random daily volatility in [1%, 3%). Output is grouped by company, then date.
func Generate(opts Options) ([]model.OHLCV, error) {
	if opts.Days <= 0 {
		return nil, errors.New("days must be positive")
	}
	companies := opts.Companies
	if len(companies) == 0 {
		companies = DefaultCompanies
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	start := distuv.Uniform{Min: 100, Max: 500, Src: src}
	volatility := distuv.Uniform{Min: 0.01, Max: 0.03, Src: src}
	wick := distuv.Normal{Mu: 0, Sigma: 0.005, Src: src}
	volume := distuv.Uniform{Min: 100000, Max: 1000000, Src: src}

	bars := make([]model.OHLCV, 0, len(companies)*opts.Days)
	for _, company := range companies {
		price := start.Rand()
		for i := opts.Days - 1; i >= 0; i-- {
			vol := volatility.Rand()
			move := distuv.Uniform{Min: -vol, Max: vol, Src: src}

			open := price * (1 + move.Rand())
			closePrice := open * (1 + move.Rand())
			high := math.Max(open, closePrice) * (1 + math.Abs(wick.Rand()))
			low := math.Min(open, closePrice) * (1 - math.Abs(wick.Rand()))

			bars = append(bars, model.OHLCV{
				Time:   end.AddDate(0, 0, -i),
				Symbol: company,
				Open:   open,
				High:   high,
				Low:    low,
				Close:  closePrice,
				Volume: int64(volume.Rand()),
			})
			price = closePrice
		}
	}
	return bars, nil
}
