package market

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"StockSimulator/internal/model"
	"StockSimulator/internal/predictor"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/stat/distuv"
)

const forecastKeyPrefix = "forecast:"

// LiveFeed simulates a live price per symbol: the model's next-day
// prediction plus uniform noise. Latest quotes and forecasts are cached.
type LiveFeed struct {
	models *predictor.Registry
	noise  distuv.Uniform
	mu     sync.Mutex // guards noise, whose source is not safe for concurrent use
	cache  *cache.Cache
	now    func() time.Time
}

// NewLiveFeed builds a feed over trained models. noise is the half-width of
// the uniform jitter added to each prediction.
func NewLiveFeed(models *predictor.Registry, noise float64, seed uint64) *LiveFeed {
	return &LiveFeed{
		models: models,
		noise:  distuv.Uniform{Min: -noise, Max: noise, Src: rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)},
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		now:    time.Now,
	}
}

// Refresh computes and stores a new live price for symbol.
func (f *LiveFeed) Refresh(symbol string) (model.Quote, error) {
	m, err := f.models.Get(symbol)
	if err != nil {
		return model.Quote{}, err
	}
	p, err := m.PredictNext()
	if err != nil {
		return model.Quote{}, fmt.Errorf("predict %s: %w", symbol, err)
	}

	jitter := 0.0
	if f.noise.Max > f.noise.Min {
		f.mu.Lock()
		jitter = f.noise.Rand()
		f.mu.Unlock()
	}
	q := model.Quote{Symbol: symbol, Price: roundCents(p + jitter), Time: f.now()}
	f.cache.Set(symbol, q, cache.DefaultExpiration)
	return q, nil
}

// Latest returns the last refreshed quote of symbol, if any.
func (f *LiveFeed) Latest(symbol string) (model.Quote, bool) {
	v, ok := f.cache.Get(symbol)
	if !ok {
		return model.Quote{}, false
	}
	return v.(model.Quote), true
}

// Forecast returns the days-long forecast of symbol. Models never change
// after training, so results are cached per symbol and horizon.
func (f *LiveFeed) Forecast(symbol string, days int) (*model.Forecast, error) {
	key := fmt.Sprintf("%s%s:%d", forecastKeyPrefix, symbol, days)
	if v, ok := f.cache.Get(key); ok {
		return v.(*model.Forecast), nil
	}
	m, err := f.models.Get(symbol)
	if err != nil {
		return nil, err
	}
	fc, err := m.Forecast(days)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, fc, cache.NoExpiration)
	return fc, nil
}

// History returns the training bars of symbol.
func (f *LiveFeed) History(symbol string) ([]model.OHLCV, error) {
	m, err := f.models.Get(symbol)
	if err != nil {
		return nil, err
	}
	return m.History, nil
}
