package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"StockSimulator/internal/model"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrUnknownSymbol is returned for symbols that are not quoted.
var ErrUnknownSymbol = errors.New("not a valid stock")

// Board is a fixed list of symbols whose prices move by a bounded random
// percentage whenever Update is called.
type Board struct {
	mu        sync.RWMutex
	prices    map[string]float64
	order     []string
	change    distuv.Uniform
	updatedAt time.Time
}

// NewBoard creates a board from initial prices, quoted in the given order.
// A repeated symbol keeps its first price. maxChange is the largest
// fractional move per update (0.05 = +/-5%).
func NewBoard(initial []model.Quote, maxChange float64, seed uint64) *Board {
	b := &Board{
		prices:    make(map[string]float64, len(initial)),
		change:    distuv.Uniform{Min: -maxChange, Max: maxChange, Src: rand.NewPCG(seed, seed+1)},
		updatedAt: time.Now(),
	}
	for _, q := range initial {
		sym := strings.ToUpper(q.Symbol)
		if _, dup := b.prices[sym]; dup {
			continue
		}
		b.prices[sym] = q.Price
		b.order = append(b.order, sym)
	}
	return b
}

// Symbols lists the quoted symbols in board order.
func (b *Board) Symbols() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Quote returns the current price of symbol.
func (b *Board) Quote(symbol string) (model.Quote, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.prices[symbol]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return model.Quote{Symbol: symbol, Price: p, Time: b.updatedAt}, nil
}

// Quotes returns every quote in board order.
func (b *Board) Quotes() []model.Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Quote, 0, len(b.order))
	for _, s := range b.order {
		out = append(out, model.Quote{Symbol: s, Price: b.prices[s], Time: b.updatedAt})
	}
	return out
}

// Update moves every price by a uniform random percentage and rounds the
// result to cents.
func (b *Board) Update() []model.Quote {
	b.mu.Lock()
	for _, s := range b.order {
		b.prices[s] = roundCents(b.prices[s] * (1 + b.change.Rand()))
	}
	b.updatedAt = time.Now()
	b.mu.Unlock()
	return b.Quotes()
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
