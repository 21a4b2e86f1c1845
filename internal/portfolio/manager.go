package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockSimulator/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientCash   = errors.New("not enough cash")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrInvalidQuantity    = errors.New("quantity must be a positive whole number")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrZeroShares         = errors.New("amount is below the price of one share")
	ErrNoPrice            = errors.New("no valid price")
	ErrInvalidSymbol      = errors.New("invalid symbol")
)

// Manager is the cash + holdings ledger of the simulated user. Cash and
// holdings only change together, through a filled buy or sell.
type Manager struct {
	mu       sync.Mutex
	cash     decimal.Decimal
	holdings map[string]int64
	now      func() time.Time
}

// NewManager creates a ledger with the given starting cash and no holdings.
func NewManager(startingCash decimal.Decimal) *Manager {
	return &Manager{
		cash:     startingCash,
		holdings: make(map[string]int64),
		now:      time.Now,
	}
}

// State returns a copy of the current ledger.
func (m *Manager) State() model.PortfolioState {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := make(map[string]int64, len(m.holdings))
	for s, q := range m.holdings {
		h[s] = q
	}
	return model.PortfolioState{Cash: m.cash, Holdings: h}
}

// Cash returns the current cash balance.
func (m *Manager) Cash() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cash
}

// Shares returns the share count held for symbol.
func (m *Manager) Shares(symbol string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holdings[symbol]
}

// Buy purchases shares of symbol at price. The full cost must be covered by
// the cash balance.
func (m *Manager) Buy(symbol string, shares int64, price decimal.Decimal) (*model.Trade, error) {
	if err := checkOrder(symbol, shares, price); err != nil {
		return nil, err
	}
	cost := price.Mul(decimal.NewFromInt(shares))

	m.mu.Lock()
	defer m.mu.Unlock()

	if cost.GreaterThan(m.cash) {
		return nil, fmt.Errorf("%w: need $%s, have $%s", ErrInsufficientCash, cost.StringFixed(2), m.cash.StringFixed(2))
	}
	return m.fill(symbol, model.SideBuy, shares, price), nil
}

// Sell disposes of shares of symbol at price. A holding that reaches zero
// is removed.
func (m *Manager) Sell(symbol string, shares int64, price decimal.Decimal) (*model.Trade, error) {
	if err := checkOrder(symbol, shares, price); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if held := m.holdings[symbol]; held < shares {
		return nil, fmt.Errorf("%w: hold %d of %s, tried to sell %d", ErrInsufficientShares, held, symbol, shares)
	}
	return m.fill(symbol, model.SideSell, shares, price), nil
}

// BuyAmount spends up to amount on whole shares of symbol at price. The
// cash balance must cover the whole amount.
func (m *Manager) BuyAmount(symbol string, amount, price decimal.Decimal) (*model.Trade, error) {
	shares, err := sharesForAmount(amount, price)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if amount.GreaterThan(m.cash) {
		return nil, fmt.Errorf("%w: have $%s", ErrInsufficientCash, m.cash.StringFixed(2))
	}
	if shares == 0 {
		return nil, ErrZeroShares
	}
	if err := checkOrder(symbol, shares, price); err != nil {
		return nil, err
	}
	return m.fill(symbol, model.SideBuy, shares, price), nil
}

// SellAmount sells floor(amount/price) shares of symbol at price.
func (m *Manager) SellAmount(symbol string, amount, price decimal.Decimal) (*model.Trade, error) {
	shares, err := sharesForAmount(amount, price)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, ErrZeroShares
	}
	return m.Sell(symbol, shares, price)
}

// fill applies a validated trade. Caller holds m.mu.
func (m *Manager) fill(symbol string, side model.Side, shares int64, price decimal.Decimal) *model.Trade {
	total := price.Mul(decimal.NewFromInt(shares))
	switch side {
	case model.SideBuy:
		m.cash = m.cash.Sub(total)
		m.holdings[symbol] += shares
	case model.SideSell:
		m.cash = m.cash.Add(total)
		m.holdings[symbol] -= shares
		if m.holdings[symbol] == 0 {
			delete(m.holdings, symbol)
		}
	}
	return &model.Trade{
		ID:        uuid.NewString(),
		Time:      m.now(),
		Symbol:    symbol,
		Side:      side,
		Shares:    shares,
		Price:     price,
		Total:     total,
		CashAfter: m.cash,
	}
}

func checkOrder(symbol string, shares int64, price decimal.Decimal) error {
	if strings.TrimSpace(symbol) == "" {
		return ErrInvalidSymbol
	}
	if shares <= 0 {
		return ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return ErrNoPrice
	}
	return nil
}

func sharesForAmount(amount, price decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if !price.IsPositive() {
		return 0, ErrNoPrice
	}
	return amount.Div(price).Floor().IntPart(), nil
}
