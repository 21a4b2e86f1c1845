package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is a filled buy or sell against the portfolio.
type Trade struct {
	ID        string
	Time      time.Time
	Symbol    string
	Side      Side
	Shares    int64
	Price     decimal.Decimal
	Total     decimal.Decimal
	CashAfter decimal.Decimal
}
