package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PortfolioState is a point-in-time copy of the simulated user's ledger.
type PortfolioState struct {
	Cash     decimal.Decimal
	Holdings map[string]int64
}

// Symbols returns the held symbols in alphabetical order.
func (p PortfolioState) Symbols() []string {
	syms := make([]string, 0, len(p.Holdings))
	for s := range p.Holdings {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}
