package recorder

import "StockSimulator/internal/model"

// Recorder journals trades and live quotes for later analysis. The journal
// is write-mostly; it is never used to rebuild the portfolio.
type Recorder interface {
	RecordTrade(t *model.Trade) error
	RecordQuote(q *model.Quote) error
	Trades(limit int) ([]model.Trade, error)
	Close() error
}
