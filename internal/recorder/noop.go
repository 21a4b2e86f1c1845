package recorder

import "StockSimulator/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(_ *model.Trade) error    { return nil }
func (n *NoopRecorder) RecordQuote(_ *model.Quote) error    { return nil }
func (n *NoopRecorder) Trades(_ int) ([]model.Trade, error) { return nil, nil }
func (n *NoopRecorder) Close() error                        { return nil }
