package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeFeed) Refresh(symbol string) (model.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if f.err != nil {
		return model.Quote{}, f.err
	}
	return model.Quote{Symbol: symbol, Price: float64(len(f.calls)), Time: time.Now()}, nil
}

func (f *fakeFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memRecorder struct {
	mu     sync.Mutex
	quotes []model.Quote
}

func (m *memRecorder) RecordTrade(*model.Trade) error { return nil }
func (m *memRecorder) RecordQuote(q *model.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes = append(m.quotes, *q)
	return nil
}
func (m *memRecorder) Trades(int) ([]model.Trade, error) { return nil, nil }
func (m *memRecorder) Close() error                      { return nil }

func TestRunNow(t *testing.T) {
	feed := &fakeFeed{}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), feed, rec, logger.NewNop())

	_, err := s.RunNow()
	assert.ErrorIs(t, err, ErrNoSelection)

	var heard []model.Quote
	s.OnQuote(func(q model.Quote) { heard = append(heard, q) })
	s.Select("AAPL")
	assert.Equal(t, "AAPL", s.Selected())

	q, err := s.RunNow()
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, []model.Quote{q}, heard)
	assert.Len(t, rec.quotes, 1)

	s.Select("MSFT")
	q, err = s.RunNow()
	require.NoError(t, err)
	assert.Equal(t, "MSFT", q.Symbol)
}

func TestRunNow_FeedError(t *testing.T) {
	feed := &fakeFeed{err: errors.New("model missing")}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), feed, rec, logger.NewNop())
	s.Select("AAPL")

	_, err := s.RunNow()
	assert.Error(t, err)
	assert.Empty(t, rec.quotes)
}

func TestRegisterRefresh_FiresPeriodically(t *testing.T) {
	feed := &fakeFeed{}
	s := NewScheduler(context.Background(), feed, &memRecorder{}, logger.NewNop())
	s.Select("AAPL")
	require.NoError(t, s.RegisterRefresh(time.Second))

	s.Start()
	defer s.Stop()
	assert.Eventually(t, func() bool { return feed.count() >= 2 }, 4*time.Second, 50*time.Millisecond)
}

func TestRefreshTask_SkipsAfterCancel(t *testing.T) {
	feed := &fakeFeed{}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(ctx, feed, &memRecorder{}, logger.NewNop())
	s.Select("AAPL")
	cancel()

	s.refreshTask()
	assert.Equal(t, 0, feed.count())
}
