package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	ids     []string
	started chan struct{}
	release chan struct{}
}

func (r *recordingNotifier) NotifyTrade(ctx context.Context, t *model.Trade) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, t.ID)
	return nil
}

func (r *recordingNotifier) delivered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestAsyncNotifier_DeliversBeforeClose(t *testing.T) {
	next := &recordingNotifier{}
	a := NewAsyncNotifier(next, 4, time.Second, logger.NewNop())

	for _, id := range []string{"a", "b", "c"} {
		tr := sampleTrade(model.SideBuy)
		tr.ID = id
		require.NoError(t, a.NotifyTrade(context.Background(), tr))
	}
	a.Close()

	assert.Equal(t, []string{"a", "b", "c"}, next.delivered())
	assert.ErrorIs(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideSell)), ErrAlertsClosed)
}

func TestAsyncNotifier_QueueFull(t *testing.T) {
	next := &recordingNotifier{started: make(chan struct{}, 4), release: make(chan struct{})}
	a := NewAsyncNotifier(next, 1, time.Second, logger.NewNop())

	require.NoError(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))
	<-next.started
	require.NoError(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))
	assert.ErrorIs(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)), ErrAlertQueueFull)

	close(next.release)
	a.Close()
	assert.Len(t, next.delivered(), 2)
}

func TestAsyncNotifier_FailingTelegramDoesNotBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.NewNop())
	tn.APIBase = srv.URL
	a := NewAsyncNotifier(tn, 4, 50*time.Millisecond, logger.NewNop())

	start := time.Now()
	require.NoError(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	start = time.Now()
	a.Close()
	assert.Less(t, time.Since(start), time.Second, "close cancels the retry backoff")
}

func TestAsyncNotifier_HungTelegramCancelledOnClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.NewNop())
	tn.APIBase = srv.URL
	a := NewAsyncNotifier(tn, 4, 50*time.Millisecond, logger.NewNop())

	require.NoError(t, a.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))
	start := time.Now()
	a.Close()
	assert.Less(t, time.Since(start), time.Second)
}
