package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"
)

// ErrAlertQueueFull is returned when a trade alert is dropped because the
// worker is still busy with earlier ones.
var ErrAlertQueueFull = errors.New("trade alert queue full")

// ErrAlertsClosed is returned for alerts queued after Close.
var ErrAlertsClosed = errors.New("trade alerts closed")

// AsyncNotifier queues trade alerts and delivers them from one background
// worker, so a slow or failing endpoint never stalls the caller.
type AsyncNotifier struct {
	next  Notifier
	log   *logger.Logger
	queue chan *model.Trade
	grace time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncNotifier starts a worker delivering to next. buffer bounds the
// number of pending alerts; grace is how long Close waits for them.
func NewAsyncNotifier(next Notifier, buffer int, grace time.Duration, log *logger.Logger) *AsyncNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &AsyncNotifier{
		next:   next,
		log:    log,
		queue:  make(chan *model.Trade, buffer),
		grace:  grace,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncNotifier) run() {
	defer close(a.done)
	for tr := range a.queue {
		if err := a.next.NotifyTrade(a.ctx, tr); err != nil {
			a.log.Warn("trade alert failed",
				logger.StringField("trade_id", tr.ID),
				logger.StringField("symbol", tr.Symbol),
				logger.ErrorField(err))
		}
	}
}

// NotifyTrade queues the alert and returns at once. The caller's ctx only
// guards the enqueue; delivery runs until Close.
func (a *AsyncNotifier) NotifyTrade(ctx context.Context, t *model.Trade) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrAlertsClosed
	}
	select {
	case a.queue <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrAlertQueueFull
	}
}

// Close stops accepting alerts and waits up to the grace period for the
// pending ones, then cancels whatever is still in flight.
func (a *AsyncNotifier) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.grace):
		a.log.Warn("dropping pending trade alerts")
		a.cancel()
		<-a.done
	}
	a.cancel()
}
