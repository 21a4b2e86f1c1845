package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"
	"StockSimulator/internal/recorder"

	"github.com/robfig/cron/v3"
)

// ErrNoSelection is returned by RunNow before any symbol is selected.
var ErrNoSelection = errors.New("no symbol selected")

// Refresher produces a fresh quote for a symbol.
type Refresher interface {
	Refresh(symbol string) (model.Quote, error)
}

// Scheduler refreshes the live price of the selected symbol on a fixed
// interval and fans each quote out to the recorder and a listener.
type Scheduler struct {
	Cron     *cron.Cron
	Feed     Refresher
	Recorder recorder.Recorder
	Log      *logger.Logger
	Ctx      context.Context

	mu      sync.Mutex
	symbol  string
	onQuote func(model.Quote)
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, feed Refresher, rec recorder.Recorder, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Feed:     feed,
		Recorder: rec,
		Log:      log,
		Ctx:      ctx,
	}
}

// RegisterRefresh registers the price refresh job at the given interval.
func (s *Scheduler) RegisterRefresh(interval time.Duration) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Select switches the symbol whose price is refreshed.
func (s *Scheduler) Select(symbol string) {
	s.mu.Lock()
	s.symbol = symbol
	s.mu.Unlock()
}

// Selected returns the currently selected symbol.
func (s *Scheduler) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

// OnQuote sets the listener called after every successful refresh.
func (s *Scheduler) OnQuote(fn func(model.Quote)) {
	s.mu.Lock()
	s.onQuote = fn
	s.mu.Unlock()
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow refreshes the selected symbol immediately.
func (s *Scheduler) RunNow() (model.Quote, error) {
	s.mu.Lock()
	symbol, listener := s.symbol, s.onQuote
	s.mu.Unlock()

	if symbol == "" {
		return model.Quote{}, ErrNoSelection
	}
	q, err := s.Feed.Refresh(symbol)
	if err != nil {
		return model.Quote{}, fmt.Errorf("refresh %s: %w", symbol, err)
	}
	if err := s.Recorder.RecordQuote(&q); err != nil {
		s.Log.Error("record quote", logger.StringField("symbol", symbol), logger.ErrorField(err))
	}
	s.Log.Debug("price refreshed", logger.StringField("symbol", symbol), logger.Float64Field("price", q.Price))
	if listener != nil {
		listener(q)
	}
	return q, nil
}

func (s *Scheduler) refreshTask() {
	if s.Ctx.Err() != nil {
		return
	}
	if _, err := s.RunNow(); err != nil && !errors.Is(err, ErrNoSelection) {
		s.Log.Error("refresh price", logger.ErrorField(err))
	}
}
