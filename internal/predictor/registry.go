package predictor

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"StockSimulator/internal/model"

	"github.com/schollz/progressbar/v3"
)

// Registry holds one trained model per symbol. Models are fit once at
// startup and only read afterwards.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// TrainAll fits a model for every series. When progress is non-nil a
// progress bar is drawn on it.
func (r *Registry) TrainAll(series []model.PriceSeries, progress io.Writer) error {
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = initProgressBar(len(series), progress)
	}
	for _, s := range series {
		m, err := Train(s.Symbol, s.DailyBars)
		if err != nil {
			return fmt.Errorf("train model: %w", err)
		}
		r.mu.Lock()
		r.models[s.Symbol] = m
		r.mu.Unlock()
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

// Get returns the model of a symbol.
func (r *Registry) Get(symbol string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return m, nil
}

// Symbols lists the trained symbols alphabetically.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.models))
	for s := range r.models {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func initProgressBar(maxTicks int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Training models..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
