package collector

import (
	"time"

	"StockSimulator/internal/generator"
	"StockSimulator/internal/model"
)

// Fetcher defines the interface for loading historical bars.
type Fetcher interface {
	FetchBars() ([]model.OHLCV, error)
	Name() string
}

// SyntheticFetcher generates random bars and, when CSVPath is set, dumps
// them to that file as a side effect.
type SyntheticFetcher struct {
	Options generator.Options
	CSVPath string
}

// NewSyntheticFetcher creates a fetcher for the given companies and history length.
func NewSyntheticFetcher(companies []string, days int, seed uint64, csvPath string) *SyntheticFetcher {
	return &SyntheticFetcher{
		Options: generator.Options{Companies: companies, Days: days, Seed: seed, End: time.Now()},
		CSVPath: csvPath,
	}
}

func (f *SyntheticFetcher) Name() string { return "synthetic" }

func (f *SyntheticFetcher) FetchBars() ([]model.OHLCV, error) {
	bars, err := generator.Generate(f.Options)
	if err != nil {
		return nil, err
	}
	if f.CSVPath != "" {
		if err := generator.WriteCSVFile(f.CSVPath, bars); err != nil {
			return nil, err
		}
	}
	return bars, nil
}

// CSVFetcher loads bars from a CSV file written by a previous run.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher { return &CSVFetcher{Path: path} }

func (f *CSVFetcher) Name() string { return "csv:" + f.Path }

func (f *CSVFetcher) FetchBars() ([]model.OHLCV, error) {
	return generator.ReadCSVFile(f.Path)
}

// StaticFetcher returns fixed bars. Used by tests and embedding callers.
type StaticFetcher struct {
	Bars []model.OHLCV
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchBars() ([]model.OHLCV, error) {
	return f.Bars, nil
}
