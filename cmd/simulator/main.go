package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"StockSimulator/internal/collector"
	"StockSimulator/internal/config"
	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"
	"StockSimulator/internal/notifier"
	"StockSimulator/internal/predictor"
	"StockSimulator/internal/recorder"

	"github.com/spf13/cobra"
)

const (
	alertBuffer = 16
	alertGrace  = 10 * time.Second
)

var (
	configPath string
	dataPath   string
)

// app carries what every subcommand needs once config and logger are up.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func setup() (*app, error) {
	path := configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if cfg.Data.Seed == 0 {
		cfg.Data.Seed = rand.Uint64()
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("config loaded", logger.StringField("path", path))
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) fetcher() collector.Fetcher {
	if dataPath != "" {
		return collector.NewCSVFetcher(dataPath)
	}
	return collector.NewSyntheticFetcher(a.cfg.Data.Companies, a.cfg.Data.Days, a.cfg.Data.Seed, a.cfg.Data.CSVPath)
}

// train collects the price history and fits one model per company.
func (a *app) train() (*collector.Collector, []model.PriceSeries, *predictor.Registry, error) {
	col := collector.NewCollector(a.fetcher(), a.log.Named("collector"))
	series, err := col.Collect()
	if err != nil {
		return nil, nil, nil, err
	}
	reg := predictor.NewRegistry()
	if err := reg.TrainAll(series, os.Stderr); err != nil {
		return nil, nil, nil, err
	}
	for _, sym := range reg.Symbols() {
		if m, err := reg.Get(sym); err == nil {
			a.log.Debug("model weights", logger.StringField("symbol", sym), logger.AnyField("weights", m.Weights()))
		}
	}
	a.log.Info("models trained", logger.IntField("companies", len(reg.Symbols())))
	return col, series, reg, nil
}

func (a *app) newRecorder() recorder.Recorder {
	if a.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath, a.log.Named("recorder"))
	if err != nil {
		a.log.Warn("init sqlite recorder failed, using noop", logger.ErrorField(err))
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newNotifier returns the trade alert sink and the func that flushes it.
// Telegram alerts go through a background worker so sessions never wait on
// the network.
func (a *app) newNotifier() (notifier.Notifier, func()) {
	if !a.cfg.TelegramEnabled() {
		return notifier.NoopNotifier{}, func() {}
	}
	tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log.Named("telegram"))
	an := notifier.NewAsyncNotifier(tn, alertBuffer, alertGrace, a.log.Named("alerts"))
	return an, an.Close
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Stock market simulator with synthetic data and price forecasts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default configs/config.yaml or $CONFIG_PATH)")

	liveCmd.Flags().StringVar(&dataPath, "data", "", "Load price history from a CSV file instead of generating it")
	forecastCmd.Flags().StringVar(&dataPath, "data", "", "Load price history from a CSV file instead of generating it")

	rootCmd.AddCommand(generateCmd, consoleCmd, liveCmd, forecastCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
