package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StockSimulator/internal/chart"
	"StockSimulator/internal/console"
	"StockSimulator/internal/generator"
	"StockSimulator/internal/live"
	"StockSimulator/internal/logger"
	"StockSimulator/internal/market"
	"StockSimulator/internal/model"
	"StockSimulator/internal/notifier"
	"StockSimulator/internal/portfolio"
	"StockSimulator/internal/predictor"
	"StockSimulator/internal/scheduler"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	outPath        string
	forecastSymbol string
	forecastChart  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic OHLCV data and write it as CSV",
	RunE:  runGenerate,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the menu-driven console simulation",
	RunE:  runConsole,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the live trading session with model-driven prices",
	RunE:  runLive,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print a price forecast for one company and save its chart",
	RunE:  runForecast,
}

func init() {
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output CSV path (default data.csv_path)")
	forecastCmd.Flags().StringVarP(&forecastSymbol, "symbol", "s", "", "Company to forecast (default first company)")
	forecastCmd.Flags().StringVar(&forecastChart, "chart", "", "Chart output path (default live.chart_path)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	path := outPath
	if path == "" {
		path = a.cfg.Data.CSVPath
	}
	start := time.Now()
	bars, err := generator.Generate(generator.Options{
		Companies: a.cfg.Data.Companies,
		Days:      a.cfg.Data.Days,
		End:       time.Now(),
		Seed:      a.cfg.Data.Seed,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := generator.WriteCSVFile(path, bars); err != nil {
		return err
	}
	a.log.Info("synthetic data written",
		logger.StringField("path", path),
		logger.IntField("rows", len(bars)),
		logger.StringField("took", time.Since(start).String()))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s rows to %s\n", humanize.Comma(int64(len(bars))), path)
	return nil
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := a.newRecorder()
	defer rec.Close()

	initial := make([]model.Quote, 0, len(a.cfg.Console.Prices))
	for _, p := range a.cfg.Console.Prices {
		initial = append(initial, model.Quote{Symbol: p.Symbol, Price: p.Price})
	}
	board := market.NewBoard(initial, a.cfg.Console.MaxChange, a.cfg.Data.Seed)
	pm := portfolio.NewManager(decimal.NewFromFloat(a.cfg.Portfolio.StartingCash))
	alerts, flush := a.newNotifier()
	defer flush()

	s := console.NewSession(pm, board, rec, alerts, a.log.Named("console"), cmd.InOrStdin(), cmd.OutOrStdout())
	s.Delay = a.cfg.Console.Delay
	return s.Run(ctx)
}

func runLive(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	col, series, reg, err := a.train()
	if err != nil {
		return err
	}

	rec := a.newRecorder()
	defer rec.Close()

	feed := market.NewLiveFeed(reg, a.cfg.Live.Noise, a.cfg.Data.Seed)
	sched := scheduler.NewScheduler(ctx, feed, rec, a.log.Named("scheduler"))
	if err := sched.RegisterRefresh(a.cfg.Live.RefreshInterval); err != nil {
		return err
	}

	alerts, flush := a.newNotifier()
	defer flush()

	pm := portfolio.NewManager(decimal.NewFromFloat(a.cfg.Portfolio.StartingCash))
	s := live.NewSession(pm, feed, sched, col, series, rec, alerts, a.log.Named("live"),
		live.Options{ForecastDays: a.cfg.Live.ForecastDays, ChartPath: a.cfg.Live.ChartPath},
		cmd.InOrStdin(), cmd.OutOrStdout())

	sched.Start()
	defer sched.Stop()
	return s.Run(ctx)
}

func runForecast(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	_, _, reg, err := a.train()
	if err != nil {
		return err
	}
	sym := strings.ToUpper(forecastSymbol)
	if sym == "" {
		syms := reg.Symbols()
		if len(syms) == 0 {
			return predictor.ErrNotEnoughData
		}
		sym = syms[0]
	}
	m, err := reg.Get(sym)
	if err != nil {
		return err
	}
	fc, err := m.Forecast(a.cfg.Live.ForecastDays)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), notifier.FormatForecast(fc))

	path := forecastChart
	if path == "" {
		path = a.cfg.Live.ChartPath
	}
	if err := chart.RenderForecast(path, sym, m.History, fc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", path)
	return nil
}
