package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"StockSimulator/internal/chart"
	"StockSimulator/internal/collector"
	"StockSimulator/internal/logger"
	"StockSimulator/internal/market"
	"StockSimulator/internal/model"
	"StockSimulator/internal/notifier"
	"StockSimulator/internal/portfolio"
	"StockSimulator/internal/prompt"
	"StockSimulator/internal/recorder"
	"StockSimulator/internal/scheduler"

	"github.com/shopspring/decimal"
)

const helpText = `Commands:
  companies          list tradable companies
  select SYM         switch the selected company
  price | status     show the latest price and portfolio
  buy AMOUNT         spend up to AMOUNT dollars on the selected company
  sell AMOUNT        sell AMOUNT dollars worth of the selected company
  forecast [PATH]    print the 30-day forecast and save a chart
  history            list trades made in this session
  journal [N]        list the last N recorded trades (default 20)
  watch on|off       print every price refresh
  help               show this help
  quit               leave the session`

const defaultJournalLimit = 20

// Options configures a live session.
type Options struct {
	ForecastDays int
	ChartPath    string
}

// Session is the interactive live trading session: one selected company
// whose simulated price is refreshed in the background.
type Session struct {
	Portfolio *portfolio.Manager
	Feed      *market.LiveFeed
	Scheduler *scheduler.Scheduler
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Log       *logger.Logger

	opts    Options
	series  map[string]model.PriceSeries
	symbols []string
	in      *prompt.Reader
	watch   atomic.Bool
	history []string
}

// NewSession builds a session over the collected series. The scheduler must
// refresh prices from feed; the session selects symbols on it.
func NewSession(pm *portfolio.Manager, feed *market.LiveFeed, sched *scheduler.Scheduler, col *collector.Collector,
	series []model.PriceSeries, rec recorder.Recorder, n notifier.Notifier, log *logger.Logger,
	opts Options, in io.Reader, out io.Writer) *Session {
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 30
	}
	if opts.ChartPath == "" {
		opts.ChartPath = "forecast.png"
	}

	s := &Session{
		Portfolio: pm,
		Feed:      feed,
		Scheduler: sched,
		Collector: col,
		Recorder:  rec,
		Notifier:  n,
		Log:       log,
		opts:      opts,
		series:    make(map[string]model.PriceSeries, len(series)),
		in:        prompt.NewReader(in, out, &sync.Mutex{}),
	}
	for _, ps := range series {
		s.series[ps.Symbol] = ps
		s.symbols = append(s.symbols, ps.Symbol)
	}
	sched.OnQuote(s.onQuote)
	return s
}

// History returns the trade lines of this session.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Run selects the first company and processes commands until quit, end of
// input or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	if len(s.symbols) == 0 {
		return collector.ErrNoData
	}
	s.in.Println("Stock Trading Simulator (type 'help' for commands)")
	s.selectSymbol(s.symbols[0])

	for {
		line, err := s.in.Ask(ctx, fmt.Sprintf("[%s] > ", s.Scheduler.Selected()))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				s.in.Println("\nGoodbye!")
				return nil
			}
			return err
		}
		if quit := s.dispatch(ctx, line); quit {
			s.in.Println("Goodbye!")
			return nil
		}
	}
}

func (s *Session) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help":
		s.in.Println(helpText)
	case "companies":
		s.in.Printf("Select Company: %s\n", strings.Join(s.symbols, ", "))
	case "select":
		if len(args) != 1 {
			s.in.Println("Usage: select SYM")
			return false
		}
		sym := strings.ToUpper(args[0])
		if _, ok := s.series[sym]; !ok {
			s.in.Printf("Error: %s is not a valid company.\n", sym)
			return false
		}
		s.selectSymbol(sym)
	case "price", "status":
		s.printStatus()
	case "buy", "sell":
		side := model.SideBuy
		if cmd == "sell" {
			side = model.SideSell
		}
		s.trade(ctx, side, args)
	case "forecast":
		path := s.opts.ChartPath
		if len(args) > 0 {
			path = args[0]
		}
		s.forecast(path)
	case "history":
		if len(s.history) == 0 {
			s.in.Println("No history available.")
			return false
		}
		for _, h := range s.history {
			s.in.Println(h)
		}
	case "journal":
		limit := defaultJournalLimit
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				s.in.Println("Usage: journal [N]")
				return false
			}
			limit = n
		}
		s.journal(limit)
	case "watch":
		switch {
		case len(args) == 1 && strings.EqualFold(args[0], "on"):
			s.watch.Store(true)
		case len(args) == 1 && strings.EqualFold(args[0], "off"):
			s.watch.Store(false)
		default:
			s.in.Println("Usage: watch on|off")
		}
	default:
		s.in.Printf("Unknown command %q. Type 'help' for commands.\n", cmd)
	}
	return false
}

func (s *Session) journal(limit int) {
	trades, err := s.Recorder.Trades(limit)
	if err != nil {
		s.Log.Error("read journal", logger.ErrorField(err))
		s.in.Println("Error: ❌ Journal unavailable.")
		return
	}
	if len(trades) == 0 {
		s.in.Println("No recorded trades.")
		return
	}
	for i := range trades {
		t := &trades[i]
		s.in.Printf("%s %s at %s\n", t.Time.Format("2006-01-02 15:04:05"),
			strings.TrimSuffix(notifier.FormatHistoryEntry(t), "."), notifier.MoneyDec(t.Price))
	}
}

func (s *Session) selectSymbol(sym string) {
	s.Scheduler.Select(sym)
	if _, err := s.Scheduler.RunNow(); err != nil {
		s.Log.Error("initial refresh", logger.StringField("symbol", sym), logger.ErrorField(err))
	}
	s.printStatus()
}

func (s *Session) onQuote(q model.Quote) {
	if s.watch.Load() {
		s.in.Printf("\nLatest Price: %s %s\n", q.Symbol, notifier.Money(q.Price))
	}
}

func (s *Session) latestQuote(sym string) (*model.Quote, error) {
	if q, ok := s.Feed.Latest(sym); ok {
		return &q, nil
	}
	q, err := s.Scheduler.RunNow()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Session) printStatus() {
	sym := s.Scheduler.Selected()
	var quote *model.Quote
	if q, ok := s.Feed.Latest(sym); ok {
		quote = &q
	}
	ind, err := s.Collector.Indicators(s.series[sym])
	if err != nil {
		s.Log.Debug("indicators unavailable", logger.StringField("symbol", sym), logger.ErrorField(err))
		ind = nil
	}
	s.in.Printf("%s", notifier.FormatLiveStatus(sym, quote, s.Portfolio.State(), ind))
}

func (s *Session) trade(ctx context.Context, side model.Side, args []string) {
	if len(args) != 1 {
		s.in.Println("Error: ❌ Enter a valid amount!")
		return
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil || !amount.IsPositive() {
		s.in.Println("Error: ❌ Enter a valid amount!")
		return
	}

	sym := s.Scheduler.Selected()
	quote, err := s.latestQuote(sym)
	if err != nil {
		s.in.Printf("Error: ❌ No price for %s yet.\n", sym)
		s.Log.Warn("no live price", logger.StringField("symbol", sym), logger.ErrorField(err))
		return
	}
	price := decimal.NewFromFloat(quote.Price)

	var tr *model.Trade
	if side == model.SideBuy {
		tr, err = s.Portfolio.BuyAmount(sym, amount, price)
	} else {
		tr, err = s.Portfolio.SellAmount(sym, amount, price)
	}
	if err != nil {
		s.in.Println(liveTradeError(err, price))
		return
	}

	icon, verb := "✅", "Bought"
	if side == model.SideSell {
		icon, verb = "❌", "Sold"
	}
	s.in.Printf("Trade: %s %s %d stocks at %s\n", icon, verb, tr.Shares, notifier.MoneyDec(tr.Price))
	s.history = append(s.history, notifier.FormatHistoryEntry(tr))
	s.printStatus()

	if err := s.Recorder.RecordTrade(tr); err != nil {
		s.Log.Error("record trade", logger.ErrorField(err))
	}
	if err := s.Notifier.NotifyTrade(ctx, tr); err != nil {
		s.Log.Warn("trade alert failed", logger.ErrorField(err))
	}
}

func liveTradeError(err error, price decimal.Decimal) string {
	switch {
	case errors.Is(err, portfolio.ErrInsufficientCash):
		return "Error: ❌ Not enough cash!"
	case errors.Is(err, portfolio.ErrInsufficientShares):
		return "Error: ❌ Not enough stocks to sell!"
	case errors.Is(err, portfolio.ErrZeroShares):
		return fmt.Sprintf("Error: ❌ Amount is below one share at %s.", notifier.MoneyDec(price))
	case errors.Is(err, portfolio.ErrNoPrice):
		return "Error: ❌ No valid price yet."
	default:
		return "Error: ❌ Enter a valid amount!"
	}
}

func (s *Session) forecast(path string) {
	sym := s.Scheduler.Selected()
	fc, err := s.Feed.Forecast(sym, s.opts.ForecastDays)
	if err != nil {
		s.in.Printf("Error: forecast for %s failed: %v\n", sym, err)
		return
	}
	s.in.Printf("%s", notifier.FormatForecast(fc))

	history, err := s.Feed.History(sym)
	if err != nil {
		s.Log.Error("forecast history", logger.ErrorField(err))
		return
	}
	if err := chart.RenderForecast(path, sym, history, fc); err != nil {
		s.in.Printf("Error: chart not saved: %v\n", err)
		return
	}
	s.in.Printf("Chart saved to %s\n", path)
}
