package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/market"
	"StockSimulator/internal/model"
	"StockSimulator/internal/notifier"
	"StockSimulator/internal/portfolio"
	"StockSimulator/internal/prompt"
	"StockSimulator/internal/recorder"

	"github.com/shopspring/decimal"
)

// Session is the menu-driven console simulation over a fixed stock board.
type Session struct {
	Portfolio *portfolio.Manager
	Board     *market.Board
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Log       *logger.Logger
	Delay     time.Duration

	in      *prompt.Reader
	history []string
}

// NewSession wires a console session reading from in and writing to out.
func NewSession(pm *portfolio.Manager, board *market.Board, rec recorder.Recorder, n notifier.Notifier, log *logger.Logger, in io.Reader, out io.Writer) *Session {
	return &Session{
		Portfolio: pm,
		Board:     board,
		Recorder:  rec,
		Notifier:  n,
		Log:       log,
		Delay:     2 * time.Second,
		in:        prompt.NewReader(in, out, &sync.Mutex{}),
	}
}

// History returns the recorded history lines.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Run loops over the menu until the user exits, input ends or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.in.Println("Welcome to the Stock Market Simulation!")
	for {
		s.in.Printf("%s", notifier.FormatStatus(s.Portfolio.State(), s.Board.Quotes()))
		s.in.Printf("\nActions: \n1. Buy Stock\n2. Sell Stock\n3. Update Stock Prices\n4. Show History\n5. Exit\n")

		action, err := s.in.Ask(ctx, "Select an action: ")
		if err != nil {
			return s.finish(err)
		}

		switch action {
		case "1":
			err = s.trade(ctx, model.SideBuy)
		case "2":
			err = s.trade(ctx, model.SideSell)
		case "3":
			s.updatePrices()
		case "4":
			s.showHistory()
		case "5":
			s.in.Println("Exiting the simulation. Goodbye!")
			return nil
		default:
			s.in.Println("Invalid action. Please try again.")
		}
		if err != nil {
			return s.finish(err)
		}

		if err := s.pause(ctx); err != nil {
			return s.finish(err)
		}
	}
}

func (s *Session) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		s.in.Println("\nExiting the simulation. Goodbye!")
		return nil
	}
	return err
}

func (s *Session) trade(ctx context.Context, side model.Side) error {
	question := fmt.Sprintf("Enter stock symbol (%s): ", strings.Join(s.Board.Symbols(), ", "))
	raw, err := s.in.Ask(ctx, question)
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(raw)

	rawQty, err := s.in.Ask(ctx, "Enter quantity: ")
	if err != nil {
		return err
	}
	qty, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil {
		s.in.Println("Error: Enter a valid quantity!")
		return nil
	}

	quote, err := s.Board.Quote(symbol)
	if err != nil {
		if side == model.SideBuy {
			s.in.Printf("Error: %s is not a valid stock.\n", symbol)
		} else {
			s.in.Printf("Error: You don't own enough shares of %s.\n", symbol)
		}
		return nil
	}
	price := decimal.NewFromFloat(quote.Price)

	var tr *model.Trade
	if side == model.SideBuy {
		tr, err = s.Portfolio.Buy(symbol, qty, price)
	} else {
		tr, err = s.Portfolio.Sell(symbol, qty, price)
	}
	if err != nil {
		s.in.Println(tradeError(err, symbol))
		s.Log.Debug("trade rejected", logger.StringField("symbol", symbol), logger.Int64Field("qty", qty), logger.ErrorField(err))
		return nil
	}

	s.in.Println(notifier.FormatTrade(tr))
	s.history = append(s.history, notifier.FormatHistoryEntry(tr))
	if err := s.Recorder.RecordTrade(tr); err != nil {
		s.Log.Error("record trade", logger.ErrorField(err))
	}
	if err := s.Notifier.NotifyTrade(ctx, tr); err != nil {
		s.Log.Warn("trade alert failed", logger.ErrorField(err))
	}
	return nil
}

func tradeError(err error, symbol string) string {
	switch {
	case errors.Is(err, portfolio.ErrInsufficientCash):
		return "Error: Not enough balance to complete the purchase."
	case errors.Is(err, portfolio.ErrInsufficientShares):
		return fmt.Sprintf("Error: You don't own enough shares of %s.", symbol)
	case errors.Is(err, portfolio.ErrInvalidQuantity):
		return "Error: Quantity must be a positive whole number."
	default:
		return fmt.Sprintf("Error: %v.", err)
	}
}

func (s *Session) updatePrices() {
	s.in.Println("\nUpdating stock prices...")
	quotes := s.Board.Update()
	for _, q := range quotes {
		if err := s.Recorder.RecordQuote(&q); err != nil {
			s.Log.Error("record quote", logger.ErrorField(err))
			break
		}
	}
	s.in.Println("Stock prices updated.")
}

func (s *Session) showHistory() {
	if len(s.history) == 0 {
		s.in.Println("No history available.")
		return
	}
	for _, h := range s.history {
		s.in.Println(h)
	}
}

func (s *Session) pause(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.Delay):
		return nil
	}
}
