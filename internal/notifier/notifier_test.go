package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrade(side model.Side) *model.Trade {
	return &model.Trade{
		ID:        "t1",
		Time:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbol:    "AAPL",
		Side:      side,
		Shares:    10,
		Price:     decimal.RequireFromString("150"),
		Total:     decimal.RequireFromString("1500"),
		CashAfter: decimal.RequireFromString("8500"),
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,500.00", Money(1500))
	assert.Equal(t, "$0.50", Money(0.5))
	assert.Equal(t, "$10,000.00", MoneyDec(decimal.NewFromInt(10000)))
}

func TestFormatStatus(t *testing.T) {
	state := model.PortfolioState{Cash: decimal.NewFromInt(8500), Holdings: map[string]int64{"TSLA": 1, "AAPL": 3}}
	out := FormatStatus(state, []model.Quote{{Symbol: "AAPL", Price: 150}, {Symbol: "GOOG", Price: 2800}})

	assert.Contains(t, out, "--- Current Status ---")
	assert.Contains(t, out, "Balance: $8,500.00")
	assert.Contains(t, out, "Portfolio: AAPL=3, TSLA=1")
	assert.Contains(t, out, "GOOG: $2,800.00")

	empty := FormatStatus(model.PortfolioState{Cash: decimal.Zero}, nil)
	assert.Contains(t, empty, "Portfolio: {}")
}

func TestFormatTrade(t *testing.T) {
	assert.Equal(t, "Bought 10 shares of AAPL at $150.00 each.", FormatTrade(sampleTrade(model.SideBuy)))
	assert.Equal(t, "Sold 10 shares of AAPL at $150.00 each.", FormatTrade(sampleTrade(model.SideSell)))
	assert.Equal(t, "Sold 10 shares of AAPL.", FormatHistoryEntry(sampleTrade(model.SideSell)))
}

func TestFormatLiveStatus(t *testing.T) {
	state := model.PortfolioState{Cash: decimal.NewFromInt(100), Holdings: map[string]int64{"META": 2}}
	out := FormatLiveStatus("META", &model.Quote{Symbol: "META", Price: 301.5}, state, &model.MarketIndicators{
		LastClose: 300, MA20: 295, DailyRSI: 61, High30d: 320, Low30d: 280, Position30d: 0.5,
	})
	assert.Contains(t, out, "Stocks Owned: 2 META")
	assert.Contains(t, out, "Latest Price: $301.50")
	assert.Contains(t, out, "30d Range: $280.00 - $320.00 (50%)")

	assert.Contains(t, FormatLiveStatus("META", nil, state, nil), "Latest Price: $0.00")
}

func TestFormatForecast(t *testing.T) {
	fc := &model.Forecast{Symbol: "MSFT", Points: []model.ForecastPoint{
		{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Price: 410.123},
	}}
	out := FormatForecast(fc)
	assert.Contains(t, out, "Future Stock Price Prediction for MSFT")
	assert.Contains(t, out, "2025-02-01  $410.12")
}

func TestTelegramNotifier_NotifyTrade(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/botTOKEN/sendMessage"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", logger.NewNop())
	n.APIBase = srv.URL
	require.NoError(t, n.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))

	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Contains(t, got["text"], "BUY AAPL")
}

func TestTelegramNotifier_RetryExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", logger.NewNop())
	n.APIBase = srv.URL
	err := n.SendWithRetry(context.Background(), "hi", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTelegramNotifier_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", logger.NewNop())
	n.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "hi", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NoError(t, n.NotifyTrade(context.Background(), sampleTrade(model.SideBuy)))
}
