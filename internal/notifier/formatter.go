package notifier

import (
	"fmt"
	"strings"

	"StockSimulator/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money formats an amount as dollars with thousands separators and cents.
func Money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// MoneyDec is Money for decimal amounts.
func MoneyDec(v decimal.Decimal) string {
	return Money(v.InexactFloat64())
}

// FormatStatus renders the console status block: balance, holdings and the
// price of every quoted symbol.
func FormatStatus(state model.PortfolioState, quotes []model.Quote) string {
	var b strings.Builder
	b.WriteString("\n--- Current Status ---\n")
	b.WriteString(fmt.Sprintf("Balance: %s\n", MoneyDec(state.Cash)))
	b.WriteString(fmt.Sprintf("Portfolio: %s\n", FormatHoldings(state)))
	b.WriteString("Stock Prices:\n")
	for _, q := range quotes {
		b.WriteString(fmt.Sprintf("%s: %s\n", q.Symbol, Money(q.Price)))
	}
	b.WriteString("----------------------\n")
	return b.String()
}

// FormatHoldings renders holdings as "AAPL=3, TSLA=1", or "{}" when empty.
func FormatHoldings(state model.PortfolioState) string {
	syms := state.Symbols()
	if len(syms) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(syms))
	for _, s := range syms {
		parts = append(parts, fmt.Sprintf("%s=%d", s, state.Holdings[s]))
	}
	return strings.Join(parts, ", ")
}

// FormatTrade is the confirmation line of a filled trade.
func FormatTrade(t *model.Trade) string {
	verb := "Bought"
	if t.Side == model.SideSell {
		verb = "Sold"
	}
	return fmt.Sprintf("%s %d shares of %s at %s each.", verb, t.Shares, t.Symbol, MoneyDec(t.Price))
}

// FormatHistoryEntry is the history line of a filled trade.
func FormatHistoryEntry(t *model.Trade) string {
	verb := "Bought"
	if t.Side == model.SideSell {
		verb = "Sold"
	}
	return fmt.Sprintf("%s %d shares of %s.", verb, t.Shares, t.Symbol)
}

// FormatLiveStatus renders the live session labels for the selected symbol.
func FormatLiveStatus(symbol string, quote *model.Quote, state model.PortfolioState, ind *model.MarketIndicators) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Company: %s\n", symbol))
	b.WriteString(fmt.Sprintf("Cash: %s\n", MoneyDec(state.Cash)))
	b.WriteString(fmt.Sprintf("Stocks Owned: %d %s (all: %s)\n", state.Holdings[symbol], symbol, FormatHoldings(state)))
	if quote != nil {
		b.WriteString(fmt.Sprintf("Latest Price: %s\n", Money(quote.Price)))
	} else {
		b.WriteString("Latest Price: $0.00\n")
	}
	if ind != nil {
		b.WriteString(fmt.Sprintf("Last Close: %s | MA20: %s | RSI(14): %.0f\n",
			Money(ind.LastClose), Money(ind.MA20), ind.DailyRSI))
		b.WriteString(fmt.Sprintf("30d Range: %s - %s (%.0f%%)\n",
			Money(ind.Low30d), Money(ind.High30d), ind.Position30d*100))
	}
	return b.String()
}

// FormatForecast renders a forecast as a date/price table.
func FormatForecast(fc *model.Forecast) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Future Stock Price Prediction for %s\n", fc.Symbol))
	for _, p := range fc.Points {
		b.WriteString(fmt.Sprintf("  %s  %s\n", p.Date.Format("2006-01-02"), Money(p.Price)))
	}
	return b.String()
}

// FormatTradeAlert is the Telegram message sent after a trade.
func FormatTradeAlert(t *model.Trade) string {
	icon := "✅"
	if t.Side == model.SideSell {
		icon = "❌"
	}
	return fmt.Sprintf("%s <b>%s %s</b>\n\n%d shares at %s\nTotal: %s\nCash: %s",
		icon, t.Side, t.Symbol, t.Shares, MoneyDec(t.Price), MoneyDec(t.Total), MoneyDec(t.CashAfter))
}
