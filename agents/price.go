package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"stock-analysis/config"
	"stock-analysis/models"
	"stock-analysis/observability"
	"stock-analysis/services"
)

// PriceAgent fetches daily price data and produces a technical summary.
// Like every fetcher it returns a readable string for both success and
// failure; nothing crosses the tool boundary as an error.
type PriceAgent struct {
	service *services.AlphaVantageService
	hasKey  bool
}

// NewPriceAgent creates the price fetcher from config
func NewPriceAgent(cfg *config.Config) *PriceAgent {
	timeout := time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second
	return &PriceAgent{
		service: services.NewAlphaVantageService(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL, timeout),
		hasKey:  cfg.HasAlphaVantage(),
	}
}

// Report fetches the daily series for a symbol and renders the price
// summary. A missing key returns immediately without a network call.
func (a *PriceAgent) Report(ctx context.Context, symbol string) string {
	if !a.hasKey {
		return "Error: Alpha Vantage API key not configured."
	}

	symbol = models.NormalizeSymbol(symbol)
	log := observability.WithSymbol(symbol)

	series, err := a.service.GetDailySeries(ctx, symbol)
	if err != nil {
		log.Warn("price fetch failed", "error", err)
		switch {
		case errors.Is(err, services.ErrInvalidSymbol):
			return fmt.Sprintf("Error: Invalid symbol '%s'", symbol)
		case errors.Is(err, services.ErrRateLimited):
			return "API rate limit reached. Please wait and try again."
		case errors.Is(err, services.ErrNoSeries):
			return fmt.Sprintf("No data available for %s", symbol)
		default:
			return fmt.Sprintf("Error retrieving data for %s: %s", symbol, err)
		}
	}

	snapshot, err := buildPriceSnapshot(symbol, series)
	if err != nil {
		log.Warn("price snapshot failed", "error", err)
		return err.Error()
	}

	return formatPriceReport(snapshot)
}

// buildPriceSnapshot computes daily change and moving averages from the
// raw series. Dates sort descending so index 0 is the latest session.
func buildPriceSnapshot(symbol string, series map[string]services.DailyBar) (*models.PriceSnapshot, error) {
	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	if len(dates) < 2 {
		return nil, fmt.Errorf("Insufficient data for %s", symbol)
	}

	latest := series[dates[0]]
	previous := series[dates[1]]

	currentPrice, err := decimal.NewFromString(latest.Close)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving data for %s: bad close price %q", symbol, latest.Close)
	}
	previousClose, err := decimal.NewFromString(previous.Close)
	if err != nil || previousClose.IsZero() {
		return nil, fmt.Errorf("Error retrieving data for %s: bad previous close %q", symbol, previous.Close)
	}
	dayHigh, err := decimal.NewFromString(latest.High)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving data for %s: bad day high %q", symbol, latest.High)
	}
	dayLow, err := decimal.NewFromString(latest.Low)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving data for %s: bad day low %q", symbol, latest.Low)
	}
	volume, err := decimal.NewFromString(latest.Volume)
	if err != nil {
		return nil, fmt.Errorf("Error retrieving data for %s: bad volume %q", symbol, latest.Volume)
	}

	dailyChange := currentPrice.Sub(previousClose)
	dailyChangePct := dailyChange.Div(previousClose).Mul(decimal.NewFromInt(100))

	// SMAs use the 50 most recent closes at most. Each average needs
	// its full window or it is omitted.
	window := dates
	if len(window) > 50 {
		window = window[:50]
	}
	closes := make([]decimal.Decimal, 0, len(window))
	for _, date := range window {
		c, err := decimal.NewFromString(series[date].Close)
		if err != nil {
			return nil, fmt.Errorf("Error retrieving data for %s: bad close price %q", symbol, series[date].Close)
		}
		closes = append(closes, c)
	}

	snapshot := &models.PriceSnapshot{
		Symbol:        symbol,
		Date:          dates[0],
		CurrentPrice:  currentPrice,
		PreviousClose: previousClose,
		DayHigh:       dayHigh,
		DayLow:        dayLow,
		Volume:        volume.IntPart(),
		DailyChange:   dailyChange,
		DailyChangePc: dailyChangePct,
		SMA20:         averageOf(closes, 20),
		SMA50:         averageOf(closes, 50),
	}
	snapshot.Trend = models.TrendFor(currentPrice, snapshot.SMA20, snapshot.SMA50)

	return snapshot, nil
}

// averageOf returns the mean of the first n closes, or nil when fewer
// than n are available.
func averageOf(closes []decimal.Decimal, n int) *decimal.Decimal {
	if len(closes) < n {
		return nil
	}
	sum := decimal.Zero
	for _, c := range closes[:n] {
		sum = sum.Add(c)
	}
	avg := sum.Div(decimal.NewFromInt(int64(n)))
	return &avg
}

func formatPriceReport(s *models.PriceSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 STOCK ANALYSIS: %s\n\n", s.Symbol)
	b.WriteString("PRICE INFORMATION:\n")
	fmt.Fprintf(&b, "• Current Price: $%s\n", s.CurrentPrice.StringFixed(2))
	fmt.Fprintf(&b, "• Daily Change: $%s (%s%%)\n", signedFixed(s.DailyChange), signedFixed(s.DailyChangePc))
	fmt.Fprintf(&b, "• Day Range: $%s - $%s\n", s.DayLow.StringFixed(2), s.DayHigh.StringFixed(2))
	fmt.Fprintf(&b, "• Volume: %s\n\n", humanize.Comma(s.Volume))
	b.WriteString("TECHNICAL ANALYSIS:\n")
	fmt.Fprintf(&b, "• 20-Day Average: %s\n", dollarOrNA(s.SMA20))
	fmt.Fprintf(&b, "• 50-Day Average: %s\n", dollarOrNA(s.SMA50))
	fmt.Fprintf(&b, "• Trend: %s\n\n", s.Trend)
	fmt.Fprintf(&b, "Data as of: %s", s.Date)
	return b.String()
}

// signedFixed renders a two-decimal value with an explicit sign
func signedFixed(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	if !strings.HasPrefix(fixed, "-") {
		return "+" + fixed
	}
	return fixed
}

func dollarOrNA(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return "$" + d.StringFixed(2)
}
