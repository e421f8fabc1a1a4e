package agents

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"stock-analysis/config"
	"stock-analysis/models"
	"stock-analysis/observability"
	"stock-analysis/services"
)

// FundamentalsAgent fetches the company profile and key ratios from
// Finnhub and produces a financial summary.
type FundamentalsAgent struct {
	service *services.FinnhubService
	hasKey  bool
}

// NewFundamentalsAgent creates the fundamentals fetcher from config
func NewFundamentalsAgent(cfg *config.Config) *FundamentalsAgent {
	timeout := time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second
	return &FundamentalsAgent{
		service: services.NewFinnhubService(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, timeout),
		hasKey:  cfg.HasFinnhub(),
	}
}

// Report fetches profile and metrics sequentially and renders the
// financial summary. Service errors are already human-readable and
// pass through verbatim.
func (a *FundamentalsAgent) Report(ctx context.Context, symbol string) string {
	if !a.hasKey {
		return "Error: Finnhub API key not configured."
	}

	symbol = models.NormalizeSymbol(symbol)
	log := observability.WithSymbol(symbol)

	profile, err := a.service.GetProfile(ctx, symbol)
	if err != nil {
		log.Warn("profile fetch failed", "error", err)
		return err.Error()
	}

	metrics, err := a.service.GetMetrics(ctx, symbol)
	if err != nil {
		log.Warn("metrics fetch failed", "error", err)
		return err.Error()
	}

	snapshot := buildFundamentalsSnapshot(symbol, profile, metrics)
	return formatFundamentalsReport(snapshot)
}

// buildFundamentalsSnapshot extracts the fixed set of ratios. Market
// cap arrives in millions of dollars and is rescaled before currency
// formatting. Each metric coerces independently so one bad field only
// costs its own line.
func buildFundamentalsSnapshot(symbol string, profile *services.CompanyProfile, metrics map[string]any) *models.FundamentalsSnapshot {
	name := profile.Name
	if name == "" {
		name = symbol
	}
	industry := profile.FinnhubIndustry
	if industry == "" {
		industry = "N/A"
	}

	var marketCap *float64
	if profile.MarketCapitalization > 0 {
		dollars := profile.MarketCapitalization * 1e6
		marketCap = &dollars
	}

	snapshot := &models.FundamentalsSnapshot{
		Symbol:       symbol,
		CompanyName:  name,
		Industry:     industry,
		MarketCap:    marketCap,
		PERatio:      toFloat(metrics["peBasicExclExtraTTM"]),
		PriceToBook:  toFloat(metrics["pbAnnual"]),
		ROE:          toFloat(metrics["roeTTM"]),
		NetMargin:    toFloat(metrics["netProfitMarginTTM"]),
		CurrentRatio: toFloat(metrics["currentRatioTTM"]),
		DebtEquity:   toFloat(metrics["totalDebt/totalEquityTTM"]),
	}
	snapshot.Valuation = models.ValuationFor(snapshot.PERatio)
	snapshot.Profitability = models.ProfitabilityFor(snapshot.NetMargin)

	return snapshot
}

// toFloat coerces a raw JSON scalar to a float. Non-numeric values,
// including the literal "N/A" Finnhub sometimes sends, yield nil.
func toFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func formatFundamentalsReport(s *models.FundamentalsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 FINANCIAL ANALYSIS: %s\n\n", s.Symbol)
	b.WriteString("COMPANY INFO:\n")
	fmt.Fprintf(&b, "• Name: %s\n", s.CompanyName)
	fmt.Fprintf(&b, "• Industry: %s\n", s.Industry)
	fmt.Fprintf(&b, "• Market Cap: %s\n\n", formatCurrency(s.MarketCap))
	b.WriteString("KEY METRICS:\n")
	fmt.Fprintf(&b, "• P/E Ratio: %s\n", formatNumber(s.PERatio))
	fmt.Fprintf(&b, "• Price-to-Book: %s\n", formatNumber(s.PriceToBook))
	fmt.Fprintf(&b, "• Return on Equity: %s\n", formatPercent(s.ROE))
	fmt.Fprintf(&b, "• Net Margin: %s\n", formatPercent(s.NetMargin))
	fmt.Fprintf(&b, "• Current Ratio: %s\n", formatNumber(s.CurrentRatio))
	fmt.Fprintf(&b, "• Debt/Equity: %s\n\n", formatNumber(s.DebtEquity))
	b.WriteString("ASSESSMENT:\n")
	fmt.Fprintf(&b, "• Valuation: %s\n", s.Valuation)
	fmt.Fprintf(&b, "• Profitability: %s", s.Profitability)
	return b.String()
}

// formatNumber renders a plain two-decimal value or N/A
func formatNumber(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// formatPercent renders a one-decimal percentage or N/A
func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// formatCurrency scales dollar amounts to B/M suffixes above 1e9/1e6
// and comma-groups smaller amounts.
func formatCurrency(v *float64) string {
	if v == nil {
		return "N/A"
	}
	abs := math.Abs(*v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.1fB", *v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", *v/1e6)
	default:
		return "$" + humanize.CommafWithDigits(*v, 0)
	}
}
