package agents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-analysis/config"
	"stock-analysis/services"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{"float", 28.5, fptr(28.5)},
		{"numeric string", "14.2", fptr(14.2)},
		{"non-numeric string", "N/A", nil},
		{"nil", nil, nil},
		{"bool", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toFloat(tt.value)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("toFloat(%v) = %v, want nil", tt.value, *got)
			case tt.want != nil && got == nil:
				t.Errorf("toFloat(%v) = nil, want %v", tt.value, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("toFloat(%v) = %v, want %v", tt.value, *got, *tt.want)
			}
		})
	}
}

func fptr(v float64) *float64 { return &v }

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{"missing", nil, "N/A"},
		{"billions", fptr(2.85e12), "$2850.0B"},
		{"one billion", fptr(1e9), "$1.0B"},
		{"millions", fptr(4.56e8), "$456.0M"},
		{"thousands", fptr(985432), "$985,432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCurrency(tt.value); got != tt.want {
				t.Errorf("formatCurrency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFundamentalsSnapshot(t *testing.T) {
	profile := &services.CompanyProfile{
		Name:                 "Apple Inc",
		FinnhubIndustry:      "Technology",
		MarketCapitalization: 2850000, // millions of dollars
	}
	metrics := map[string]any{
		"peBasicExclExtraTTM": 25.5,
		"pbAnnual":            45.2,
		"roeTTM":              "147.3",
		"currentRatioTTM":     "N/A",
	}

	snapshot := buildFundamentalsSnapshot("AAPL", profile, metrics)

	if snapshot.CompanyName != "Apple Inc" {
		t.Errorf("CompanyName = %q", snapshot.CompanyName)
	}
	if snapshot.MarketCap == nil || *snapshot.MarketCap != 2.85e12 {
		t.Errorf("MarketCap = %v, want 2.85e12", snapshot.MarketCap)
	}
	if snapshot.Valuation != "Expensive" {
		t.Errorf("Valuation = %v, want Expensive for P/E 25.5", snapshot.Valuation)
	}
	// Net margin absent from the payload.
	if snapshot.NetMargin != nil {
		t.Errorf("NetMargin = %v, want nil", *snapshot.NetMargin)
	}
	if snapshot.Profitability != "N/A" {
		t.Errorf("Profitability = %v, want N/A", snapshot.Profitability)
	}
	if snapshot.CurrentRatio != nil {
		t.Error("CurrentRatio should be nil for non-numeric value")
	}
}

func TestFormatFundamentalsReport(t *testing.T) {
	profile := &services.CompanyProfile{
		Name:                 "Apple Inc",
		FinnhubIndustry:      "Technology",
		MarketCapitalization: 2850000,
	}
	metrics := map[string]any{
		"peBasicExclExtraTTM": 25.5,
		"netProfitMarginTTM":  25.3,
	}

	report := formatFundamentalsReport(buildFundamentalsSnapshot("AAPL", profile, metrics))
	for _, want := range []string{
		"💼 FINANCIAL ANALYSIS: AAPL",
		"• Name: Apple Inc",
		"• Industry: Technology",
		"• Market Cap: $2850.0B",
		"• P/E Ratio: 25.50",
		"• Net Margin: 25.3%",
		"• Price-to-Book: N/A",
		"• Valuation: Expensive",
		"• Profitability: Excellent",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestFundamentalsAgent_MissingKey(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Finnhub.BaseURL = "http://127.0.0.1:1" // must not be contacted

	agent := NewFundamentalsAgent(cfg)
	got := agent.Report(context.Background(), "AAPL")
	if got != "Error: Finnhub API key not configured." {
		t.Errorf("Report() = %q", got)
	}
}

func TestFundamentalsAgent_ServiceErrorsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	cfg := config.NewTestConfig()
	cfg.Finnhub.APIKey = "bad-key"
	cfg.Finnhub.BaseURL = server.URL

	agent := NewFundamentalsAgent(cfg)
	got := agent.Report(context.Background(), "AAPL")
	if got != "Error: Invalid Finnhub API key. Check your API key." {
		t.Errorf("Report() = %q", got)
	}
}
