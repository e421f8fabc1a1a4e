package coordinator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stock-analysis/services"
)

type staticFetcher string

func (f staticFetcher) Report(ctx context.Context, symbol string) string {
	return string(f) + ": " + symbol
}

func newTestCoordinator(model services.ChatModel) *Coordinator {
	c := New(model, staticFetcher("price"), staticFetcher("fundamentals"), staticFetcher("sentiment"), 5)
	c.now = func() time.Time {
		return time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	}
	return c
}

func TestAnalyze_Success(t *testing.T) {
	model := &scriptedModel{turns: []*services.ModelTurn{
		{ToolCalls: []services.ToolCall{{ID: "c1", Name: "get_stock_price", Arguments: `{"symbol": "AAPL"}`}}},
		{Text: "**Executive Summary**\nStrong quarter."},
	}}
	coord := newTestCoordinator(model)

	report, err := coord.Analyze(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", report.Symbol)
	}
	for _, want := range []string{
		"🎯 STOCK ANALYSIS REPORT: AAPL",
		"Data Sources: Alpha Vantage + Finnhub + NewsAPI",
		"Generated: 2024-01-15 14:30",
		"**Executive Summary**",
	} {
		if !strings.Contains(report.Analysis, want) {
			t.Errorf("Analysis missing %q\n%s", want, report.Analysis)
		}
	}
	if len(report.DataSources) != 3 {
		t.Errorf("DataSources = %v, want three entries", report.DataSources)
	}
}

func TestAnalyze_RegistersThreeTools(t *testing.T) {
	model := &scriptedModel{turns: []*services.ModelTurn{{Text: "analysis"}}}
	coord := newTestCoordinator(model)

	if _, err := coord.Analyze(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	defs := coord.runner.registry.Definitions()
	wantNames := []string{"get_stock_price", "get_financials", "get_sentiment"}
	if len(defs) != len(wantNames) {
		t.Fatalf("len(defs) = %d, want %d", len(defs), len(wantNames))
	}
	for i, want := range wantNames {
		if defs[i].Name != want {
			t.Errorf("defs[%d].Name = %q, want %q", i, defs[i].Name, want)
		}
	}
}

func TestAnalyze_NoOutputDiagnostic(t *testing.T) {
	model := &scriptedModel{turns: []*services.ModelTurn{{}}}
	coord := newTestCoordinator(model)

	report, err := coord.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, want := range []string{
		"❌ ANALYSIS ERROR: AAPL",
		"OPENAI_API_KEY",
		"ALPHA_VANTAGE_API_KEY",
		"FINNHUB_API_KEY",
		"NEWS_API_KEY",
	} {
		if !strings.Contains(report.Analysis, want) {
			t.Errorf("diagnostic missing %q\n%s", want, report.Analysis)
		}
	}
}

func TestAnalyze_UnexpectedErrorDiagnostic(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("provider unavailable")}}
	coord := newTestCoordinator(model)

	report, err := coord.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, want := range []string{
		"❌ UNEXPECTED ERROR: AAPL",
		"provider unavailable",
		"OPENAI_API_KEY",
	} {
		if !strings.Contains(report.Analysis, want) {
			t.Errorf("diagnostic missing %q\n%s", want, report.Analysis)
		}
	}
}

func TestAnalyze_CancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &scriptedModel{turns: []*services.ModelTurn{{Text: "unused"}}}
	coord := newTestCoordinator(model)

	_, err := coord.Analyze(ctx, "AAPL")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Analyze() error = %v, want context.Canceled", err)
	}
}
