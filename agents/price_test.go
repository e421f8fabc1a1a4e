package agents

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-analysis/config"
	"stock-analysis/models"
	"stock-analysis/services"
)

func bar(close string) services.DailyBar {
	return services.DailyBar{
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: "1000",
	}
}

func TestBuildPriceSnapshot_DailyChange(t *testing.T) {
	series := map[string]services.DailyBar{
		"2024-01-15": {Open: "151.00", High: "153.00", Low: "150.50", Close: "152.50", Volume: "1000000"},
		"2024-01-14": {Open: "149.00", High: "151.00", Low: "148.00", Close: "150.00", Volume: "900000"},
	}

	snapshot, err := buildPriceSnapshot("AAPL", series)
	if err != nil {
		t.Fatalf("buildPriceSnapshot() error = %v", err)
	}

	if snapshot.Date != "2024-01-15" {
		t.Errorf("Date = %q, want 2024-01-15", snapshot.Date)
	}
	if got := snapshot.DailyChange.StringFixed(2); got != "2.50" {
		t.Errorf("DailyChange = %s, want 2.50", got)
	}
	if got := snapshot.DailyChangePc.StringFixed(2); got != "1.67" {
		t.Errorf("DailyChangePc = %s, want 1.67", got)
	}
	if snapshot.Volume != 1000000 {
		t.Errorf("Volume = %d, want 1000000", snapshot.Volume)
	}
	if snapshot.SMA20 != nil || snapshot.SMA50 != nil {
		t.Error("SMAs should be nil with only 2 data points")
	}
	if snapshot.Trend != models.TrendNeutral {
		t.Errorf("Trend = %v, want Neutral without SMAs", snapshot.Trend)
	}
}

func TestBuildPriceSnapshot_InsufficientData(t *testing.T) {
	series := map[string]services.DailyBar{
		"2024-01-15": bar("152.50"),
	}

	_, err := buildPriceSnapshot("AAPL", series)
	if err == nil {
		t.Fatal("buildPriceSnapshot() expected error for single data point")
	}
	if err.Error() != "Insufficient data for AAPL" {
		t.Errorf("error = %q, want 'Insufficient data for AAPL'", err.Error())
	}
}

func TestBuildPriceSnapshot_SMAWindows(t *testing.T) {
	// 25 points: enough for SMA20, not SMA50.
	series := make(map[string]services.DailyBar, 25)
	for i := 0; i < 25; i++ {
		date := fmt.Sprintf("2024-02-%02d", 25-i)
		series[date] = bar("100.00")
	}

	snapshot, err := buildPriceSnapshot("AAPL", series)
	if err != nil {
		t.Fatalf("buildPriceSnapshot() error = %v", err)
	}
	if snapshot.SMA20 == nil {
		t.Fatal("SMA20 should be present with 25 points")
	}
	if got := snapshot.SMA20.StringFixed(2); got != "100.00" {
		t.Errorf("SMA20 = %s, want 100.00", got)
	}
	if snapshot.SMA50 != nil {
		t.Error("SMA50 should be nil with 25 points")
	}
}

func TestBuildPriceSnapshot_BullishTrend(t *testing.T) {
	// 50 ascending closes, latest highest: price > SMA20 > SMA50.
	series := make(map[string]services.DailyBar, 60)
	for i := 0; i < 60; i++ {
		date := fmt.Sprintf("2024-%02d-%02d", 3-i/30, 30-i%30)
		series[date] = bar(fmt.Sprintf("%d.00", 200-i))
	}

	snapshot, err := buildPriceSnapshot("AAPL", series)
	if err != nil {
		t.Fatalf("buildPriceSnapshot() error = %v", err)
	}
	if snapshot.SMA20 == nil || snapshot.SMA50 == nil {
		t.Fatal("both SMAs should be present with 60 points")
	}
	if snapshot.Trend != models.TrendBullish {
		t.Errorf("Trend = %v, want Bullish", snapshot.Trend)
	}
}

func TestFormatPriceReport(t *testing.T) {
	series := map[string]services.DailyBar{
		"2024-01-15": {Open: "151.00", High: "153.00", Low: "150.50", Close: "152.50", Volume: "1000000"},
		"2024-01-14": {Open: "149.00", High: "151.00", Low: "148.00", Close: "150.00", Volume: "900000"},
	}
	snapshot, err := buildPriceSnapshot("AAPL", series)
	if err != nil {
		t.Fatalf("buildPriceSnapshot() error = %v", err)
	}

	report := formatPriceReport(snapshot)
	for _, want := range []string{
		"📊 STOCK ANALYSIS: AAPL",
		"• Current Price: $152.50",
		"• Daily Change: $+2.50 (+1.67%)",
		"• Day Range: $150.50 - $153.00",
		"• Volume: 1,000,000",
		"• 20-Day Average: N/A",
		"• 50-Day Average: N/A",
		"• Trend: Neutral",
		"Data as of: 2024-01-15",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestPriceAgent_MissingKey(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.AlphaVantage.BaseURL = "http://127.0.0.1:1" // must not be contacted

	agent := NewPriceAgent(cfg)
	got := agent.Report(context.Background(), "AAPL")
	if got != "Error: Alpha Vantage API key not configured." {
		t.Errorf("Report() = %q", got)
	}
}

func TestPriceAgent_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid symbol", `{"Error Message": "Invalid API call."}`, "Error: Invalid symbol 'FAKE'"},
		{"rate limited", `{"Note": "rate limit"}`, "API rate limit reached. Please wait and try again."},
		{"no data", `{"Meta Data": {}}`, "No data available for FAKE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			cfg := config.NewTestConfig()
			cfg.AlphaVantage.APIKey = "test-key"
			cfg.AlphaVantage.BaseURL = server.URL

			agent := NewPriceAgent(cfg)
			if got := agent.Report(context.Background(), "fake"); got != tt.want {
				t.Errorf("Report() = %q, want %q", got, tt.want)
			}
		})
	}
}
