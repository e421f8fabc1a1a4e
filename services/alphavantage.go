package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stock-analysis/observability"
)

// Sentinel errors for the documented Alpha Vantage failure modes. The
// price agent maps each one to its user-facing message.
var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrRateLimited   = errors.New("rate limit reached")
	ErrNoSeries      = errors.New("no time series in response")
)

// AlphaVantageService handles communication with the Alpha Vantage API
type AlphaVantageService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewAlphaVantageService creates a new AlphaVantageService instance
func NewAlphaVantageService(apiKey, baseURL string, timeout time.Duration) *AlphaVantageService {
	return &AlphaVantageService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// DailyBar is a single day of OHLCV data. Alpha Vantage returns all
// values as strings keyed by numbered field names.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// dailySeriesResponse represents the TIME_SERIES_DAILY response
type dailySeriesResponse struct {
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
	TimeSeries   map[string]DailyBar `json:"Time Series (Daily)"`
}

// GetDailySeries fetches up to 100 most recent trading days for a
// symbol. A single attempt is made with no retries; the client timeout
// bounds the call.
func (s *AlphaVantageService) GetDailySeries(ctx context.Context, symbol string) (map[string]DailyBar, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest("alphavantage", "daily_series")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI("alphavantage", "daily_series")

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")
	params.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError("alphavantage", "daily_series", "connection_error")
		return nil, fmt.Errorf("failed to fetch daily series: %w", err)
	}
	defer resp.Body.Close()

	var series dailySeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		metrics.RecordExternalAPIError("alphavantage", "daily_series", "decode_error")
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Alpha Vantage reports failures inside a 200 response body.
	if series.ErrorMessage != "" {
		metrics.RecordExternalAPIError("alphavantage", "daily_series", "invalid_symbol")
		return nil, ErrInvalidSymbol
	}
	if series.Note != "" {
		metrics.RecordExternalAPIError("alphavantage", "daily_series", "rate_limit")
		return nil, ErrRateLimited
	}
	if series.TimeSeries == nil {
		metrics.RecordExternalAPIError("alphavantage", "daily_series", "no_data")
		return nil, ErrNoSeries
	}

	return series.TimeSeries, nil
}
