package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-analysis/observability"
)

// FinnhubService handles communication with the Finnhub API
type FinnhubService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewFinnhubService creates a new FinnhubService instance
func NewFinnhubService(apiKey, baseURL string, timeout time.Duration) *FinnhubService {
	return &FinnhubService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// CompanyProfile represents the /stock/profile2 response
type CompanyProfile struct {
	Name                 string  `json:"name"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	Currency             string  `json:"currency"`
	Country              string  `json:"country"`
	IPO                  string  `json:"ipo"`
	WebURL               string  `json:"weburl"`
	Error                string  `json:"error"`
}

// metricResponse represents the /stock/metric response
type metricResponse struct {
	Metric map[string]any `json:"metric"`
	Error  string         `json:"error"`
}

// statusError maps a non-200 Finnhub response to the exact user-facing
// message for that status. The text substitutes for the snapshot
// downstream, so it is already human-readable.
type statusError struct {
	endpoint string
	code     int
}

func (e *statusError) Error() string {
	switch e.code {
	case http.StatusUnauthorized:
		return "Error: Invalid Finnhub API key. Check your API key."
	case http.StatusTooManyRequests:
		return "API rate limit reached. Please wait and try again (60 calls/minute limit)."
	case http.StatusForbidden:
		return "Error: Access forbidden. This endpoint may require premium subscription."
	default:
		return fmt.Sprintf("Error: %s API request failed with status %d", e.endpoint, e.code)
	}
}

// GetProfile fetches the company profile for a symbol. Distinct errors
// cover each documented failure: bad status, empty payload, embedded
// error field, and unknown symbol (no name in the profile).
func (s *FinnhubService) GetProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	body, err := s.get(ctx, "profile", "/stock/profile2", symbol, nil)
	if err != nil {
		return nil, err
	}

	if isEmptyJSON(body) {
		return nil, fmt.Errorf("Error: Empty response from Finnhub for symbol '%s'", symbol)
	}

	var profile CompanyProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.Error != "" {
		return nil, fmt.Errorf("Error: %s", profile.Error)
	}
	if profile.Name == "" {
		return nil, fmt.Errorf("Error: Invalid symbol '%s' or symbol not found", symbol)
	}

	return &profile, nil
}

// GetMetrics fetches all financial metrics for a symbol. Values in the
// returned map are raw JSON scalars; numeric coercion happens in the
// fundamentals agent so that a single bad field renders as N/A instead
// of failing the fetch.
func (s *FinnhubService) GetMetrics(ctx context.Context, symbol string) (map[string]any, error) {
	body, err := s.get(ctx, "financials", "/stock/metric", symbol, url.Values{"metric": {"all"}})
	if err != nil {
		return nil, err
	}

	if isEmptyJSON(body) {
		return nil, fmt.Errorf("Error: Empty financials response for symbol '%s'", symbol)
	}

	var metrics metricResponse
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	if metrics.Error != "" {
		return nil, fmt.Errorf("Error: %s", metrics.Error)
	}

	return metrics.Metric, nil
}

func (s *FinnhubService) get(ctx context.Context, endpoint, path, symbol string, extra url.Values) ([]byte, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest("finnhub", endpoint)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI("finnhub", endpoint)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", s.apiKey)
	for key, vals := range extra {
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError("finnhub", endpoint, "connection_error")
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError("finnhub", endpoint, fmt.Sprintf("status_%d", resp.StatusCode))
		return nil, &statusError{endpoint: endpoint, code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// isEmptyJSON reports whether a body is empty or an empty JSON object.
func isEmptyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null"))
}
