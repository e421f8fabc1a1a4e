package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock-analysis/observability"
)

// NewsAPIService handles communication with NewsAPI.org
type NewsAPIService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewNewsAPIService creates a new NewsAPIService instance
func NewNewsAPIService(apiKey, baseURL string, timeout time.Duration) *NewsAPIService {
	return &NewsAPIService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// NewsArticle is a single article from the /everything endpoint
type NewsArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// newsAPIResponse represents the response from NewsAPI
type newsAPIResponse struct {
	Status       string        `json:"status"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []NewsArticle `json:"articles"`
}

// GetEverything searches articles matching the query, sorted by
// relevancy. A single attempt is made with no retries.
func (s *NewsAPIService) GetEverything(ctx context.Context, query string, pageSize int) ([]NewsArticle, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest("newsapi", "everything")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI("newsapi", "everything")

	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError("newsapi", "everything", "connection_error")
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		metrics.RecordExternalAPIError("newsapi", "everything", "auth_error")
		return nil, fmt.Errorf("Error: Invalid NewsAPI key. Check your API key.")
	case http.StatusTooManyRequests:
		metrics.RecordExternalAPIError("newsapi", "everything", "rate_limit")
		return nil, fmt.Errorf("Error: NewsAPI rate limit reached. Try again later.")
	default:
		metrics.RecordExternalAPIError("newsapi", "everything", fmt.Sprintf("status_%d", resp.StatusCode))
		return nil, fmt.Errorf("Error: NewsAPI request failed with status %d", resp.StatusCode)
	}

	var newsResp newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		metrics.RecordExternalAPIError("newsapi", "everything", "decode_error")
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if newsResp.Status != "ok" {
		message := newsResp.Message
		if message == "" {
			message = "NewsAPI error"
		}
		metrics.RecordExternalAPIError("newsapi", "everything", "api_error")
		return nil, fmt.Errorf("Error: %s", message)
	}

	return newsResp.Articles, nil
}
