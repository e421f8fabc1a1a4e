package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newNewsAPITestServer(t *testing.T, status int, body string) *NewsAPIService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("language"); got != "en" {
			t.Errorf("language = %q, want en", got)
		}
		if got := r.URL.Query().Get("sortBy"); got != "relevancy" {
			t.Errorf("sortBy = %q, want relevancy", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewNewsAPIService("test-key", server.URL, 5*time.Second)
}

func TestGetEverything_Success(t *testing.T) {
	body := `{
		"status": "ok",
		"totalResults": 2,
		"articles": [
			{"title": "Apple stock surges on strong earnings", "source": {"name": "Example"}},
			{"title": "Apple faces lawsuit over patents", "source": {"name": "Example"}}
		]
	}`
	service := newNewsAPITestServer(t, http.StatusOK, body)

	articles, err := service.GetEverything(context.Background(), "AAPL stock OR AAPL company", 50)
	if err != nil {
		t.Fatalf("GetEverything() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}
	if articles[0].Title != "Apple stock surges on strong earnings" {
		t.Errorf("first title = %q", articles[0].Title)
	}
}

func TestGetEverything_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"unauthorized", http.StatusUnauthorized, "Error: Invalid NewsAPI key. Check your API key."},
		{"rate limited", http.StatusTooManyRequests, "Error: NewsAPI rate limit reached. Try again later."},
		{"server error", http.StatusBadGateway, "Error: NewsAPI request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newNewsAPITestServer(t, tt.status, `{}`)
			_, err := service.GetEverything(context.Background(), "q", 50)
			if err == nil {
				t.Fatal("GetEverything() expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestGetEverything_APIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with message", `{"status": "error", "message": "parameter invalid"}`, "Error: parameter invalid"},
		{"without message", `{"status": "error"}`, "Error: NewsAPI error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newNewsAPITestServer(t, http.StatusOK, tt.body)
			_, err := service.GetEverything(context.Background(), "q", 50)
			if err == nil {
				t.Fatal("GetEverything() expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestGetEverything_PageSizeClamped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "50" {
			t.Errorf("pageSize = %q, want 50 for out-of-range input", got)
		}
		w.Write([]byte(`{"status": "ok", "articles": []}`))
	}))
	t.Cleanup(server.Close)

	service := NewNewsAPIService("k", server.URL, 5*time.Second)
	if _, err := service.GetEverything(context.Background(), "q", 500); err != nil {
		t.Fatalf("GetEverything() error = %v", err)
	}
}
