package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"stock-analysis/config"
	"stock-analysis/internal/app"
	"stock-analysis/models"
	"stock-analysis/services"
	"stock-analysis/web"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// AnalyzeRequest represents a stock analysis request
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
}

// AnalyzeResponse is the successful analysis payload
type AnalyzeResponse struct {
	Symbol   string `json:"symbol"`
	Analysis string `json:"analysis"`
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// HandleRoot returns API information and usage instructions
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]any{
		"message":      "AI Stock Analysis API",
		"description":  "Comprehensive stock analysis using AI coordination",
		"usage":        "POST /analyze with JSON: {'symbol': 'AAPL'}",
		"data_sources": []string{"Alpha Vantage", "Finnhub", "NewsAPI"},
		"provider":     h.cfg.Agent.Provider,
		"dashboard":    "/dashboard",
	})
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "healthy",
		"message": "AI Stock Analysis API is operational",
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus

	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleAnalyze triggers analysis of a stock
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		_ = json.NewDecoder(r.Body).Decode(&req)
	} else {
		_ = r.ParseForm()
		req.Symbol = r.FormValue("symbol")
	}

	symbol := models.NormalizeSymbol(req.Symbol)
	if symbol == "" {
		h.jsonError(w, "Symbol is required", http.StatusBadRequest)
		return
	}
	if err := validateSymbol(symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.app.AnalyzeStock(r.Context(), symbol)
	if err != nil {
		h.jsonError(w, fmt.Sprintf("Failed to analyze stock %s: %s", symbol, err), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, AnalyzeResponse{
		Symbol:   report.Symbol,
		Analysis: report.Analysis,
	})
}

// HandleDashboard serves the browser dashboard page
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderDashboard(w, h.cfg.HTTP.BaseURL); err != nil {
		h.jsonError(w, "Failed to render dashboard", http.StatusInternalServerError)
	}
}

// validateSymbol rejects symbols that could not be a ticker
func validateSymbol(symbol string) error {
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long (max 10 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format (alphanumeric, dots, and dashes only)")
	}
	return nil
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
