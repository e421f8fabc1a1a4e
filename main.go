package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock-analysis/agents"
	"stock-analysis/config"
	"stock-analysis/coordinator"
	"stock-analysis/internal/api"
	"stock-analysis/internal/app"
	"stock-analysis/observability"
	"stock-analysis/services"
)

func main() {
	// Load .env file if present (ignore error if it doesn't exist)
	_ = godotenv.Load()

	production := os.Getenv("ENV") == "production"
	observability.InitLogger(production)
	observability.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("failed to load configuration", "error", err)
	}

	// Missing data keys are not fatal; the matching fetcher reports its
	// own configuration error and the analysis continues with the rest.
	if !cfg.HasAlphaVantage() {
		observability.Warn("ALPHA_VANTAGE_API_KEY not set, price data unavailable")
	}
	if !cfg.HasFinnhub() {
		observability.Warn("FINNHUB_API_KEY not set, financial data unavailable")
	}
	if !cfg.HasNewsAPI() {
		observability.Warn("NEWS_API_KEY not set, sentiment data unavailable")
	}

	model, err := newChatModel(cfg)
	if err != nil {
		observability.Fatal("failed to initialize LLM provider", "provider", cfg.Agent.Provider, "error", err)
	}

	coord := coordinator.New(model,
		agents.NewPriceAgent(cfg),
		agents.NewFundamentalsAgent(cfg),
		agents.NewSentimentAgent(cfg),
		cfg.Agent.MaxIterations)

	application := app.New(cfg, coord)
	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Info("server starting",
			"addr", cfg.HTTP.Addr,
			"provider", cfg.Agent.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		observability.Error("shutdown error", "error", err)
	}
	observability.Info("server stopped")
}

// newChatModel selects the configured LLM provider
func newChatModel(cfg *config.Config) (services.ChatModel, error) {
	switch cfg.Agent.Provider {
	case "bedrock":
		return services.NewBedrockService(context.Background(), cfg)
	default:
		return services.NewOpenAIService(cfg)
	}
}
