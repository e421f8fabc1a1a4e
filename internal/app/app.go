package app

import (
	"context"
	"fmt"
	"time"

	"stock-analysis/config"
	"stock-analysis/models"
)

// CoordinatorInterface defines the analysis operations needed by App
type CoordinatorInterface interface {
	Analyze(ctx context.Context, symbol string) (*models.AnalysisReport, error)
}

// App struct holds application dependencies using interfaces for testability
type App struct {
	cfg         *config.Config
	coordinator CoordinatorInterface
	analysisSem chan struct{}
}

// New creates a new App application struct
func New(cfg *config.Config, coordinator CoordinatorInterface) *App {
	return &App{
		cfg:         cfg,
		coordinator: coordinator,
		analysisSem: make(chan struct{}, cfg.Agent.ConcurrencyLimit),
	}
}

// AnalyzeStock runs one full analysis for a symbol. Concurrency is
// bounded by a semaphore; saturated capacity rejects immediately
// instead of queueing.
func (a *App) AnalyzeStock(ctx context.Context, symbol string) (*models.AnalysisReport, error) {
	if a.coordinator == nil {
		return nil, fmt.Errorf("coordinator not initialized")
	}

	select {
	case a.analysisSem <- struct{}{}:
		defer func() { <-a.analysisSem }()
	default:
		return nil, fmt.Errorf("analysis queue full, too many concurrent requests - try again later")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Agent.TimeoutSeconds)*time.Second)
	defer cancel()

	return a.coordinator.Analyze(ctx, symbol)
}

// Config returns the application configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// AnalysisSemCapacity returns the capacity of the analysis semaphore (for testing)
func (a *App) AnalysisSemCapacity() int {
	return cap(a.analysisSem)
}
