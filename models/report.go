package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisReport is the final product of one coordinated analysis run.
// Reports are request-scoped; nothing is persisted.
type AnalysisReport struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	Analysis    string    `json:"analysis"`
	DataSources []string  `json:"data_sources"`
	GeneratedAt time.Time `json:"generated_at"`
}
