package dtos

import (
	"time"

	"github.com/google/uuid"
)

// ImportReport summarises a bulk promotion import
type ImportReport struct {
	ID          uuid.UUID     `json:"id"`
	Status      string        `json:"status"` // completed, failed
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Failed      int           `json:"failed"`
	Errors      []ImportError `json:"errors"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at"`
}

// ImportError represents a single rejected row
type ImportError struct {
	Row       int               `json:"row"`       // 1-based position in the input array
	Promotion string            `json:"promotion"` // Promotion name, when it could be read
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields"` // Field -> Error message
}

// Import status constants
const (
	ImportStatusCompleted = "completed"
	ImportStatusFailed    = "failed"
)
