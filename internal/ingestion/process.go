package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies what kind of ingestion a process performs.
type Type string

const (
	TypeFull             Type = "full_ingestion"
	TypeIncremental      Type = "incremental_ingestion"
	TypeDocumentSpecific Type = "document_specific"
)

// Valid reports whether t is one of the known ingestion types.
func (t Type) Valid() bool {
	switch t {
	case TypeFull, TypeIncremental, TypeDocumentSpecific:
		return true
	}
	return false
}

// Process is one ingestion job instance and its lifecycle state.
// Everything except Status, Error and CompletedAt is immutable after creation.
type Process struct {
	ID          uuid.UUID      `json:"id"`
	Type        Type           `json:"type"`
	Status      Status         `json:"status"`
	DocumentIDs []uuid.UUID    `json:"document_ids"`
	Description *string        `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Error       *string        `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
