package ingestion

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProcessNotFound is returned by ProcessStore implementations when no
// process exists for the requested id.
var ErrProcessNotFound = errors.New("ingestion process not found")

// CreateProcessParams are the caller-supplied fields of a new process.
// The store assigns the id and timestamps and sets the initial status.
type CreateProcessParams struct {
	Type        Type
	DocumentIDs []uuid.UUID
	Description *string
	Parameters  map[string]any
}

// ProcessStore is the durable storage contract for ingestion processes.
// The engine and scheduler read-modify-write records through this interface
// only; they hold no process state of their own between timer stages.
type ProcessStore interface {
	CreateProcess(ctx context.Context, params CreateProcessParams) (Process, error)
	SaveProcess(ctx context.Context, p Process) (Process, error)
	GetProcess(ctx context.Context, id uuid.UUID) (Process, error)
	// ListProcesses returns all processes ordered by creation time, newest first.
	ListProcesses(ctx context.Context) ([]Process, error)
}
