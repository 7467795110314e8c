package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/docfold-labs/docfold/internal/ingestion"
)

// The queries below implement ingestion.ProcessStore, making *store.Store the
// durable Process Store behind the lifecycle engine.

const processColumns = `id, type, status, document_ids, description, parameters,
	error, started_at, completed_at, created_at, updated_at`

func scanProcess(row interface{ Scan(...any) error }) (ingestion.Process, error) {
	var p ingestion.Process
	err := row.Scan(&p.ID, &p.Type, &p.Status, &p.DocumentIDs, &p.Description,
		&p.Parameters, &p.Error, &p.StartedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ingestion.Process{}, ingestion.ErrProcessNotFound
	}
	return p, err
}

func (q *Queries) CreateProcess(ctx context.Context, params ingestion.CreateProcessParams) (ingestion.Process, error) {
	docIDs := params.DocumentIDs
	if docIDs == nil {
		docIDs = []uuid.UUID{}
	}
	row := q.db.QueryRow(ctx,
		`INSERT INTO ingestion_processes (type, status, document_ids, description, parameters, started_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING `+processColumns,
		params.Type, ingestion.StatusPending, docIDs, params.Description, params.Parameters)
	return scanProcess(row)
}

// SaveProcess persists the mutable fields of p. Identity fields (type,
// document ids, description, parameters, started_at) are immutable after
// creation and deliberately not written.
func (q *Queries) SaveProcess(ctx context.Context, p ingestion.Process) (ingestion.Process, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE ingestion_processes
		 SET status = $2, error = $3, completed_at = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+processColumns,
		p.ID, p.Status, p.Error, p.CompletedAt)
	return scanProcess(row)
}

func (q *Queries) GetProcess(ctx context.Context, id uuid.UUID) (ingestion.Process, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+processColumns+` FROM ingestion_processes WHERE id = $1`, id)
	return scanProcess(row)
}

func (q *Queries) ListProcesses(ctx context.Context) ([]ingestion.Process, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+processColumns+` FROM ingestion_processes
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ingestion.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
