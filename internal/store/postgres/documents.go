package postgres

import (
	"context"

	"github.com/google/uuid"
)

const documentColumns = `id, title, content, type, object_name, size, owner_id, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Type, &d.ObjectName,
		&d.Size, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

type CreateDocumentParams struct {
	Title      string
	Content    *string
	Type       string
	ObjectName *string
	Size       int64
	OwnerID    *uuid.UUID
}

func (q *Queries) CreateDocument(ctx context.Context, params CreateDocumentParams) (Document, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO documents (title, content, type, object_name, size, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+documentColumns,
		params.Title, params.Content, params.Type, params.ObjectName, params.Size, params.OwnerID)
	return scanDocument(row)
}

func (q *Queries) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

type ListDocumentsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListDocuments(ctx context.Context, params ListDocumentsParams) ([]Document, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+documentColumns+` FROM documents
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (q *Queries) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&n)
	return n, err
}

type UpdateDocumentParams struct {
	ID      uuid.UUID
	Title   string
	Content *string
	Type    string
	Size    int64
}

func (q *Queries) UpdateDocument(ctx context.Context, params UpdateDocumentParams) (Document, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE documents
		 SET title = $2, content = $3, type = $4, size = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+documentColumns,
		params.ID, params.Title, params.Content, params.Type, params.Size)
	return scanDocument(row)
}

func (q *Queries) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

// CountDocumentsByOwner reports how many documents a user owns, shown on the
// user detail endpoint.
func (q *Queries) CountDocumentsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}
