package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/workstreamhq/workstream/internal/entity"
)

// Tx is one unit of work against the store. All reads and writes issued
// through a Tx see each other immediately; nothing is visible outside the
// Tx until the enclosing WithTx commits.
type Tx struct {
	tx  *sql.Tx
	ctx context.Context
}

// Context returns the context the transaction was opened with.
func (t *Tx) Context() context.Context { return t.ctx }

// encodeDoc serializes a document to its JSON storage form.
func encodeDoc(doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode doc: %w", err)
	}
	return string(raw), nil
}

// encodeIDList serializes an ID list for the extracted user_ids column.
func encodeIDList(ids []entity.ID) string {
	if len(ids) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// getDoc loads one document by id.
func getDoc[T any](t *Tx, collection entity.Collection, id entity.ID) (*T, error) {
	var raw string
	err := t.tx.QueryRowContext(t.ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", collection), string(id),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", collection, id, err)
	}

	var doc T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", collection, id, err)
	}
	return &doc, nil
}

// listDocs runs a query whose first selected column is doc and decodes every
// row. The query must already order its results (rowid for insertion order).
func listDocs[T any](t *Tx, query string, args ...any) ([]*T, error) {
	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var docs []*T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan doc: %w", err)
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode doc: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// execOne runs a statement that must affect exactly one row, returning
// ErrNotFound when it affected none.
func (t *Tx) execOne(collection entity.Collection, id entity.ID, query string, args ...any) error {
	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", collection, id, err)
	}
	if n == 0 {
		return notFound(collection, id)
	}
	return nil
}

// exec runs a statement and returns the number of affected rows.
func (t *Tx) exec(query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
