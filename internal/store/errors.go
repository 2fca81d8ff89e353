package store

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/workstreamhq/workstream/internal/entity"
)

// ErrNotFound is returned when a point lookup or targeted update misses.
// Match with errors.Is.
var ErrNotFound = errors.New("document not found")

// notFound wraps ErrNotFound with the collection and id that missed.
func notFound(collection entity.Collection, id entity.ID) error {
	return fmt.Errorf("%s %s: %w", collection, id, ErrNotFound)
}

// IsNotFound reports whether err is a missing-document error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrConflict is returned when an insert violates a uniqueness constraint
// (duplicate id, or a second member row for the same workspace+user pair).
// Surfaced to callers as a retryable serialization conflict.
var ErrConflict = errors.New("document conflict")

// wrapInsert classifies an insert failure, mapping constraint violations to
// ErrConflict and wrapping everything else verbatim.
func wrapInsert(collection entity.Collection, id entity.ID, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("insert %s %s: %w", collection, id, ErrConflict)
	}
	return fmt.Errorf("insert %s %s: %w", collection, id, err)
}
