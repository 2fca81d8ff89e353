package entity

import "github.com/google/uuid"

// ID is an opaque stable identifier for a document.
//
// IDs are minted once at insert time and never reused. The zero value
// means "no reference" (e.g. a root task has ParentID == "").
type ID string

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// IsZero reports whether the ID is the empty "no reference" value.
func (id ID) IsZero() bool { return id == "" }

// IDGenerator mints new document identifiers.
// Implemented by UUIDv7Generator (production) and testutil.SeqIDGenerator (tests).
type IDGenerator interface {
	NewID() ID
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so IDs sort by
// creation time. This keeps index scans over freshly created documents
// mostly sequential.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}
