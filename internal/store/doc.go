// Package store provides SQLite-backed durable storage for the workstream
// entity graph.
//
// Each collection is one table holding the full document as JSON in a doc
// column, plus extracted columns for every indexed field. The JSON column is
// the source of truth; extracted columns exist only so index scans
// (by-project, by-parent, by-reference, ...) stay cheap. Cascade reactions
// query those indexes immediately after a write, so every committed write is
// visible to index scans within the same transaction.
//
// # Concurrency model
//
// The connection pool is capped at a single connection, so transactions are
// strictly serialized: two mutations touching overlapping documents can
// never interleave their reads and writes. This is what makes the project
// aliasCount read-then-patch increment linearizable without a compare-and-
// swap — the whole mutation owns the writer slot.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Deterministic ordering: list queries order by rowid (insertion order),
// never by wall-clock timestamps.
package store
