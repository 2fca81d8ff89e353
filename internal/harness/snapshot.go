package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/workstreamhq/workstream/internal/entity"
)

// Snapshot serializes the full database state: every non-empty
// collection, documents in insertion order. With deterministic ids and
// clock the output is byte-stable, which is what the golden files
// compare against.
func (r *Runner) Snapshot(ctx context.Context) ([]byte, error) {
	state := make(map[string][]json.RawMessage)
	for _, collection := range entity.AllCollections {
		docs, err := r.rawDocs(ctx, collection)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			state[string(collection)] = docs
		}
	}
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(out, '\n'), nil
}

func (r *Runner) rawDocs(ctx context.Context, collection entity.Collection) ([]json.RawMessage, error) {
	rows, err := r.st.DB().QueryContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s ORDER BY rowid", collection))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(raw))
	}
	return docs, rows.Err()
}

// check evaluates one final-state assertion.
func (r *Runner) check(ctx context.Context, a Assertion) error {
	known := false
	for _, c := range entity.AllCollections {
		if string(c) == a.Collection {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown collection %q", a.Collection)
	}

	raws, err := r.rawDocs(ctx, entity.Collection(a.Collection))
	if err != nil {
		return err
	}

	matches := 0
	for _, raw := range raws {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		if r.matchesWhere(doc, a.Where) {
			matches++
		}
	}

	switch a.Type {
	case AssertExists:
		if matches == 0 {
			return fmt.Errorf("no matching document")
		}
	case AssertCount:
		if matches != a.Count {
			return fmt.Errorf("expected %d matching documents, found %d", a.Count, matches)
		}
	}
	return nil
}

// matchesWhere is a subset match: every where field must equal the
// document's field. String values may be $refs.
func (r *Runner) matchesWhere(doc map[string]any, where map[string]any) bool {
	for key, want := range where {
		if s, ok := want.(string); ok {
			want = r.mustResolve(s)
		}
		got, ok := doc[key]
		if !ok {
			return false
		}
		// YAML ints decode as int, JSON numbers as float64.
		if wi, ok := want.(int); ok {
			if gf, ok := got.(float64); ok {
				if float64(wi) != gf {
					return false
				}
				continue
			}
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
