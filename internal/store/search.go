package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/workstreamhq/workstream/internal/entity"
)

// TaskFilter describes a composable task search. Zero-valued fields are
// ignored; list fields match any of their values. This is the storage-side
// counterpart of a saved view's filter configuration.
type TaskFilter struct {
	ProjectID  entity.ID
	Status     []string
	Label      []string
	Module     []string
	Cycle      []string
	Priority   []entity.Priority
	AssigneeID entity.ID
	SearchTerm string
}

// SearchTasks lists the tasks of a project matching the filter, ordered by
// position then insertion order. The query is composed with squirrel so
// optional predicates stay readable.
func (t *Tx) SearchTasks(f TaskFilter) ([]*entity.Task, error) {
	if f.ProjectID.IsZero() {
		return nil, fmt.Errorf("search tasks: project id required")
	}

	qb := sq.Select("doc").
		From("tasks").
		Where(sq.Eq{"project_id": string(f.ProjectID)})

	if len(f.Status) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Status})
	}
	if len(f.Label) > 0 {
		qb = qb.Where(sq.Eq{"label": f.Label})
	}
	if len(f.Module) > 0 {
		qb = qb.Where(sq.Eq{"module": f.Module})
	}
	if len(f.Cycle) > 0 {
		qb = qb.Where(sq.Eq{"cycle": f.Cycle})
	}
	if len(f.Priority) > 0 {
		priorities := make([]string, len(f.Priority))
		for i, p := range f.Priority {
			priorities[i] = string(p)
		}
		qb = qb.Where(sq.Eq{"priority": priorities})
	}
	if !f.AssigneeID.IsZero() {
		// user_ids holds the JSON-encoded assignee list; quoted match keeps
		// id prefixes from matching each other.
		qb = qb.Where(sq.Like{"user_ids": `%"` + string(f.AssigneeID) + `"%`})
	}
	if f.SearchTerm != "" {
		term := "%" + f.SearchTerm + "%"
		qb = qb.Where(sq.Or{
			sq.Like{"name": term},
			sq.Expr("json_extract(doc, '$.description') LIKE ?", term),
		})
	}

	query, args, err := qb.OrderBy("position", "rowid").ToSql()
	if err != nil {
		return nil, fmt.Errorf("search tasks: build query: %w", err)
	}

	return listDocs[entity.Task](t, query, args...)
}
