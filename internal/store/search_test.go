package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workstreamhq/workstream/internal/entity"
)

func seedSearchFixture(t *testing.T, st *Store) {
	t.Helper()
	tasks := []*entity.Task{
		{ID: "t1", ProjectID: "p1", Name: "Fix login crash", Description: "panic on expired session token",
			Status: "todo", Label: "bug", Priority: entity.PriorityUrgent, Position: 2, UserIDs: []entity.ID{"u1"}},
		{ID: "t2", ProjectID: "p1", Name: "Design billing page", Description: "mockups for the plan upgrade flow",
			Status: "inProgress", Label: "design", Priority: entity.PriorityMedium, Position: 1, UserIDs: []entity.ID{"u2"}},
		{ID: "t3", ProjectID: "p1", Name: "Billing webhooks", Status: "todo", Label: "bug",
			Priority: entity.PriorityHigh, Position: 3, UserIDs: []entity.ID{"u1", "u2"}},
		{ID: "t4", ProjectID: "p2", Name: "Fix login crash", Status: "todo", Priority: entity.PriorityUrgent},
	}
	withTx(t, st, func(tx *Tx) error {
		for _, task := range tasks {
			if err := tx.InsertTask(task); err != nil {
				return err
			}
		}
		return nil
	})
}

func searchIDs(t *testing.T, st *Store, f TaskFilter) []entity.ID {
	t.Helper()
	var ids []entity.ID
	withTx(t, st, func(tx *Tx) error {
		tasks, err := tx.SearchTasks(f)
		require.NoError(t, err)
		for _, task := range tasks {
			ids = append(ids, task.ID)
		}
		return nil
	})
	return ids
}

func TestSearchTasksRequiresProject(t *testing.T) {
	st := newTestStore(t)
	withTx(t, st, func(tx *Tx) error {
		_, err := tx.SearchTasks(TaskFilter{})
		assert.ErrorContains(t, err, "project id required")
		return nil
	})
}

func TestSearchTasksScopedToProject(t *testing.T) {
	st := newTestStore(t)
	seedSearchFixture(t, st)

	// Ordered by position within the project; t4 belongs to p2.
	assert.Equal(t, []entity.ID{"t2", "t1", "t3"}, searchIDs(t, st, TaskFilter{ProjectID: "p1"}))
	assert.Equal(t, []entity.ID{"t4"}, searchIDs(t, st, TaskFilter{ProjectID: "p2"}))
}

func TestSearchTasksCombinesPredicates(t *testing.T) {
	st := newTestStore(t)
	seedSearchFixture(t, st)

	got := searchIDs(t, st, TaskFilter{
		ProjectID: "p1",
		Status:    []string{"todo"},
		Label:     []string{"bug"},
		Priority:  []entity.Priority{entity.PriorityHigh, entity.PriorityUrgent},
	})
	assert.Equal(t, []entity.ID{"t1", "t3"}, got)
}

func TestSearchTasksByAssignee(t *testing.T) {
	st := newTestStore(t)
	seedSearchFixture(t, st)

	assert.Equal(t, []entity.ID{"t1", "t3"}, searchIDs(t, st, TaskFilter{ProjectID: "p1", AssigneeID: "u1"}))
	assert.Equal(t, []entity.ID{"t2", "t3"}, searchIDs(t, st, TaskFilter{ProjectID: "p1", AssigneeID: "u2"}))
	assert.Empty(t, searchIDs(t, st, TaskFilter{ProjectID: "p1", AssigneeID: "u3"}))
	// "u" must not prefix-match any assignee id.
	assert.Empty(t, searchIDs(t, st, TaskFilter{ProjectID: "p1", AssigneeID: "u"}))
}

func TestSearchTasksTermMatchesNameAndDescription(t *testing.T) {
	st := newTestStore(t)
	seedSearchFixture(t, st)

	assert.Equal(t, []entity.ID{"t2", "t3"}, searchIDs(t, st, TaskFilter{ProjectID: "p1", SearchTerm: "billing"}))
	// Description-only hit.
	assert.Equal(t, []entity.ID{"t1"}, searchIDs(t, st, TaskFilter{ProjectID: "p1", SearchTerm: "session token"}))
	assert.Empty(t, searchIDs(t, st, TaskFilter{ProjectID: "p1", SearchTerm: "kubernetes"}))
}
