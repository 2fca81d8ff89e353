package trigger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
)

// funcReaction adapts plain funcs to the Reaction interface. Nil funcs
// are no-ops.
type funcReaction struct {
	onInsert func(rt *Runtime, ch Change) error
	onUpdate func(rt *Runtime, ch Change) error
	onDelete func(rt *Runtime, ch Change) error
}

func (f funcReaction) OnInsert(rt *Runtime, ch Change) error {
	if f.onInsert == nil {
		return nil
	}
	return f.onInsert(rt, ch)
}

func (f funcReaction) OnUpdate(rt *Runtime, ch Change) error {
	if f.onUpdate == nil {
		return nil
	}
	return f.onUpdate(rt, ch)
}

func (f funcReaction) OnDelete(rt *Runtime, ch Change) error {
	if f.onDelete == nil {
		return nil
	}
	return f.onDelete(rt, ch)
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "trigger_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryRejectsDuplicateReaction(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{}))

	err := reg.Register(entity.Tasks, funcReaction{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a reaction")
	assert.True(t, reg.Watched(entity.Tasks))
	assert.False(t, reg.Watched(entity.Comments))
}

func TestRuntimeDispatchesBreadthFirst(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	var order []string
	record := func(tag string) {
		order = append(order, tag)
	}

	// The task insert reaction writes two comments; each comment insert
	// reaction runs only after the task reaction finished, in write order.
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{
		onInsert: func(rt *Runtime, ch Change) error {
			record("task:" + string(ch.ID))
			task := ch.New.(*entity.Task)
			for _, id := range []entity.ID{"c1", "c2"} {
				if err := rt.InsertComment(&entity.Comment{
					ID:     id,
					TaskID: task.ID,
					UserID: "u1",
				}); err != nil {
					return err
				}
				record("queued:" + string(id))
			}
			return nil
		},
	}))
	require.NoError(t, reg.Register(entity.Comments, funcReaction{
		onInsert: func(rt *Runtime, ch Change) error {
			record("comment:" + string(ch.ID))
			return nil
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()))
		return rt.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "first"})
	})
	require.NoError(t, err)

	// Both comment writes happen before either comment reaction runs.
	assert.Equal(t, []string{
		"task:t1",
		"queued:c1",
		"queued:c2",
		"comment:c1",
		"comment:c2",
	}, order)
}

func TestRuntimeUpdateCarriesOldDocument(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	var gotOld, gotNew string
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{
		onUpdate: func(rt *Runtime, ch Change) error {
			gotOld = ch.Old.(*entity.Task).Name
			gotNew = ch.New.(*entity.Task).Name
			return nil
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()))
		if err := rt.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "before"}); err != nil {
			return err
		}
		return rt.UpdateTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "after"})
	})
	require.NoError(t, err)
	assert.Equal(t, "before", gotOld)
	assert.Equal(t, "after", gotNew)
}

func TestRuntimeUnwatchedCollectionDispatchesNothing(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	fired := false
	require.NoError(t, reg.Register(entity.Comments, funcReaction{
		onInsert: func(rt *Runtime, ch Change) error {
			fired = true
			return nil
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()))
		return rt.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "quiet"})
	})
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestRuntimeDetectsDeleteCycle(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	// Task delete removes its comments; a (buggy) comment reaction deletes
	// the owning task again. The second task delete must fail, not loop.
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{
		onDelete: func(rt *Runtime, ch Change) error {
			return rt.DeleteComment("c1")
		},
	}))
	require.NoError(t, reg.Register(entity.Comments, funcReaction{
		onDelete: func(rt *Runtime, ch Change) error {
			return rt.DeleteTask(ch.Old.(*entity.Comment).TaskID)
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		if err := tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "doomed"}); err != nil {
			return err
		}
		return tx.InsertComment(&entity.Comment{ID: "c1", TaskID: "t1", UserID: "u1"})
	})
	require.NoError(t, err)

	err = s.WithTx(context.Background(), func(tx *store.Tx) error {
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()))
		return rt.DeleteTask("t1")
	})

	var cascadeErr *CascadeError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Equal(t, CodeCycle, cascadeErr.Code)
	assert.Equal(t, entity.Tasks, cascadeErr.Change.Collection)

	// The transaction rolled back: the task is still there.
	err = s.WithTx(context.Background(), func(tx *store.Tx) error {
		_, err := tx.GetTask("t1")
		return err
	})
	require.NoError(t, err)
}

func TestRuntimeEnforcesStepQuota(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	// An update reaction that re-updates its own document never settles;
	// the quota turns that into an error instead of an endless drain.
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{
		onUpdate: func(rt *Runtime, ch Change) error {
			task := ch.New.(*entity.Task)
			task.Position++
			return rt.UpdateTask(task)
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		if err := tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "loop"}); err != nil {
			return err
		}
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()), WithMaxSteps(25))
		return rt.UpdateTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "loop", Position: 1})
	})

	var cascadeErr *CascadeError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Equal(t, CodeQuota, cascadeErr.Code)
	assert.Greater(t, cascadeErr.Steps, 25)
}

func TestRuntimeRepeatedUpdatesAreNotCycles(t *testing.T) {
	s := openTestStore(t)
	reg := NewRegistry()

	// Several tasks bumping the same project counter within one cascade is
	// normal operation, not a loop.
	require.NoError(t, reg.Register(entity.Tasks, funcReaction{
		onInsert: func(rt *Runtime, ch Change) error {
			task := ch.New.(*entity.Task)
			p, err := rt.Tx().GetProject(task.ProjectID)
			if err != nil {
				return err
			}
			p.AliasCount++
			return rt.UpdateProject(p)
		},
	}))

	err := s.WithTx(context.Background(), func(tx *store.Tx) error {
		if err := tx.InsertProject(&entity.Project{ID: "p1", WorkspaceID: "w1", Name: "counted"}); err != nil {
			return err
		}
		rt := NewRuntime(tx, reg, WithLogger(quietLogger()))
		for _, id := range []entity.ID{"t1", "t2", "t3"} {
			if err := rt.InsertTask(&entity.Task{ID: id, ProjectID: "p1", Name: string(id)}); err != nil {
				return err
			}
		}
		p, err := tx.GetProject("p1")
		if err != nil {
			return err
		}
		if p.AliasCount != 3 {
			return errors.New("counter not bumped per task")
		}
		return nil
	})
	require.NoError(t, err)
}
