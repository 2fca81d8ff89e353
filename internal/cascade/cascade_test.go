package cascade

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/testutil"
	"github.com/workstreamhq/workstream/internal/trigger"
)

type fixture struct {
	store *store.Store
	reg   *trigger.Registry
	clock *testutil.FixedClock
	ids   *testutil.SeqIDGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cascade_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{
		store: s,
		reg:   trigger.NewRegistry(),
		clock: testutil.NewFixedClock(1_700_000_000_000),
		ids:   testutil.NewSeqIDGenerator("gen"),
	}
	require.NoError(t, Register(f.reg, f.ids, f.clock))
	return f
}

// run executes fn with a runtime inside one committed transaction.
func (f *fixture) run(t *testing.T, fn func(rt *trigger.Runtime) error) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := f.store.WithTx(context.Background(), func(tx *store.Tx) error {
		return fn(trigger.NewRuntime(tx, f.reg, trigger.WithLogger(logger)))
	})
	require.NoError(t, err)
}

// read executes fn inside a read-only transaction.
func (f *fixture) read(t *testing.T, fn func(tx *store.Tx) error) {
	t.Helper()
	require.NoError(t, f.store.WithTx(context.Background(), fn))
}

// seed writes documents directly, bypassing reactions.
func (f *fixture) seed(t *testing.T, fn func(tx *store.Tx) error) {
	t.Helper()
	require.NoError(t, f.store.WithTx(context.Background(), fn))
}

func TestTaskInsertLogsCreationAndNotifiesAssignees(t *testing.T) {
	f := newFixture(t)

	f.run(t, func(rt *trigger.Runtime) error {
		return rt.InsertTask(&entity.Task{
			ID:        "t1",
			ProjectID: "p1",
			Name:      "ship it",
			UserIDs:   []entity.ID{"u1", "u2"},
			UpdatedBy: "u1",
		})
	})

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "created", activities[0].Action)
		assert.Equal(t, entity.ID("u1"), activities[0].UserID)

		// The actor is excluded from the fanout.
		actorInbox, err := tx.InboxByUserProject("u1", "p1", false)
		require.NoError(t, err)
		assert.Empty(t, actorInbox)

		otherInbox, err := tx.InboxByUserProject("u2", "p1", false)
		require.NoError(t, err)
		require.Len(t, otherInbox, 1)
		assert.Equal(t, entity.ID("t1"), otherInbox[0].ReferenceID)
		assert.Equal(t, "task", otherInbox[0].ReferenceType)
		assert.Equal(t, "created", otherInbox[0].Feature)
		assert.False(t, otherInbox[0].IsRead)
		return nil
	})
}

func TestTaskUpdateLogsOneActivityPerChangedField(t *testing.T) {
	f := newFixture(t)

	task := &entity.Task{
		ID: "t1", ProjectID: "p1", Name: "ship it",
		Status: "todo", Priority: entity.PriorityLow, UpdatedBy: "u1",
	}
	f.seed(t, func(tx *store.Tx) error { return tx.InsertTask(task) })

	updated := *task
	updated.Status = "done"
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&updated) })

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "updated", activities[0].Action)
		assert.Equal(t, "status", activities[0].Payload.Prop)
		assert.Equal(t, "updated", activities[0].Payload.Type)
		assert.Equal(t, "done", activities[0].Payload.Value)
		return nil
	})

	// Two more fields in one update: one activity each, same timestamp.
	again := updated
	again.Name = "ship it now"
	again.Priority = entity.PriorityUrgent
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&again) })

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, "name", activities[1].Payload.Prop)
		assert.Equal(t, "priority", activities[2].Payload.Prop)
		assert.Equal(t, activities[1].CreatedAt, activities[2].CreatedAt)
		return nil
	})
}

func TestTaskUpdateAttachmentRenameNotifiesAssignees(t *testing.T) {
	f := newFixture(t)

	task := &entity.Task{
		ID: "t1", ProjectID: "p1", Name: "ship it",
		UserIDs:   []entity.ID{"u1", "u2"},
		UpdatedBy: "u1",
		Attachments: []entity.Attachment{
			{ID: "att1", Name: "old.pdf", URL: "https://x/old.pdf"},
		},
	}
	f.seed(t, func(tx *store.Tx) error { return tx.InsertTask(task) })

	updated := *task
	updated.Attachments = []entity.Attachment{
		{ID: "att1", Name: "new.pdf", URL: "https://x/new.pdf"},
	}
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&updated) })

	f.read(t, func(tx *store.Tx) error {
		// Renaming in place adds or removes nothing, so no activity.
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		assert.Empty(t, activities)

		// The list changed, so the other assignee is still notified.
		inbox, err := tx.InboxByUserProject("u2", "p1", false)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		assert.Equal(t, "attachments", inbox[0].Feature)
		assert.Equal(t, "updated", inbox[0].Action)

		actorInbox, err := tx.InboxByUserProject("u1", "p1", false)
		require.NoError(t, err)
		assert.Empty(t, actorInbox)
		return nil
	})
}

func TestTaskUpdateDescriptionIsRedacted(t *testing.T) {
	f := newFixture(t)

	task := &entity.Task{ID: "t1", ProjectID: "p1", Name: "quiet", UpdatedBy: "u1"}
	f.seed(t, func(tx *store.Tx) error { return tx.InsertTask(task) })

	updated := *task
	updated.Description = `hello <span data-user="u7">@seven</span>`
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&updated) })

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "description", activities[0].Payload.Prop)
		assert.Equal(t, "added", activities[0].Payload.Type)
		assert.Nil(t, activities[0].Payload.Value)
		return nil
	})
}

func TestTaskUpdateAssigneeAdditionNotifiesOnlyNewAssignee(t *testing.T) {
	f := newFixture(t)

	task := &entity.Task{
		ID: "t1", ProjectID: "p1", Name: "staffed",
		UserIDs: []entity.ID{"u1"}, UpdatedBy: "u1",
	}
	f.seed(t, func(tx *store.Tx) error { return tx.InsertTask(task) })

	updated := *task
	updated.UserIDs = []entity.ID{"u1", "u2"}
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&updated) })

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, entity.ActivityPayload{Prop: "userIds", Type: "added", Value: "u2"}, activities[0].Payload)

		inbox, err := tx.InboxByUserProject("u2", "p1", false)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		assert.Equal(t, "userIds", inbox[0].Feature)

		actorInbox, err := tx.InboxByUserProject("u1", "p1", false)
		require.NoError(t, err)
		assert.Empty(t, actorInbox)
		return nil
	})

	// Removing an assignee logs the change but notifies nobody.
	again := updated
	again.UserIDs = []entity.ID{"u1"}
	f.run(t, func(rt *trigger.Runtime) error { return rt.UpdateTask(&again) })

	f.read(t, func(tx *store.Tx) error {
		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "removed", activities[1].Payload.Type)

		inbox, err := tx.InboxByUserProject("u2", "p1", false)
		require.NoError(t, err)
		assert.Len(t, inbox, 1) // unchanged
		return nil
	})
}

func TestTaskDeletePurgesEverythingAndOrphansChildren(t *testing.T) {
	f := newFixture(t)

	f.seed(t, func(tx *store.Tx) error {
		if err := tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "doomed", UpdatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertTask(&entity.Task{ID: "t2", ProjectID: "p1", ParentID: "t1", Name: "child", UpdatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertTask(&entity.Task{ID: "t3", ProjectID: "p1", Name: "peer", UpdatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertComment(&entity.Comment{ID: "c1", TaskID: "t1", UserID: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertComment(&entity.Comment{ID: "c2", TaskID: "t1", ParentID: "c1", UserID: "u2"}); err != nil {
			return err
		}
		if err := tx.InsertActivity(&entity.Activity{ID: "a1", TaskID: "t1", ProjectID: "p1", UserID: "u1", Action: "created"}); err != nil {
			return err
		}
		if err := tx.InsertInboxItem(&entity.InboxItem{ID: "n1", UserID: "u2", ReferenceID: "t1", ReferenceType: "task", ProjectID: "p1"}); err != nil {
			return err
		}
		if err := tx.InsertRelation(&entity.Relation{ID: "r1", OutgoingID: "t1", IncomingID: "t3", Type: entity.RelationBlocking}); err != nil {
			return err
		}
		return tx.InsertRelation(&entity.Relation{ID: "r2", OutgoingID: "t3", IncomingID: "t1", Type: entity.RelationWaitingOn})
	})

	f.run(t, func(rt *trigger.Runtime) error { return rt.DeleteTask("t1") })

	f.read(t, func(tx *store.Tx) error {
		_, err := tx.GetTask("t1")
		assert.True(t, store.IsNotFound(err))

		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		assert.Empty(t, activities)

		comments, err := tx.CommentsByTask("t1")
		require.NoError(t, err)
		assert.Empty(t, comments)

		inbox, err := tx.InboxByReference("t1")
		require.NoError(t, err)
		assert.Empty(t, inbox)

		outgoing, err := tx.RelationsByOutgoing("t1")
		require.NoError(t, err)
		assert.Empty(t, outgoing)
		incoming, err := tx.RelationsByIncoming("t1")
		require.NoError(t, err)
		assert.Empty(t, incoming)

		// The child survives as a root task.
		child, err := tx.GetTask("t2")
		require.NoError(t, err)
		assert.True(t, child.ParentID.IsZero())

		// The unrelated peer keeps its row.
		_, err = tx.GetTask("t3")
		return err
	})
}

func TestCommentInsertAndDeleteLogOnOwningTask(t *testing.T) {
	f := newFixture(t)

	f.seed(t, func(tx *store.Tx) error {
		return tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "discussed", UpdatedBy: "u1"})
	})

	f.run(t, func(rt *trigger.Runtime) error {
		if err := rt.InsertComment(&entity.Comment{ID: "c1", TaskID: "t1", UserID: "u2", Content: "top"}); err != nil {
			return err
		}
		return rt.InsertComment(&entity.Comment{ID: "c2", TaskID: "t1", ParentID: "c1", UserID: "u3", Content: "reply"})
	})

	f.run(t, func(rt *trigger.Runtime) error { return rt.DeleteComment("c1") })

	f.read(t, func(tx *store.Tx) error {
		// Reply survives, orphaned to the thread root.
		reply, err := tx.GetComment("c2")
		require.NoError(t, err)
		assert.True(t, reply.ParentID.IsZero())

		activities, err := tx.ActivitiesByTask("t1")
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, "created", activities[0].Action)
		assert.Equal(t, entity.ActivityPayload{Prop: "comment", Type: "added"}, activities[0].Payload)
		assert.Equal(t, "deleted", activities[2].Action)
		assert.Equal(t, entity.ActivityPayload{Prop: "comment", Type: "removed"}, activities[2].Payload)
		return nil
	})
}

func TestProjectDeleteCascades(t *testing.T) {
	f := newFixture(t)

	f.seed(t, func(tx *store.Tx) error {
		if err := tx.InsertProject(&entity.Project{ID: "p1", WorkspaceID: "w1", Name: "sunset"}); err != nil {
			return err
		}
		if err := tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "orphaned work", UpdatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertComment(&entity.Comment{ID: "c1", TaskID: "t1", UserID: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertView(&entity.View{ID: "v1", ProjectID: "p1", Type: "view"}); err != nil {
			return err
		}
		if err := tx.InsertInvite(&entity.Invite{ID: "i1", WorkspaceID: "w1", ProjectID: "p1", Email: "a@b.c", Status: entity.InvitePending}); err != nil {
			return err
		}
		if err := tx.InsertFavorite(&entity.Favorite{ID: "f1", UserID: "u1", ProjectID: "p1"}); err != nil {
			return err
		}
		return tx.InsertMember(&entity.Member{
			ID: "m1", WorkspaceID: "w1", UserID: "u1",
			Role: entity.RoleMember, Projects: []entity.ID{"p1", "p9"},
		})
	})

	f.run(t, func(rt *trigger.Runtime) error { return rt.DeleteProject("p1") })

	f.read(t, func(tx *store.Tx) error {
		_, err := tx.GetProject("p1")
		assert.True(t, store.IsNotFound(err))

		tasks, err := tx.TasksByProject("p1")
		require.NoError(t, err)
		assert.Empty(t, tasks)

		comments, err := tx.CommentsByTask("t1")
		require.NoError(t, err)
		assert.Empty(t, comments)

		views, err := tx.ViewsByProjectType("p1", "view")
		require.NoError(t, err)
		assert.Empty(t, views)

		_, err = tx.GetInvite("i1")
		assert.True(t, store.IsNotFound(err))

		favorites, err := tx.FavoritesByProject("p1")
		require.NoError(t, err)
		assert.Empty(t, favorites)

		member, err := tx.GetMember("m1")
		require.NoError(t, err)
		assert.Equal(t, []entity.ID{"p9"}, member.Projects)
		return nil
	})
}

func TestWorkspaceDeleteCascadesThroughProjects(t *testing.T) {
	f := newFixture(t)

	f.seed(t, func(tx *store.Tx) error {
		if err := tx.InsertWorkspace(&entity.Workspace{ID: "w1", Name: "gone", UserID: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertProject(&entity.Project{ID: "p1", WorkspaceID: "w1", Name: "first"}); err != nil {
			return err
		}
		if err := tx.InsertProject(&entity.Project{ID: "p2", WorkspaceID: "w1", Name: "second"}); err != nil {
			return err
		}
		if err := tx.InsertTask(&entity.Task{ID: "t1", ProjectID: "p1", Name: "deep", UpdatedBy: "u1"}); err != nil {
			return err
		}
		if err := tx.InsertMember(&entity.Member{ID: "m1", WorkspaceID: "w1", UserID: "u1", Role: entity.RoleAdmin}); err != nil {
			return err
		}
		return tx.InsertInvite(&entity.Invite{ID: "i1", WorkspaceID: "w1", Email: "x@y.z", Status: entity.InvitePending})
	})

	f.run(t, func(rt *trigger.Runtime) error { return rt.DeleteWorkspace("w1") })

	f.read(t, func(tx *store.Tx) error {
		_, err := tx.GetWorkspace("w1")
		assert.True(t, store.IsNotFound(err))

		projects, err := tx.ProjectsByWorkspace("w1")
		require.NoError(t, err)
		assert.Empty(t, projects)

		// The nested task cascade ran: no task survives the project.
		_, err = tx.GetTask("t1")
		assert.True(t, store.IsNotFound(err))

		members, err := tx.MembersByWorkspace("w1")
		require.NoError(t, err)
		assert.Empty(t, members)

		invites, err := tx.InvitesByWorkspace("w1")
		require.NoError(t, err)
		assert.Empty(t, invites)
		return nil
	})
}
