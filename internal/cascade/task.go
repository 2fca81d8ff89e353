package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// TaskReaction maintains the task-scoped derived state: the activity log,
// assignee inbox fanout, and the delete cascade over everything hanging
// off a task.
type TaskReaction struct {
	ids   entity.IDGenerator
	clock entity.Clock
}

// NewTaskReaction wires the reaction's id and clock sources.
func NewTaskReaction(ids entity.IDGenerator, clock entity.Clock) *TaskReaction {
	return &TaskReaction{ids: ids, clock: clock}
}

// OnInsert logs a "created" activity and notifies every assignee except
// the actor.
func (r *TaskReaction) OnInsert(rt *trigger.Runtime, ch trigger.Change) error {
	task := ch.New.(*entity.Task)
	now := r.clock.Now()

	activity := &entity.Activity{
		ID:        r.ids.NewID(),
		UserID:    task.UpdatedBy,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Action:    "created",
		CreatedAt: now,
	}
	if err := rt.Tx().InsertActivity(activity); err != nil {
		return err
	}

	return fanout(rt, r.ids, now, task.UserIDs, task.UpdatedBy,
		task.ID, task.ProjectID, "created", "created")
}

// OnUpdate walks the tracked-field table, logging one activity per changed
// property (or per added/removed list item) and fanning out one inbox
// batch per notifying field. Every activity of one update shares a
// timestamp and the "updated" action.
func (r *TaskReaction) OnUpdate(rt *trigger.Runtime, ch trigger.Change) error {
	oldTask := ch.Old.(*entity.Task)
	newTask := ch.New.(*entity.Task)
	now := r.clock.Now()
	actor := newTask.UpdatedBy

	for _, field := range taskFields {
		change := field.diff(oldTask, newTask)
		for _, payload := range change.payloads {
			activity := &entity.Activity{
				ID:        r.ids.NewID(),
				UserID:    actor,
				TaskID:    newTask.ID,
				ProjectID: newTask.ProjectID,
				Action:    "updated",
				Payload:   payload,
				CreatedAt: now,
			}
			if err := rt.Tx().InsertActivity(activity); err != nil {
				return err
			}
		}
		if change.notify {
			if err := fanout(rt, r.ids, now, newTask.UserIDs, actor,
				newTask.ID, newTask.ProjectID, "updated", field.prop); err != nil {
				return err
			}
		}
	}
	return nil
}

// OnDelete removes everything hanging off the task and orphans its
// children. Activities go first: the comment reactions that run when the
// comments are deleted skip their activity writes once the task row is
// gone, so nothing is appended after the purge.
func (r *TaskReaction) OnDelete(rt *trigger.Runtime, ch trigger.Change) error {
	task := ch.Old.(*entity.Task)
	tx := rt.Tx()

	if _, err := tx.DeleteActivitiesByTask(task.ID); err != nil {
		return err
	}
	if _, err := tx.DeleteInboxByReference(task.ID); err != nil {
		return err
	}
	if _, err := tx.DeleteRelationsByOutgoing(task.ID); err != nil {
		return err
	}
	if _, err := tx.DeleteRelationsByIncoming(task.ID); err != nil {
		return err
	}

	// Comments go through the runtime so their own reactions fire.
	comments, err := tx.CommentsByTask(task.ID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := rt.DeleteComment(c.ID); err != nil {
			return err
		}
	}

	// Children become root tasks, they are never deleted with the parent.
	children, err := tx.TasksByParent(task.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		child.ParentID = ""
		if err := rt.UpdateTask(child); err != nil {
			return err
		}
	}
	return nil
}

// taskForComment loads the task a comment belongs to, treating a missing
// task as absent rather than an error.
func taskForComment(tx *store.Tx, taskID entity.ID) (*entity.Task, error) {
	task, err := tx.GetTask(taskID)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}
