package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// CommentReaction logs comment additions and removals on the owning task
// and keeps comment threads consistent on delete.
type CommentReaction struct {
	ids   entity.IDGenerator
	clock entity.Clock
}

// NewCommentReaction wires the reaction's id and clock sources.
func NewCommentReaction(ids entity.IDGenerator, clock entity.Clock) *CommentReaction {
	return &CommentReaction{ids: ids, clock: clock}
}

// OnInsert logs a comment-added activity on the owning task. A missing
// task means the task is mid-delete; the activity is skipped.
func (r *CommentReaction) OnInsert(rt *trigger.Runtime, ch trigger.Change) error {
	return r.logCommentActivity(rt, ch.New.(*entity.Comment), "created", "added")
}

// OnUpdate is a no-op: comment edits are not cascaded.
func (r *CommentReaction) OnUpdate(rt *trigger.Runtime, ch trigger.Change) error {
	return nil
}

// OnDelete orphans the comment's direct replies (their parent link is
// cleared, they are never deleted) and logs a comment-removed activity on
// the owning task when it still exists.
func (r *CommentReaction) OnDelete(rt *trigger.Runtime, ch trigger.Change) error {
	comment := ch.Old.(*entity.Comment)

	children, err := rt.Tx().CommentsByParent(comment.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		child.ParentID = ""
		if err := rt.UpdateComment(child); err != nil {
			return err
		}
	}

	return r.logCommentActivity(rt, comment, "deleted", "removed")
}

func (r *CommentReaction) logCommentActivity(rt *trigger.Runtime, comment *entity.Comment, action, changeType string) error {
	task, err := taskForComment(rt.Tx(), comment.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}

	activity := &entity.Activity{
		ID:        r.ids.NewID(),
		UserID:    task.UpdatedBy,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Action:    action,
		Payload:   entity.ActivityPayload{Prop: "comment", Type: changeType},
		CreatedAt: r.clock.Now(),
	}
	return rt.Tx().InsertActivity(activity)
}
