package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// fanout inserts one inbox row per assignee, skipping the actor. All rows
// of one fanout share the same timestamp. The inbox collection is
// unwatched, so rows go straight to the transaction.
func fanout(rt *trigger.Runtime, ids entity.IDGenerator, now int64,
	assignees []entity.ID, actor, taskID, projectID entity.ID, action, feature string) error {

	for _, assignee := range assignees {
		if assignee == actor {
			continue
		}
		item := &entity.InboxItem{
			ID:            ids.NewID(),
			UserID:        assignee,
			ReferenceID:   taskID,
			ReferenceType: "task",
			ProjectID:     projectID,
			Action:        action,
			Feature:       feature,
			IsRead:        false,
			Archive:       false,
			Unsubscribe:   false,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := rt.Tx().InsertInboxItem(item); err != nil {
			return err
		}
	}
	return nil
}
