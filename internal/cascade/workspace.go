package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// WorkspaceReaction tears down a workspace's projects, members and
// invites when the workspace is deleted.
type WorkspaceReaction struct{}

// NewWorkspaceReaction returns the workspace delete cascade.
func NewWorkspaceReaction() *WorkspaceReaction { return &WorkspaceReaction{} }

func (r *WorkspaceReaction) OnInsert(rt *trigger.Runtime, ch trigger.Change) error { return nil }
func (r *WorkspaceReaction) OnUpdate(rt *trigger.Runtime, ch trigger.Change) error { return nil }

// OnDelete deletes the workspace's projects through the runtime, so each
// project runs its own cascade (tasks, views, favorites, member access
// lists), then bulk-removes members and invites.
func (r *WorkspaceReaction) OnDelete(rt *trigger.Runtime, ch trigger.Change) error {
	workspace := ch.Old.(*entity.Workspace)
	tx := rt.Tx()

	projects, err := tx.ProjectsByWorkspace(workspace.ID)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if err := rt.DeleteProject(p.ID); err != nil {
			return err
		}
	}

	if _, err := tx.DeleteMembersByWorkspace(workspace.ID); err != nil {
		return err
	}
	if _, err := tx.DeleteInvitesByWorkspace(workspace.ID); err != nil {
		return err
	}
	return nil
}
