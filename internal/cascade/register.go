package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// Register binds the full reaction set to a registry. This is the single
// place the watched-collection list is defined.
func Register(reg *trigger.Registry, ids entity.IDGenerator, clock entity.Clock) error {
	if err := reg.Register(entity.Tasks, NewTaskReaction(ids, clock)); err != nil {
		return err
	}
	if err := reg.Register(entity.Comments, NewCommentReaction(ids, clock)); err != nil {
		return err
	}
	if err := reg.Register(entity.Projects, NewProjectReaction()); err != nil {
		return err
	}
	return reg.Register(entity.Workspaces, NewWorkspaceReaction())
}
