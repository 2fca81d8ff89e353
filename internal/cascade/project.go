package cascade

import (
	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// ProjectReaction tears down everything scoped to a project when the
// project goes away. Inserts and updates carry no derived state.
type ProjectReaction struct{}

// NewProjectReaction returns the project delete cascade.
func NewProjectReaction() *ProjectReaction { return &ProjectReaction{} }

func (r *ProjectReaction) OnInsert(rt *trigger.Runtime, ch trigger.Change) error { return nil }
func (r *ProjectReaction) OnUpdate(rt *trigger.Runtime, ch trigger.Change) error { return nil }

// OnDelete purges the project's views, tasks, invites and favorites, and
// strips the project from every member's access list. Tasks go through
// the runtime so each one runs its full delete cascade.
func (r *ProjectReaction) OnDelete(rt *trigger.Runtime, ch trigger.Change) error {
	project := ch.Old.(*entity.Project)
	tx := rt.Tx()

	if _, err := tx.DeleteViewsByProject(project.ID); err != nil {
		return err
	}

	tasks, err := tx.TasksByProject(project.ID)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := rt.DeleteTask(task.ID); err != nil {
			return err
		}
	}

	if _, err := tx.DeleteInvitesByProject(project.ID); err != nil {
		return err
	}
	if _, err := tx.DeleteFavoritesByProject(project.ID); err != nil {
		return err
	}

	members, err := tx.MembersByWorkspace(project.WorkspaceID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if !m.HasProject(project.ID) {
			continue
		}
		kept := m.Projects[:0]
		for _, p := range m.Projects {
			if p != project.ID {
				kept = append(kept, p)
			}
		}
		m.Projects = kept
		if err := tx.UpdateMember(m); err != nil {
			return err
		}
	}
	return nil
}
