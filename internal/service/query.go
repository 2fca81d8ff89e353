package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
)

// TaskDetail is the fully hydrated read model of one task.
type TaskDetail struct {
	Task       *entity.Task
	Comments   []*entity.Comment
	Activities []*entity.Activity
	Outgoing   []*entity.Relation
	Incoming   []*entity.Relation
}

// GetTaskDetail loads a task with its comments, activity log and
// relations in one transaction, so the pieces are mutually consistent.
func (s *Service) GetTaskDetail(ctx context.Context, id entity.ID) (*TaskDetail, error) {
	if _, err := PrincipalFrom(ctx); err != nil {
		return nil, err
	}

	var detail TaskDetail
	err := s.view(ctx, func(tx *store.Tx) error {
		task, err := tx.GetTask(id)
		if err != nil {
			return err
		}
		detail.Task = task

		if detail.Comments, err = tx.CommentsByTask(id); err != nil {
			return err
		}
		if detail.Activities, err = tx.ActivitiesByTask(id); err != nil {
			return err
		}
		if detail.Outgoing, err = tx.RelationsByOutgoing(id); err != nil {
			return err
		}
		detail.Incoming, err = tx.RelationsByIncoming(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchTasks runs a filtered task listing within a project.
func (s *Service) SearchTasks(ctx context.Context, filter store.TaskFilter) ([]*entity.Task, error) {
	if _, err := PrincipalFrom(ctx); err != nil {
		return nil, err
	}
	var tasks []*entity.Task
	err := s.view(ctx, func(tx *store.Tx) error {
		var err error
		tasks, err = tx.SearchTasks(filter)
		return err
	})
	return tasks, err
}

// ProjectOverview is the read model for a project screen.
type ProjectOverview struct {
	Project   *entity.Project
	Tasks     []*entity.Task
	Views     []*entity.View
	Favorites []*entity.Favorite
}

// GetProjectOverview loads a project with its tasks, shared views and the
// caller's favorites.
func (s *Service) GetProjectOverview(ctx context.Context, id entity.ID) (*ProjectOverview, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var overview ProjectOverview
	err = s.view(ctx, func(tx *store.Tx) error {
		project, err := tx.GetProject(id)
		if err != nil {
			return err
		}
		overview.Project = project

		if overview.Tasks, err = tx.TasksByProject(id); err != nil {
			return err
		}
		if overview.Views, err = tx.ViewsByProjectType(id, "view"); err != nil {
			return err
		}
		overview.Favorites, err = tx.FavoritesByUserProject(actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// WorkspaceOverview is the read model for a workspace screen.
type WorkspaceOverview struct {
	Workspace *entity.Workspace
	Projects  []*entity.Project
	Members   []*entity.Member
	Invites   []*entity.Invite
}

// GetWorkspaceOverview loads a workspace with its projects, members and
// open invites.
func (s *Service) GetWorkspaceOverview(ctx context.Context, id entity.ID) (*WorkspaceOverview, error) {
	if _, err := PrincipalFrom(ctx); err != nil {
		return nil, err
	}

	var overview WorkspaceOverview
	err := s.view(ctx, func(tx *store.Tx) error {
		workspace, err := tx.GetWorkspace(id)
		if err != nil {
			return err
		}
		overview.Workspace = workspace

		if overview.Projects, err = tx.ProjectsByWorkspace(id); err != nil {
			return err
		}
		if overview.Members, err = tx.MembersByWorkspace(id); err != nil {
			return err
		}
		overview.Invites, err = tx.InvitesByWorkspace(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// InboxEntry is a notification enriched with its referenced task. Task is
// nil when the reference is no longer resolvable.
type InboxEntry struct {
	*entity.InboxItem
	Task *entity.Task `json:"task,omitempty"`
}

// ListInbox returns the caller's notifications in a project, each joined
// with its referenced task. Snoozed items whose snooze time has not passed
// are filtered out.
func (s *Service) ListInbox(ctx context.Context, projectID entity.ID, unreadOnly bool) ([]InboxEntry, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var entries []InboxEntry
	err = s.view(ctx, func(tx *store.Tx) error {
		all, err := tx.InboxByUserProject(actor, projectID, unreadOnly)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for _, item := range all {
			if item.Snooze > now {
				continue
			}
			entry := InboxEntry{InboxItem: item}
			if item.ReferenceType == "task" {
				task, err := tx.GetTask(item.ReferenceID)
				if err != nil && !store.IsNotFound(err) {
					return err
				}
				entry.Task = task
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// AccessibleProjects returns the projects the caller can see in a
// workspace: every project for admins, the member's access list otherwise.
func (s *Service) AccessibleProjects(ctx context.Context, workspaceID entity.ID) ([]*entity.Project, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var projects []*entity.Project
	err = s.view(ctx, func(tx *store.Tx) error {
		member, err := tx.MemberByWorkspaceUser(workspaceID, actor)
		if store.IsNotFound(err) {
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}
		if member.Removed {
			return ErrUnauthorized
		}

		all, err := tx.ProjectsByWorkspace(workspaceID)
		if err != nil {
			return err
		}
		if member.Role == entity.RoleAdmin {
			projects = all
			return nil
		}
		for _, p := range all {
			if member.HasProject(p.ID) {
				projects = append(projects, p)
			}
		}
		return nil
	})
	return projects, err
}

// WorkspaceMembers lists a workspace's members, hiding soft-removed rows
// unless asked for them.
func (s *Service) WorkspaceMembers(ctx context.Context, workspaceID entity.ID, includeRemoved bool) ([]*entity.Member, error) {
	if _, err := PrincipalFrom(ctx); err != nil {
		return nil, err
	}

	var members []*entity.Member
	err := s.view(ctx, func(tx *store.Tx) error {
		all, err := tx.MembersByWorkspace(workspaceID)
		if err != nil {
			return err
		}
		for _, m := range all {
			if m.Removed && !includeRemoved {
				continue
			}
			members = append(members, m)
		}
		return nil
	})
	return members, err
}

// ProjectViews returns a project's views for the caller: their private
// view first (when one exists), then the shared views.
func (s *Service) ProjectViews(ctx context.Context, projectID entity.ID) ([]*entity.View, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var views []*entity.View
	err = s.view(ctx, func(tx *store.Tx) error {
		own, err := tx.ViewByProjectUserType(projectID, actor, "user")
		if err != nil && !store.IsNotFound(err) {
			return err
		}
		if own != nil {
			views = append(views, own)
		}
		shared, err := tx.ViewsByProjectType(projectID, "view")
		if err != nil {
			return err
		}
		views = append(views, shared...)
		return nil
	})
	return views, err
}

// UserFavorites lists the caller's bookmarks within a project.
func (s *Service) UserFavorites(ctx context.Context, projectID entity.ID) ([]*entity.Favorite, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var favorites []*entity.Favorite
	err = s.view(ctx, func(tx *store.Tx) error {
		var err error
		favorites, err = tx.FavoritesByUserProject(actor, projectID)
		return err
	})
	return favorites, err
}

// ListWorkspaces returns every workspace the caller belongs to.
func (s *Service) ListWorkspaces(ctx context.Context) ([]*entity.Workspace, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return nil, err
	}

	var workspaces []*entity.Workspace
	err = s.view(ctx, func(tx *store.Tx) error {
		members, err := tx.MembersByUser(actor)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.Removed {
				continue
			}
			w, err := tx.GetWorkspace(m.WorkspaceID)
			if store.IsNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			workspaces = append(workspaces, w)
		}
		return nil
	})
	return workspaces, err
}
