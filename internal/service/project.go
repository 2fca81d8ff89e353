package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// ProjectInput is the argument document of CreateProject.
type ProjectInput struct {
	WorkspaceID entity.ID `json:"workspaceId"`
	Name        string    `json:"name"`
	Alias       string    `json:"alias,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ProjectPatch lists the updatable project fields. Nil fields are
// untouched. Catalog slices replace wholesale; entries are soft-deleted
// through UnsetProjectFeature, never dropped from the list.
type ProjectPatch struct {
	Name        *string
	Alias       *string
	Icon        *string
	Color       *string
	Description *string
	Status      *[]entity.ProjectStatus
	Label       *[]entity.ProjectLabel
	Module      *[]entity.ProjectModule
	Cycle       *[]entity.ProjectCycle
	StoryPoints *[]int
}

// defaultStoryPoints is the Fibonacci scale new projects start with.
var defaultStoryPoints = []int{0, 1, 2, 3, 5, 8, 13, 21}

// defaultStatuses builds the status catalog every new project starts
// with. Entry ids come from the service id generator so tasks can hold
// stable weak references.
func (s *Service) defaultStatuses() []entity.ProjectStatus {
	return []entity.ProjectStatus{
		{ID: string(s.ids.NewID()), Name: "Backlog", Color: "#6366F1", Group: entity.GroupBacklog},
		{ID: string(s.ids.NewID()), Name: "Todo", Color: "#8B5CF6", Group: entity.GroupTodo},
		{ID: string(s.ids.NewID()), Name: "On Progress", Color: "#EC4899", Group: entity.GroupInProgress},
		{ID: string(s.ids.NewID()), Name: "Completed", Color: "#10B981", Group: entity.GroupDone},
		{ID: string(s.ids.NewID()), Name: "Cancelled", Color: "#EF4444", Group: entity.GroupCancelled},
	}
}

// CreateProject validates the input, creates the project with its default
// feature catalogs, grants the creator access, and seeds three onboarding
// tasks through the normal task create path (so each gets an alias and a
// created activity). Returns the new project id.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}
	if err := schema.Validate(schema.ProjectInput, in); err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "project.create", func(rt *trigger.Runtime) error {
		project, err := s.createProject(rt, actor, in)
		if err != nil {
			return err
		}
		id = project.ID
		return nil
	})
	return id, err
}

// createProject is the shared create path, also used when a new workspace
// seeds its first project.
func (s *Service) createProject(rt *trigger.Runtime, actor entity.ID, in ProjectInput) (*entity.Project, error) {
	alias := in.Alias
	if alias == "" {
		alias = DeriveAlias(in.Name)
	}

	now := s.clock.Now()
	project := &entity.Project{
		ID:          s.ids.NewID(),
		WorkspaceID: in.WorkspaceID,
		Name:        in.Name,
		Alias:       alias,
		Icon:        in.Icon,
		Color:       in.Color,
		Description: in.Description,
		Status:      s.defaultStatuses(),
		Label: []entity.ProjectLabel{
			{ID: string(s.ids.NewID()), Name: "Feature", Color: "#6366F1"},
		},
		StoryPoints: defaultStoryPoints,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rt.InsertProject(project); err != nil {
		return nil, err
	}

	// Grant the creator access. Admins see every project regardless, but
	// the scenario of a fresh workspace expects the list to be explicit.
	member, err := rt.Tx().MemberByWorkspaceUser(in.WorkspaceID, actor)
	switch {
	case store.IsNotFound(err):
		// Creator has no member row (owner bootstrap path); nothing to patch.
	case err != nil:
		return nil, err
	default:
		member.Projects = append(member.Projects, project.ID)
		member.UpdatedAt = now
		if err := rt.Tx().UpdateMember(member); err != nil {
			return nil, err
		}
	}

	if err := s.seedOnboardingTasks(rt, actor, project); err != nil {
		return nil, err
	}
	return project, nil
}

// seedOnboardingTasks creates the three starter tasks of a new project.
func (s *Service) seedOnboardingTasks(rt *trigger.Runtime, actor entity.ID, project *entity.Project) error {
	backlog := project.Status[0].ID
	todo := project.Status[1].ID

	seeds := []TaskInput{
		{
			ProjectID:   project.ID,
			Name:        "Welcome",
			Description: "This is your first task. Open it to see how statuses, assignees and comments work.",
			Status:      todo,
			Priority:    entity.PriorityMedium,
			Position:    1,
		},
		{
			ProjectID: project.ID,
			Name:      "Organize your project",
			Status:    backlog,
			Priority:  entity.PriorityHigh,
			Position:  2,
		},
		{
			ProjectID: project.ID,
			Name:      "Invite team members",
			Status:    todo,
			Priority:  entity.PriorityLow,
			Position:  3,
		},
	}
	for _, seed := range seeds {
		if _, err := s.createTask(rt, actor, seed); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProject applies a patch to a project.
func (s *Service) UpdateProject(ctx context.Context, id entity.ID, patch ProjectPatch) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "project.update", func(rt *trigger.Runtime) error {
		project, err := rt.Tx().GetProject(id)
		if err != nil {
			return err
		}
		applyProjectPatch(project, patch)
		project.UpdatedAt = s.clock.Now()
		return rt.UpdateProject(project)
	})
}

func applyProjectPatch(project *entity.Project, patch ProjectPatch) {
	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Alias != nil {
		project.Alias = *patch.Alias
	}
	if patch.Icon != nil {
		project.Icon = *patch.Icon
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Label != nil {
		project.Label = *patch.Label
	}
	if patch.Module != nil {
		project.Module = *patch.Module
	}
	if patch.Cycle != nil {
		project.Cycle = *patch.Cycle
	}
	if patch.StoryPoints != nil {
		project.StoryPoints = *patch.StoryPoints
	}
}

// RemoveProject deletes a project; its cascade purges views, tasks,
// invites and favorites and strips the project from member access lists.
func (s *Service) RemoveProject(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "project.remove", func(rt *trigger.Runtime) error {
		return rt.DeleteProject(id)
	})
}

// UnsetProjectFeature soft-deletes one catalog entry (status, label,
// module or cycle) and clears the reference from every task that used it.
// Task patches go through the runtime, so the clearing shows up in each
// task's activity log.
func (s *Service) UnsetProjectFeature(ctx context.Context, projectID entity.ID, feature, featureID string) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}

	return s.mutate(ctx, "project.unsetFeature", func(rt *trigger.Runtime) error {
		project, err := rt.Tx().GetProject(projectID)
		if err != nil {
			return err
		}

		found := false
		switch feature {
		case "status":
			for i := range project.Status {
				if project.Status[i].ID == featureID {
					project.Status[i].Deleted = true
					found = true
				}
			}
		case "label":
			for i := range project.Label {
				if project.Label[i].ID == featureID {
					project.Label[i].Deleted = true
					found = true
				}
			}
		case "module":
			for i := range project.Module {
				if project.Module[i].ID == featureID {
					project.Module[i].Deleted = true
					found = true
				}
			}
		case "cycle":
			for i := range project.Cycle {
				if project.Cycle[i].ID == featureID {
					project.Cycle[i].Deleted = true
					found = true
				}
			}
		default:
			return invariant("unknown project feature %q", feature)
		}
		if !found {
			return invariant("project %s has no %s entry %s", projectID, feature, featureID)
		}

		project.UpdatedAt = s.clock.Now()
		if err := rt.UpdateProject(project); err != nil {
			return err
		}

		tasks, err := rt.Tx().TasksByProject(projectID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			cleared := false
			switch feature {
			case "status":
				if task.Status == featureID {
					task.Status = ""
					cleared = true
				}
			case "label":
				if task.Label == featureID {
					task.Label = ""
					cleared = true
				}
			case "module":
				if task.Module == featureID {
					task.Module = ""
					cleared = true
				}
			case "cycle":
				if task.Cycle == featureID {
					task.Cycle = ""
					cleared = true
				}
			}
			if !cleared {
				continue
			}
			task.UpdatedAt = s.clock.Now()
			task.UpdatedBy = actor
			if err := rt.UpdateTask(task); err != nil {
				return err
			}
		}
		return nil
	})
}
