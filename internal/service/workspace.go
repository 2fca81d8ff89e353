package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// WorkspaceInput is the argument document of CreateWorkspace.
type WorkspaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WorkspacePatch lists the updatable workspace fields.
type WorkspacePatch struct {
	Name        *string
	Description *string
}

// PlanPatch updates a workspace's billing plan fields.
type PlanPatch struct {
	Plan         string
	Members      int
	Seats        int
	BillingCycle string
}

// CreateWorkspaceResult reports the documents a workspace bootstrap
// produced: the workspace, its admin member row, and the seeded project.
type CreateWorkspaceResult struct {
	WorkspaceID entity.ID
	MemberID    entity.ID
	ProjectID   entity.ID
}

// CreateWorkspace bootstraps a workspace for the caller: the workspace
// document, an admin member row, and a first project (which seeds its own
// onboarding tasks). One transaction covers all of it.
func (s *Service) CreateWorkspace(ctx context.Context, in WorkspaceInput) (CreateWorkspaceResult, error) {
	var result CreateWorkspaceResult

	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return result, err
	}
	if err := schema.Validate(schema.WorkspaceInput, in); err != nil {
		return result, err
	}

	err = s.mutate(ctx, "workspace.create", func(rt *trigger.Runtime) error {
		now := s.clock.Now()
		workspace := &entity.Workspace{
			ID:          s.ids.NewID(),
			Name:        in.Name,
			Description: in.Description,
			UserID:      actor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := rt.InsertWorkspace(workspace); err != nil {
			return err
		}

		member := &entity.Member{
			ID:          s.ids.NewID(),
			WorkspaceID: workspace.ID,
			UserID:      actor,
			Role:        entity.RoleAdmin,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := rt.Tx().InsertMember(member); err != nil {
			return err
		}

		project, err := s.createProject(rt, actor, ProjectInput{
			WorkspaceID: workspace.ID,
			Name:        in.Name,
		})
		if err != nil {
			return err
		}

		result = CreateWorkspaceResult{
			WorkspaceID: workspace.ID,
			MemberID:    member.ID,
			ProjectID:   project.ID,
		}
		return nil
	})
	return result, err
}

// UpdateWorkspace applies a patch to a workspace.
func (s *Service) UpdateWorkspace(ctx context.Context, id entity.ID, patch WorkspacePatch) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "workspace.update", func(rt *trigger.Runtime) error {
		workspace, err := rt.Tx().GetWorkspace(id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			workspace.Name = *patch.Name
		}
		if patch.Description != nil {
			workspace.Description = *patch.Description
		}
		workspace.UpdatedAt = s.clock.Now()
		return rt.UpdateWorkspace(workspace)
	})
}

// UpdateWorkspacePlan replaces the billing plan fields.
func (s *Service) UpdateWorkspacePlan(ctx context.Context, id entity.ID, plan PlanPatch) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "workspace.updatePlan", func(rt *trigger.Runtime) error {
		workspace, err := rt.Tx().GetWorkspace(id)
		if err != nil {
			return err
		}
		workspace.Plan = plan.Plan
		workspace.PlanMembers = plan.Members
		workspace.PlanSeats = plan.Seats
		workspace.PlanBillingCycle = plan.BillingCycle
		workspace.UpdatedAt = s.clock.Now()
		return rt.UpdateWorkspace(workspace)
	})
}

// RemoveWorkspace deletes a workspace. Its cascade deletes every project
// through the runtime (each running its own cascade), then the members
// and invites.
func (s *Service) RemoveWorkspace(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "workspace.remove", func(rt *trigger.Runtime) error {
		return rt.DeleteWorkspace(id)
	})
}
