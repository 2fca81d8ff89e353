package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// UpdateMemberRole changes a member's workspace role.
func (s *Service) UpdateMemberRole(ctx context.Context, id entity.ID, role entity.Role) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	if !role.Valid() {
		return invariant("unknown role %q", role)
	}
	return s.mutate(ctx, "member.updateRole", func(rt *trigger.Runtime) error {
		member, err := rt.Tx().GetMember(id)
		if err != nil {
			return err
		}
		member.Role = role
		member.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateMember(member)
	})
}

// GrantMemberProject adds a project to a member's access list.
func (s *Service) GrantMemberProject(ctx context.Context, id, projectID entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "member.grantProject", func(rt *trigger.Runtime) error {
		member, err := rt.Tx().GetMember(id)
		if err != nil {
			return err
		}
		if member.HasProject(projectID) {
			return nil
		}
		if _, err := rt.Tx().GetProject(projectID); err != nil {
			return err
		}
		member.Projects = append(member.Projects, projectID)
		member.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateMember(member)
	})
}

// RevokeMemberProject removes a project from a member's access list.
func (s *Service) RevokeMemberProject(ctx context.Context, id, projectID entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "member.revokeProject", func(rt *trigger.Runtime) error {
		member, err := rt.Tx().GetMember(id)
		if err != nil {
			return err
		}
		kept := member.Projects[:0]
		for _, p := range member.Projects {
			if p != projectID {
				kept = append(kept, p)
			}
		}
		member.Projects = kept
		member.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateMember(member)
	})
}

// ReactivateMember clears the soft-delete flag on a removed member.
func (s *Service) ReactivateMember(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "member.reactivate", func(rt *trigger.Runtime) error {
		member, err := rt.Tx().GetMember(id)
		if err != nil {
			return err
		}
		if !member.Removed {
			return nil
		}
		member.Removed = false
		member.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateMember(member)
	})
}

// RemoveMember soft-deletes a member row; the row survives for history.
func (s *Service) RemoveMember(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "member.remove", func(rt *trigger.Runtime) error {
		member, err := rt.Tx().GetMember(id)
		if err != nil {
			return err
		}
		member.Removed = true
		member.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateMember(member)
	})
}
