package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// inviteTTL is how long an invite stays acceptable, in milliseconds.
const inviteTTL = 7 * 24 * 60 * 60 * 1000

// InviteInput is the argument document of CreateInvite.
type InviteInput struct {
	WorkspaceID entity.ID   `json:"workspaceId"`
	ProjectID   entity.ID   `json:"projectId,omitempty"`
	Email       string      `json:"email"`
	Role        entity.Role `json:"role"`
	Message     string      `json:"message,omitempty"`
}

// CreateInvite validates and stores a pending invite expiring in seven
// days. A pending invite for the same workspace and email is a conflict
// the caller must resolve first.
func (s *Service) CreateInvite(ctx context.Context, in InviteInput) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}
	if err := schema.Validate(schema.InviteInput, in); err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "invite.create", func(rt *trigger.Runtime) error {
		if _, err := rt.Tx().GetWorkspace(in.WorkspaceID); err != nil {
			return err
		}

		existing, err := rt.Tx().InvitesByEmail(in.Email)
		if err != nil {
			return err
		}
		for _, inv := range existing {
			if inv.WorkspaceID == in.WorkspaceID && inv.Status == entity.InvitePending {
				return invariant("a pending invite for %s already exists", in.Email)
			}
		}

		now := s.clock.Now()
		invite := &entity.Invite{
			ID:          s.ids.NewID(),
			WorkspaceID: in.WorkspaceID,
			ProjectID:   in.ProjectID,
			Email:       in.Email,
			Role:        in.Role,
			InvitedBy:   actor,
			Status:      entity.InvitePending,
			Message:     in.Message,
			CreatedAt:   now,
			ExpiresAt:   now + inviteTTL,
		}
		id = invite.ID
		return rt.Tx().InsertInvite(invite)
	})
	return id, err
}

// AcceptInvite turns a pending invite into workspace membership for the
// caller. Accepting a settled or expired invite is an invariant
// violation; an invite past its expiry is marked expired on the way out.
func (s *Service) AcceptInvite(ctx context.Context, id entity.ID) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}

	// Expiry is committed even though acceptance fails, so the invite
	// shows up as expired afterwards. An error inside the mutation would
	// roll that mark back, hence the flag.
	var expired bool
	err = s.mutate(ctx, "invite.accept", func(rt *trigger.Runtime) error {
		invite, err := rt.Tx().GetInvite(id)
		if err != nil {
			return err
		}
		if invite.Status != entity.InvitePending {
			return invariant("invite %s is already %s", id, invite.Status)
		}

		now := s.clock.Now()
		if invite.ExpiresAt <= now {
			invite.Status = entity.InviteExpired
			expired = true
			return rt.Tx().UpdateInvite(invite)
		}

		member, err := rt.Tx().MemberByWorkspaceUser(invite.WorkspaceID, actor)
		switch {
		case store.IsNotFound(err):
			member = &entity.Member{
				ID:          s.ids.NewID(),
				WorkspaceID: invite.WorkspaceID,
				UserID:      actor,
				Role:        invite.Role,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if !invite.ProjectID.IsZero() {
				member.Projects = []entity.ID{invite.ProjectID}
			}
			if err := rt.Tx().InsertMember(member); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if !invite.ProjectID.IsZero() && !member.HasProject(invite.ProjectID) {
				member.Projects = append(member.Projects, invite.ProjectID)
				member.UpdatedAt = now
				if err := rt.Tx().UpdateMember(member); err != nil {
					return err
				}
			}
		}

		invite.Status = entity.InviteAccepted
		invite.UserID = actor
		invite.AcceptedAt = now
		return rt.Tx().UpdateInvite(invite)
	})
	if err != nil {
		return err
	}
	if expired {
		return invariant("invite %s has expired", id)
	}
	return nil
}

// DeclineInvite marks a pending invite declined.
func (s *Service) DeclineInvite(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "invite.decline", func(rt *trigger.Runtime) error {
		invite, err := rt.Tx().GetInvite(id)
		if err != nil {
			return err
		}
		if invite.Status != entity.InvitePending {
			return invariant("invite %s is already %s", id, invite.Status)
		}
		invite.Status = entity.InviteDeclined
		return rt.Tx().UpdateInvite(invite)
	})
}

// RemoveInvite deletes an invite outright (revocation).
func (s *Service) RemoveInvite(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "invite.remove", func(rt *trigger.Runtime) error {
		return rt.Tx().DeleteInvite(id)
	})
}
