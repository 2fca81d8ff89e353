package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// UserUpsert carries the identity-provider profile synced on sign-in.
type UserUpsert struct {
	ProviderID string
	Email      string
	Name       string
	FirstName  string
	LastName   string
	ImageURL   string
	Language   string
}

// UpsertUser creates or refreshes the account matching the provider id.
// This is the identity-sync path, so it requires no principal. Returns
// the user's id.
func (s *Service) UpsertUser(ctx context.Context, in UserUpsert) (entity.ID, error) {
	if in.ProviderID == "" {
		return "", invariant("provider id is required")
	}

	var id entity.ID
	err := s.mutate(ctx, "user.upsert", func(rt *trigger.Runtime) error {
		now := s.clock.Now()
		existing, err := rt.Tx().UserByProviderID(in.ProviderID)
		switch {
		case store.IsNotFound(err):
			user := &entity.User{
				ID:         s.ids.NewID(),
				ProviderID: in.ProviderID,
				Email:      in.Email,
				Name:       in.Name,
				FirstName:  in.FirstName,
				LastName:   in.LastName,
				ImageURL:   in.ImageURL,
				Language:   in.Language,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			id = user.ID
			return rt.Tx().InsertUser(user)
		case err != nil:
			return err
		default:
			existing.Email = in.Email
			existing.Name = in.Name
			existing.FirstName = in.FirstName
			existing.LastName = in.LastName
			existing.ImageURL = in.ImageURL
			if in.Language != "" {
				existing.Language = in.Language
			}
			existing.UpdatedAt = now
			id = existing.ID
			return rt.Tx().UpdateUser(existing)
		}
	})
	return id, err
}

// UpdateLastVisited remembers the caller's most recent workspace and
// project, used to restore their place on next sign-in.
func (s *Service) UpdateLastVisited(ctx context.Context, workspaceID, projectID entity.ID) error {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "user.updateLastVisited", func(rt *trigger.Runtime) error {
		user, err := rt.Tx().GetUser(actor)
		if err != nil {
			return err
		}
		user.LastWorkspaceID = workspaceID
		user.LastProjectID = projectID
		user.UpdatedAt = s.clock.Now()
		return rt.Tx().UpdateUser(user)
	})
}
