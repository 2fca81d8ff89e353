package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/schema"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// ViewInput is the argument document of UpsertView.
type ViewInput struct {
	ProjectID entity.ID          `json:"projectId"`
	Type      string             `json:"type"`
	Name      string             `json:"name,omitempty"`
	Shared    bool               `json:"shared,omitempty"`
	Content   entity.ViewContent `json:"-"`
}

// UpsertView saves a display configuration. A "user" view is private: one
// per project and caller, updated in place. "view" entries always create
// a new row.
func (s *Service) UpsertView(ctx context.Context, in ViewInput) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}
	if err := schema.Validate(schema.ViewInput, in); err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "view.upsert", func(rt *trigger.Runtime) error {
		if _, err := rt.Tx().GetProject(in.ProjectID); err != nil {
			return err
		}
		now := s.clock.Now()

		if in.Type == "user" {
			existing, err := rt.Tx().ViewByProjectUserType(in.ProjectID, actor, "user")
			switch {
			case store.IsNotFound(err):
				// fall through to insert
			case err != nil:
				return err
			default:
				existing.Content = in.Content
				existing.Name = in.Name
				existing.UpdatedAt = now
				id = existing.ID
				return rt.Tx().UpdateView(existing)
			}
		}

		view := &entity.View{
			ID:        s.ids.NewID(),
			ProjectID: in.ProjectID,
			UserID:    actor,
			Type:      in.Type,
			Shared:    in.Shared,
			Name:      in.Name,
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		id = view.ID
		return rt.Tx().InsertView(view)
	})
	return id, err
}

// RemoveView deletes one saved view.
func (s *Service) RemoveView(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "view.remove", func(rt *trigger.Runtime) error {
		return rt.Tx().DeleteView(id)
	})
}
