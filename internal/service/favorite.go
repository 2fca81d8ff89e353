package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/trigger"
)

// AddFavorite bookmarks a view, module or cycle within a project for the
// caller. Re-favoriting the same reference is a no-op returning the
// existing row's id.
func (s *Service) AddFavorite(ctx context.Context, projectID entity.ID, referenceID, favType string) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "favorite.add", func(rt *trigger.Runtime) error {
		if _, err := rt.Tx().GetProject(projectID); err != nil {
			return err
		}
		existing, err := rt.Tx().FavoritesByUserProject(actor, projectID)
		if err != nil {
			return err
		}
		for _, f := range existing {
			if f.ReferenceID == referenceID && f.Type == favType {
				id = f.ID
				return nil
			}
		}
		return s.insertFavorite(rt, actor, projectID, referenceID, favType, &id)
	})
	return id, err
}

func (s *Service) insertFavorite(rt *trigger.Runtime, actor, projectID entity.ID, referenceID, favType string, id *entity.ID) error {
	fav := &entity.Favorite{
		ID:          s.ids.NewID(),
		UserID:      actor,
		ProjectID:   projectID,
		ReferenceID: referenceID,
		Type:        favType,
		CreatedAt:   s.clock.Now(),
	}
	*id = fav.ID
	return rt.Tx().InsertFavorite(fav)
}

// ToggleFavorite flips a bookmark: removes it when present, creates it
// otherwise. Returns the surviving row's id, or "" when removed.
func (s *Service) ToggleFavorite(ctx context.Context, projectID entity.ID, referenceID, favType string) (entity.ID, error) {
	actor, err := PrincipalFrom(ctx)
	if err != nil {
		return "", err
	}

	var id entity.ID
	err = s.mutate(ctx, "favorite.toggle", func(rt *trigger.Runtime) error {
		existing, err := rt.Tx().FavoritesByUserProject(actor, projectID)
		if err != nil {
			return err
		}
		for _, f := range existing {
			if f.ReferenceID == referenceID && f.Type == favType {
				return rt.Tx().DeleteFavorite(f.ID)
			}
		}
		return s.insertFavorite(rt, actor, projectID, referenceID, favType, &id)
	})
	return id, err
}

// RemoveFavorite deletes one bookmark.
func (s *Service) RemoveFavorite(ctx context.Context, id entity.ID) error {
	if _, err := PrincipalFrom(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, "favorite.remove", func(rt *trigger.Runtime) error {
		return rt.Tx().DeleteFavorite(id)
	})
}
