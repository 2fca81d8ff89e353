package service

import (
	"context"

	"github.com/workstreamhq/workstream/internal/entity"
)

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated user id.
// The auth layer in front of the service is expected to set this.
func WithPrincipal(ctx context.Context, userID entity.ID) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFrom extracts the authenticated user id, failing with
// ErrUnauthorized when none is set.
func PrincipalFrom(ctx context.Context) (entity.ID, error) {
	id, ok := ctx.Value(principalKey{}).(entity.ID)
	if !ok || id.IsZero() {
		return "", ErrUnauthorized
	}
	return id, nil
}
