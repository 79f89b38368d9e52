// Package identity carries the signed-in user through request contexts.
package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/model"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*model.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*model.Identity)
	return id, ok
}

// ActorID returns the signed-in user's id, or uuid.Nil for system actions.
func ActorID(ctx context.Context) uuid.UUID {
	if id, ok := FromContext(ctx); ok {
		return id.ID
	}
	return uuid.Nil
}
