package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/auth/domain"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	if !ok || id.IsZero() {
		return domain.Identity{}, false
	}
	return id, true
}

// ContextProvider reports the identity placed on the request context by the
// session middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	return IdentityFrom(ctx)
}
