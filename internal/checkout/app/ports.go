package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID int64
	Size      string
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
}

// CartSnapshot is the authoritative cart content at one version.
type CartSnapshot struct {
	Items   []CartItem
	Version int64
}

type CartReader interface {
	GetCart(ctx context.Context, cartID string) (CartSnapshot, error)
}

type Publisher interface {
	PublishInitiated(ctx context.Context, msg domain.Initiated) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}
