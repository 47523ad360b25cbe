package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

type CartRepo interface {
	Get(ctx context.Context, cartID string) (domain.Cart, error)
	Create(ctx context.Context, cartID string) (domain.Cart, error)
	AddItem(ctx context.Context, cartID string, item domain.CartItem) error
	ClearCart(ctx context.Context, cartID string) error
	RemoveItem(ctx context.Context, cartID string, key domain.LineKey) error
	SetItemQuantity(ctx context.Context, cartID string, key domain.LineKey, quantity int32) error
	GetOrCreate(ctx context.Context, cartID string) (domain.Cart, error)
}
