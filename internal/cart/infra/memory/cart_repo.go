package memory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// CartRepo keeps carts in process memory. Every mutation runs under one
// lock, so callers observe each intent applied atomically.
type CartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
	now   func() time.Time
}

func NewCartRepo() *CartRepo {
	return &CartRepo{
		carts: make(map[string]*domain.Cart),
		now:   time.Now,
	}
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("cart %s: %w", cartID, app.ErrNotFound)
	}
	return snapshot(cart), nil
}

func (r *CartRepo) Create(ctx context.Context, cartID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cartID]; ok {
		return domain.Cart{}, fmt.Errorf("cart %s already exists: %w", cartID, app.ErrInvalidInput)
	}
	return snapshot(r.createLocked(cartID)), nil
}

func (r *CartRepo) GetOrCreate(ctx context.Context, cartID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		cart = r.createLocked(cartID)
	}
	return snapshot(cart), nil
}

func (r *CartRepo) AddItem(ctx context.Context, cartID string, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %s: %w", cartID, app.ErrNotFound)
	}

	if idx := cart.Find(item.Key()); idx >= 0 {
		cur := cart.Items[idx].Quantity
		if item.Quantity > math.MaxInt32-cur {
			return fmt.Errorf("%w: quantity %d + %d exceeds %d", app.ErrInvalidInput, cur, item.Quantity, math.MaxInt32)
		}
		cart.Items[idx].Quantity = cur + item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}
	cart.UpdatedAt = r.now()
	return nil
}

func (r *CartRepo) ClearCart(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %s: %w", cartID, app.ErrNotFound)
	}
	cart.Items = nil
	cart.UpdatedAt = r.now()
	return nil
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID string, key domain.LineKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, idx, err := r.lineLocked(cartID, key)
	if err != nil {
		return err
	}
	cart.Items = slices.Delete(cart.Items, idx, idx+1)
	cart.UpdatedAt = r.now()
	return nil
}

func (r *CartRepo) SetItemQuantity(ctx context.Context, cartID string, key domain.LineKey, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, idx, err := r.lineLocked(cartID, key)
	if err != nil {
		return err
	}
	cart.Items[idx].Quantity = quantity
	cart.UpdatedAt = r.now()
	return nil
}

func (r *CartRepo) createLocked(cartID string) *domain.Cart {
	now := r.now()
	cart := &domain.Cart{ID: cartID, CreatedAt: now, UpdatedAt: now}
	r.carts[cartID] = cart
	return cart
}

func (r *CartRepo) lineLocked(cartID string, key domain.LineKey) (*domain.Cart, int, error) {
	cart, ok := r.carts[cartID]
	if !ok {
		return nil, -1, fmt.Errorf("cart %s: %w", cartID, app.ErrNotFound)
	}
	idx := cart.Find(key)
	if idx < 0 {
		return nil, -1, fmt.Errorf("line %d/%s: %w", key.ID, key.Size, app.ErrNotFound)
	}
	return cart, idx, nil
}

func snapshot(c *domain.Cart) domain.Cart {
	out := *c
	out.Items = slices.Clone(c.Items)
	return out
}

var _ app.CartRepo = (*CartRepo)(nil)
