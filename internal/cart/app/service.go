package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo CartRepo
}

func NewService(repo CartRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return domain.Cart{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, cartID)
}

func (s *Service) GetOrCreate(ctx context.Context, cartID string) (domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return domain.Cart{}, ErrInvalidInput
	}
	return s.repo.GetOrCreate(ctx, cartID)
}

// AddItemToCart merges into an existing (id, size) row by incrementing its
// quantity, so a cart never holds two rows with the same key.
func (s *Service) AddItemToCart(ctx context.Context, cartID string, item domain.CartItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.GetOrCreate(ctx, cartID); err != nil {
		return err
	}
	return s.repo.AddItem(ctx, cartID, item)
}

func (s *Service) ClearCart(ctx context.Context, cartID string) error {
	return s.repo.ClearCart(ctx, cartID)
}

// SetItemQuantity treats zero as a removal of the row.
func (s *Service) SetItemQuantity(ctx context.Context, cartID string, key domain.LineKey, quantity int32) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidInput, quantity)
	}
	if quantity == 0 {
		return s.repo.RemoveItem(ctx, cartID, key)
	}
	return s.repo.SetItemQuantity(ctx, cartID, key, quantity)
}

func (s *Service) RemoveItemFromCart(ctx context.Context, cartID string, key domain.LineKey) error {
	return s.repo.RemoveItem(ctx, cartID, key)
}
