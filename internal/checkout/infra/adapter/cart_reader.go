package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, cartID string) (checkoutapp.CartSnapshot, error) {
	cart, err := r.svc.GetCart(ctx, cartID)
	if err != nil {
		return checkoutapp.CartSnapshot{}, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ID,
			Size:      it.Size,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return checkoutapp.CartSnapshot{
		Items:   items,
		Version: cart.UpdatedAt.UnixNano(),
	}, nil
}
