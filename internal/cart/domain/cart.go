package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("invalid cart item")

// LineKey identifies one row of a cart. The same product may appear once
// per size.
type LineKey struct {
	ID   int64
	Size string
}

type CartItem struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Size     string
	Quantity int32
	Image    string
}

func (it CartItem) Key() LineKey {
	return LineKey{ID: it.ID, Size: it.Size}
}

func (it CartItem) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt32(it.Quantity))
}

// Validate checks an item at ingestion time, before it enters a cart.
func (it CartItem) Validate() error {
	switch {
	case it.ID <= 0:
		return fmt.Errorf("%w: id must be positive", ErrInvalidItem)
	case strings.TrimSpace(it.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	case strings.TrimSpace(it.Size) == "":
		return fmt.Errorf("%w: size is required", ErrInvalidItem)
	case it.Price.IsNegative():
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	case it.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}
	return nil
}

type Cart struct {
	ID        string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Find returns the index of the row with the given key, or -1.
func (c Cart) Find(key LineKey) int {
	for i, it := range c.Items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Total sums price × quantity over items.
func Total(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
