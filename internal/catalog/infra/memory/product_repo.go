package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// ProductRepo is an in-process catalog ordered by id. Ids are assigned on
// Create starting at 1.
type ProductRepo struct {
	mu       sync.RWMutex
	products []domain.Product
	nextID   int64
	now      func() time.Time
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{nextID: 1, now: time.Now}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	p.Sizes = slices.Clone(p.Sizes)
	p.CreatedAt = r.now()
	r.nextID++
	r.products = append(r.products, p)
	return clone(p), nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := slices.BinarySearchFunc(r.products, id, func(p domain.Product, id int64) int {
		return cmp.Compare(p.ID, id)
	})
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, app.ErrNotFound)
	}
	return clone(r.products[i]), nil
}

// List matches query against the name, case-insensitively. The cursor is
// the id of the last product of the previous page.
func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var after int64
	if strings.TrimSpace(cursor) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(cursor), 10, 64)
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		after = id
	}
	query = strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, limit)
	var nextCursor string
	for _, p := range r.products {
		if p.ID <= after {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, clone(p))
		nextCursor = strconv.FormatInt(p.ID, 10)
		if len(out) == limit {
			break
		}
	}

	if len(out) < limit {
		nextCursor = ""
	}
	return out, nextCursor, nil
}

func clone(p domain.Product) domain.Product {
	p.Sizes = slices.Clone(p.Sizes)
	return p
}

var _ app.ProductRepo = (*ProductRepo)(nil)
