package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

func seed(t *testing.T, names ...string) *ProductRepo {
	t.Helper()
	r := NewProductRepo()
	for _, n := range names {
		if _, err := r.Create(context.Background(), domain.Product{Name: n, Sizes: []string{"M"}}); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	return r
}

func TestGet(t *testing.T) {
	r := seed(t, "Tee", "Hoodie")

	p, err := r.Get(context.Background(), 2)
	if err != nil || p.Name != "Hoodie" {
		t.Fatalf("got %+v, %v", p, err)
	}

	p.Sizes[0] = "XL"
	again, _ := r.Get(context.Background(), 2)
	if again.Sizes[0] != "M" {
		t.Fatal("repo must not share size slices with callers")
	}

	if _, err := r.Get(context.Background(), 9); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPaging(t *testing.T) {
	r := seed(t, "Tee", "Long Tee", "Hoodie", "Tee Dress")
	ctx := context.Background()

	page, cursor, err := r.List(ctx, "tee", 2, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 || page[0].ID != 1 || page[1].ID != 2 || cursor != "2" {
		t.Fatalf("first page: %+v cursor=%q", page, cursor)
	}

	page, cursor, err = r.List(ctx, "tee", 2, cursor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || page[0].Name != "Tee Dress" || cursor != "" {
		t.Fatalf("second page: %+v cursor=%q", page, cursor)
	}

	if _, _, err := r.List(ctx, "", 2, "abc"); !errors.Is(err, app.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
