package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnknownSize  = errors.New("size not offered")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Sizes       []string
}

func (s *Service) CreateProduct(ctx context.Context, in NewProduct) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !in.Price.IsPositive() || len(in.Sizes) == 0 {
		return domain.Product{}, ErrInvalidInput
	}

	sizes := make([]string, 0, len(in.Sizes))
	for _, sz := range in.Sizes {
		sz = strings.TrimSpace(sz)
		if sz == "" {
			return domain.Product{}, ErrInvalidInput
		}
		sizes = append(sizes, sz)
	}

	return s.repo.Create(ctx, domain.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Sizes:       sizes,
	})
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// Offer returns the product if it is sold in the given size.
func (s *Service) Offer(ctx context.Context, id int64, size string) (domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.HasSize(size) {
		return domain.Product{}, ErrUnknownSize
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}
