package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Sizes       []string
	CreatedAt   time.Time
}

func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}
