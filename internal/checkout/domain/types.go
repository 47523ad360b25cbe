package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const Currency = "USD"

type Line struct {
	ProductID int64
	Size      string
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Initiated is handed to the checkout collaborator once per cart version.
type Initiated struct {
	CheckoutID string
	CartID     string
	UserID     string
	Currency   string
	Lines      []Line
	Total      decimal.Decimal
	CreatedAt  time.Time
}

type Initiation struct {
	ID    string
	Total decimal.Decimal
	// Duplicate is set when the same cart version was already handed off.
	Duplicate bool
}

type Request struct {
	CartID string
	UserID string
}
