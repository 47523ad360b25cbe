package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const idempotencyScope = "checkout"

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidInput = errors.New("invalid input")
	ErrInProgress   = errors.New("checkout already in progress")
)

type Service struct {
	Cart      CartReader
	Publisher Publisher
	Idem      IdempotencyStore

	log *slog.Logger
	now func() time.Time
}

func NewService(cart CartReader, pub Publisher, idem IdempotencyStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Cart:      cart,
		Publisher: pub,
		Idem:      idem,
		log:       log,
		now:       time.Now,
	}
}

// Initiate prices the current cart and hands it to the checkout collaborator.
// A cart version is handed off at most once; repeating the request for the
// same version returns the first initiation marked as Duplicate.
func (s *Service) Initiate(ctx context.Context, req domain.Request) (domain.Initiation, error) {
	if strings.TrimSpace(req.CartID) == "" || strings.TrimSpace(req.UserID) == "" {
		return domain.Initiation{}, ErrInvalidInput
	}

	snap, err := s.Cart.GetCart(ctx, req.CartID)
	if err != nil {
		return domain.Initiation{}, fmt.Errorf("read cart %s: %w", req.CartID, err)
	}
	if len(snap.Items) == 0 {
		return domain.Initiation{}, ErrEmptyCart
	}

	lines := make([]domain.Line, 0, len(snap.Items))
	total := decimal.Zero
	for _, it := range snap.Items {
		if it.Quantity <= 0 {
			return domain.Initiation{}, fmt.Errorf("%w: quantity must be greater than zero: %d", ErrInvalidInput, it.Quantity)
		}
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity))
		lines = append(lines, domain.Line{
			ProductID: it.ProductID,
			Size:      it.Size,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	key := req.UserID + ":" + req.CartID + ":" + strconv.FormatInt(snap.Version, 10)
	locked, err := s.Idem.TryLock(ctx, idempotencyScope, key)
	if err != nil {
		return domain.Initiation{}, fmt.Errorf("idempotency lock: %w", err)
	}
	if !locked {
		prev, found, err := s.Idem.Recall(ctx, idempotencyScope, key)
		if err != nil {
			return domain.Initiation{}, fmt.Errorf("idempotency recall: %w", err)
		}
		if !found {
			return domain.Initiation{}, ErrInProgress
		}
		return domain.Initiation{ID: prev, Total: total, Duplicate: true}, nil
	}

	msg := domain.Initiated{
		CheckoutID: uuid.NewString(),
		CartID:     req.CartID,
		UserID:     req.UserID,
		Currency:   domain.Currency,
		Lines:      lines,
		Total:      total,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.Publisher.PublishInitiated(ctx, msg); err != nil {
		if relErr := s.Idem.Release(ctx, idempotencyScope, key); relErr != nil {
			s.log.Warn("idempotency release failed", slog.String("key", key), slog.Any("err", relErr))
		}
		return domain.Initiation{}, fmt.Errorf("publish checkout: %w", err)
	}

	if err := s.Idem.Remember(ctx, idempotencyScope, key, msg.CheckoutID); err != nil {
		s.log.Warn("idempotency remember failed", slog.String("key", key), slog.Any("err", err))
	}

	s.log.Info("checkout initiated",
		slog.String("checkout_id", msg.CheckoutID),
		slog.String("cart_id", msg.CartID),
		slog.String("user_id", msg.UserID),
		slog.String("total", msg.Total.StringFixed(2)),
	)

	return domain.Initiation{ID: msg.CheckoutID, Total: total}, nil
}
