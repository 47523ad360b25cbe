package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/cache"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeCart struct {
	snap app.CartSnapshot
	err  error
}

func (f *fakeCart) GetCart(ctx context.Context, cartID string) (app.CartSnapshot, error) {
	return f.snap, f.err
}

type recordingPublisher struct {
	sent []domain.Initiated
	err  error
}

func (p *recordingPublisher) PublishInitiated(ctx context.Context, msg domain.Initiated) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func twoSizes() app.CartSnapshot {
	price := decimal.RequireFromString("20.00")
	return app.CartSnapshot{
		Version: 1,
		Items: []app.CartItem{
			{ProductID: 1, Size: "M", Name: "Tee", Quantity: 2, UnitPrice: price},
			{ProductID: 1, Size: "L", Name: "Tee", Quantity: 1, UnitPrice: price},
		},
	}
}

func newService(cart *fakeCart, pub *recordingPublisher) *app.Service {
	return app.NewService(cart, pub, cache.NewMemoryIdempotencyStore(time.Minute), logger.Discard())
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()
	req := domain.Request{CartID: "c1", UserID: "ada"}

	t.Run("prices lines and publishes once", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := newService(&fakeCart{snap: twoSizes()}, pub)

		got, err := svc.Initiate(ctx, req)
		if err != nil {
			t.Fatalf("Initiate: %v", err)
		}
		if got.ID == "" || got.Duplicate || got.Total.StringFixed(2) != "60.00" {
			t.Fatalf("unexpected initiation: %+v", got)
		}
		if len(pub.sent) != 1 {
			t.Fatalf("expected 1 message, got %d", len(pub.sent))
		}
		msg := pub.sent[0]
		if msg.CheckoutID != got.ID || msg.UserID != "ada" || msg.Currency != domain.Currency {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if msg.Lines[0].LineTotal.StringFixed(2) != "40.00" || msg.Lines[1].LineTotal.StringFixed(2) != "20.00" {
			t.Fatalf("unexpected lines: %+v", msg.Lines)
		}
	})

	t.Run("same cart version is handed off once", func(t *testing.T) {
		pub := &recordingPublisher{}
		cart := &fakeCart{snap: twoSizes()}
		svc := newService(cart, pub)

		first, _ := svc.Initiate(ctx, req)
		second, err := svc.Initiate(ctx, req)
		if err != nil {
			t.Fatalf("Initiate: %v", err)
		}
		if !second.Duplicate || second.ID != first.ID {
			t.Fatalf("expected duplicate of %s, got %+v", first.ID, second)
		}
		if len(pub.sent) != 1 {
			t.Fatalf("expected 1 message, got %d", len(pub.sent))
		}

		cart.snap.Version = 2
		third, _ := svc.Initiate(ctx, req)
		if third.Duplicate || third.ID == first.ID || len(pub.sent) != 2 {
			t.Fatalf("new version should start a new checkout: %+v", third)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		svc := newService(&fakeCart{}, &recordingPublisher{})
		if _, err := svc.Initiate(ctx, req); !errors.Is(err, app.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		svc := newService(&fakeCart{snap: twoSizes()}, &recordingPublisher{})
		if _, err := svc.Initiate(ctx, domain.Request{CartID: "c1"}); !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("cart read error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		svc := newService(&fakeCart{err: boom}, &recordingPublisher{})
		if _, err := svc.Initiate(ctx, req); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("publish failure releases the lock", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		svc := newService(&fakeCart{snap: twoSizes()}, pub)

		if _, err := svc.Initiate(ctx, req); err == nil {
			t.Fatal("expected publish error")
		}

		pub.err = nil
		got, err := svc.Initiate(ctx, req)
		if err != nil || got.Duplicate {
			t.Fatalf("retry should succeed as a fresh initiation: %+v, %v", got, err)
		}
	})
}
