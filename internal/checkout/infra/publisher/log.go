package publisher

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

// LogPublisher only records the hand-off. Used in dev when no checkout
// service is reachable.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishInitiated(ctx context.Context, msg domain.Initiated) error {
	p.log.InfoContext(ctx, "checkout.initiated",
		slog.String("checkout_id", msg.CheckoutID),
		slog.String("cart_id", msg.CartID),
		slog.Int("lines", len(msg.Lines)),
		slog.String("total", msg.Total.StringFixed(2)),
		slog.String("currency", msg.Currency),
	)
	return nil
}

var _ app.Publisher = (*LogPublisher)(nil)
