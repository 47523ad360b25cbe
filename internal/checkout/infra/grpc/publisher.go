package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/publisher"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

const initiateMethod = "/checkout.v1.CheckoutService/Initiate"

// Dial opens a lazily connected client conn to the checkout service.
func Dial(target string, timeout time.Duration) (*grpc.ClientConn, error) {
	return grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  200 * time.Millisecond,
				Multiplier: 1.6,
				Jitter:     0.2,
				MaxDelay:   5 * time.Second,
			},
			MinConnectTimeout: timeout,
		}),
	)
}

// Publisher calls the checkout service's Initiate RPC. The request and
// response travel as google.protobuf.Struct so no generated stubs are needed
// on this side.
type Publisher struct {
	conn grpc.ClientConnInterface
}

func NewPublisher(conn grpc.ClientConnInterface) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishInitiated(ctx context.Context, msg domain.Initiated) error {
	req, err := toStruct(publisher.ToMessage(msg))
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var resp structpb.Struct
	if err := p.conn.Invoke(ctx, initiateMethod, req, &resp); err != nil {
		return err
	}
	return nil
}

func toStruct(m publisher.Message) (*structpb.Struct, error) {
	lines := make([]any, 0, len(m.Lines))
	for _, ln := range m.Lines {
		lines = append(lines, map[string]any{
			"product_id": ln.ProductID,
			"size":       ln.Size,
			"name":       ln.Name,
			"quantity":   ln.Quantity,
			"unit_price": ln.UnitPrice,
			"line_total": ln.LineTotal,
		})
	}
	return structpb.NewStruct(map[string]any{
		"checkout_id": m.CheckoutID,
		"cart_id":     m.CartID,
		"user_id":     m.UserID,
		"currency":    m.Currency,
		"lines":       lines,
		"total":       m.Total,
		"created_at":  m.CreatedAt.Format(time.RFC3339Nano),
	})
}

var _ app.Publisher = (*Publisher)(nil)
