package publisher

import (
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

// Message is the wire shape of a checkout hand-off, shared by the broker
// and RPC publishers. Money travels as fixed two-decimal strings.
type Message struct {
	CheckoutID string        `json:"checkout_id"`
	CartID     string        `json:"cart_id"`
	UserID     string        `json:"user_id"`
	Currency   string        `json:"currency"`
	Lines      []MessageLine `json:"lines"`
	Total      string        `json:"total"`
	CreatedAt  time.Time     `json:"created_at"`
}

type MessageLine struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

func ToMessage(msg domain.Initiated) Message {
	lines := make([]MessageLine, 0, len(msg.Lines))
	for _, ln := range msg.Lines {
		lines = append(lines, MessageLine{
			ProductID: ln.ProductID,
			Size:      ln.Size,
			Name:      ln.Name,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice.StringFixed(2),
			LineTotal: ln.LineTotal.StringFixed(2),
		})
	}
	return Message{
		CheckoutID: msg.CheckoutID,
		CartID:     msg.CartID,
		UserID:     msg.UserID,
		Currency:   msg.Currency,
		Lines:      lines,
		Total:      msg.Total.StringFixed(2),
		CreatedAt:  msg.CreatedAt,
	}
}
