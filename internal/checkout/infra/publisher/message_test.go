package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestToMessage(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := ToMessage(domain.Initiated{
		CheckoutID: "co-1",
		CartID:     "cart-1",
		UserID:     "u-1",
		Currency:   domain.Currency,
		Lines: []domain.Line{{
			ProductID: 1,
			Size:      "M",
			Name:      "Tee",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("20"),
			LineTotal: decimal.RequireFromString("40"),
		}},
		Total:     decimal.RequireFromString("40"),
		CreatedAt: at,
	})

	want := Message{
		CheckoutID: "co-1",
		CartID:     "cart-1",
		UserID:     "u-1",
		Currency:   "USD",
		Lines: []MessageLine{{
			ProductID: 1, Size: "M", Name: "Tee", Quantity: 2,
			UnitPrice: "20.00", LineTotal: "40.00",
		}},
		Total:     "40.00",
		CreatedAt: at,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"checkout_id", "cart_id", "user_id", "currency", "lines", "total", "created_at"} {
		if _, ok := fields[k]; !ok {
			t.Fatalf("missing field %q in %s", k, b)
		}
	}
}
