package cartpanel

import (
	"context"
	"errors"
	"math"
	"testing"

	authdomain "github.com/dwikikusuma/storefront/internal/auth/domain"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

type fakeAuth struct {
	id    authdomain.Identity
	ok    bool
	reads int
}

func (f *fakeAuth) CurrentIdentity(ctx context.Context) (authdomain.Identity, bool) {
	f.reads++
	return f.id, f.ok
}

type fakeRouter struct{ paths []string }

func (f *fakeRouter) Navigate(ctx context.Context, path string) error {
	f.paths = append(f.paths, path)
	return nil
}

type fakeInitiator struct {
	reqs []CheckoutRequest
	err  error
}

func (f *fakeInitiator) Initiate(ctx context.Context, req CheckoutRequest) error {
	if f.err != nil {
		return f.err
	}
	f.reqs = append(f.reqs, req)
	return nil
}

type harness struct {
	auth     *fakeAuth
	router   *fakeRouter
	checkout *fakeInitiator
	sent     []Command
	panel    *Panel
}

func newHarness() *harness {
	h := &harness{
		auth:     &fakeAuth{},
		router:   &fakeRouter{},
		checkout: &fakeInitiator{},
	}
	h.panel = New(Deps{
		Auth:     h.auth,
		Router:   h.router,
		Checkout: h.checkout,
		Sink: SinkFunc(func(ctx context.Context, cmd Command) error {
			h.sent = append(h.sent, cmd)
			return nil
		}),
	})
	return h
}

func twoSizes() Props {
	return Props{
		Visible: true,
		CartID:  "cart-1",
		Items:   []domain.CartItem{tee("M", "20.00", 2), tee("L", "20.00", 1)},
	}
}

func TestHandleRowActions(t *testing.T) {
	ctx := context.Background()
	m := domain.LineKey{ID: 1, Size: "M"}
	l := domain.LineKey{ID: 1, Size: "L"}

	t.Run("decrement at 1 sends zero", func(t *testing.T) {
		h := newHarness()
		if _, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionDecrement, Key: l}); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		want := ChangeQuantity{Key: l, Quantity: 0}
		if len(h.sent) != 1 || h.sent[0] != want {
			t.Fatalf("sent %+v, want %+v", h.sent, want)
		}
	})

	t.Run("decrement at 0 never goes negative", func(t *testing.T) {
		h := newHarness()
		props := Props{Visible: true, Items: []domain.CartItem{tee("M", "1", 0)}}
		_, _ = h.panel.Handle(ctx, props, Event{Action: ActionDecrement, Key: m})
		if cq := h.sent[0].(ChangeQuantity); cq.Quantity != 0 {
			t.Fatalf("quantity %d", cq.Quantity)
		}
	})

	t.Run("increment adds one", func(t *testing.T) {
		h := newHarness()
		props := Props{Visible: true, Items: []domain.CartItem{tee("M", "1", 999)}}
		_, _ = h.panel.Handle(ctx, props, Event{Action: ActionIncrement, Key: m})
		if cq := h.sent[0].(ChangeQuantity); cq.Quantity != 1000 {
			t.Fatalf("quantity %d", cq.Quantity)
		}
	})

	t.Run("increment at the int32 limit sends nothing", func(t *testing.T) {
		h := newHarness()
		props := Props{Visible: true, Items: []domain.CartItem{tee("M", "1", math.MaxInt32)}}
		_, err := h.panel.Handle(ctx, props, Event{Action: ActionIncrement, Key: m})
		if !errors.Is(err, ErrQuantityLimit) || len(h.sent) != 0 {
			t.Fatalf("expected ErrQuantityLimit and nothing sent, got %v / %+v", err, h.sent)
		}
	})

	t.Run("remove targets only the given size", func(t *testing.T) {
		h := newHarness()
		if _, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionRemove, Key: m}); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(h.sent) != 1 || h.sent[0] != (Remove{Key: m}) {
			t.Fatalf("sent %+v", h.sent)
		}
	})

	t.Run("unknown row", func(t *testing.T) {
		h := newHarness()
		_, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionRemove, Key: domain.LineKey{ID: 1, Size: "XS"}})
		if !errors.Is(err, ErrUnknownLine) || len(h.sent) != 0 {
			t.Fatalf("expected ErrUnknownLine and nothing sent, got %v / %+v", err, h.sent)
		}
	})
}

func TestHandleDismiss(t *testing.T) {
	for _, a := range []Action{ActionBackdrop, ActionClose} {
		t.Run(a.String(), func(t *testing.T) {
			h := newHarness()
			out, err := h.panel.Handle(context.Background(), twoSizes(), Event{Action: a})
			if err != nil || out != OutcomeDispatched {
				t.Fatalf("got (%v,%v)", out, err)
			}
			if len(h.sent) != 1 || h.sent[0] != (Dismiss{}) {
				t.Fatalf("sent %+v", h.sent)
			}
			if len(h.router.paths) != 0 || len(h.checkout.reqs) != 0 {
				t.Fatal("dismiss must have no other side effect")
			}
		})
	}
}

func TestHandleInvisible(t *testing.T) {
	h := newHarness()
	props := twoSizes()
	props.Visible = false

	for _, a := range []Action{ActionClose, ActionRemove, ActionCheckout} {
		if _, err := h.panel.Handle(context.Background(), props, Event{Action: a, Key: domain.LineKey{ID: 1, Size: "M"}}); !errors.Is(err, ErrNotVisible) {
			t.Fatalf("%s: expected ErrNotVisible, got %v", a, err)
		}
	}
	if len(h.sent) != 0 {
		t.Fatalf("sent %+v", h.sent)
	}
}

func TestHandleCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous -> login, no initiation", func(t *testing.T) {
		h := newHarness()
		out, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionCheckout})
		if err != nil || out != OutcomeLoginRedirect {
			t.Fatalf("got (%v,%v)", out, err)
		}
		if len(h.router.paths) != 1 || h.router.paths[0] != "/login" {
			t.Fatalf("paths %v", h.router.paths)
		}
		if len(h.checkout.reqs) != 0 {
			t.Fatal("must not initiate checkout")
		}
	})

	t.Run("authenticated -> initiation, no navigation", func(t *testing.T) {
		h := newHarness()
		h.auth.id, h.auth.ok = authdomain.Identity{UserID: "ada"}, true

		out, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionCheckout})
		if err != nil || out != OutcomeCheckoutStarted {
			t.Fatalf("got (%v,%v)", out, err)
		}
		want := CheckoutRequest{CartID: "cart-1", Buyer: authdomain.Identity{UserID: "ada"}}
		if len(h.checkout.reqs) != 1 || h.checkout.reqs[0] != want {
			t.Fatalf("reqs %+v", h.checkout.reqs)
		}
		if len(h.router.paths) != 0 {
			t.Fatal("must not navigate")
		}
	})

	t.Run("identity read fresh on every activation", func(t *testing.T) {
		h := newHarness()
		_, _ = h.panel.Handle(ctx, twoSizes(), Event{Action: ActionCheckout})

		h.auth.id, h.auth.ok = authdomain.Identity{UserID: "ada"}, true
		_, _ = h.panel.Handle(ctx, twoSizes(), Event{Action: ActionCheckout})

		if h.auth.reads != 2 || len(h.router.paths) != 1 || len(h.checkout.reqs) != 1 {
			t.Fatalf("reads=%d paths=%v reqs=%v", h.auth.reads, h.router.paths, h.checkout.reqs)
		}
	})

	t.Run("empty cart -> disabled regardless of identity", func(t *testing.T) {
		for _, ok := range []bool{false, true} {
			h := newHarness()
			h.auth.id, h.auth.ok = authdomain.Identity{UserID: "ada"}, ok

			_, err := h.panel.Handle(ctx, Props{Visible: true}, Event{Action: ActionCheckout})
			if !errors.Is(err, ErrCheckoutDisabled) {
				t.Fatalf("expected ErrCheckoutDisabled, got %v", err)
			}
			if len(h.router.paths) != 0 || len(h.checkout.reqs) != 0 || h.auth.reads != 0 {
				t.Fatal("disabled checkout must have no side effect")
			}
		}
	})

	t.Run("initiator error is wrapped", func(t *testing.T) {
		h := newHarness()
		h.auth.id, h.auth.ok = authdomain.Identity{UserID: "ada"}, true
		boom := errors.New("checkout down")
		h.checkout.err = boom

		if _, err := h.panel.Handle(ctx, twoSizes(), Event{Action: ActionCheckout}); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestHandleUnknownAction(t *testing.T) {
	h := newHarness()
	if _, err := h.panel.Handle(context.Background(), twoSizes(), Event{Action: Action(99)}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}
