package cartpanel

import (
	"context"
	"errors"
	"fmt"
	"math"

	authdomain "github.com/dwikikusuma/storefront/internal/auth/domain"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

const LoginPath = "/login"

var (
	ErrNotVisible       = errors.New("cart panel is not visible")
	ErrUnknownLine      = errors.New("line is not in the cart")
	ErrCheckoutDisabled = errors.New("checkout is disabled for an empty cart")
	ErrUnknownAction    = errors.New("unknown action")
	ErrQuantityLimit    = errors.New("quantity is at its limit")
)

type AuthProvider interface {
	CurrentIdentity(ctx context.Context) (authdomain.Identity, bool)
}

type Router interface {
	Navigate(ctx context.Context, path string) error
}

type CheckoutRequest struct {
	CartID string
	Buyer  authdomain.Identity
}

type Initiator interface {
	Initiate(ctx context.Context, req CheckoutRequest) error
}

type Action int

const (
	ActionBackdrop Action = iota + 1
	ActionClose
	ActionDecrement
	ActionIncrement
	ActionRemove
	ActionCheckout
)

func (a Action) String() string {
	switch a {
	case ActionBackdrop:
		return "backdrop"
	case ActionClose:
		return "close"
	case ActionDecrement:
		return "decrement"
	case ActionIncrement:
		return "increment"
	case ActionRemove:
		return "remove"
	case ActionCheckout:
		return "checkout"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Event is one user interaction with a rendered panel. Key is set for row
// actions only.
type Event struct {
	Action Action
	Key    domain.LineKey
}

// Outcome tells the caller what an event led to.
type Outcome int

const (
	OutcomeDispatched Outcome = iota + 1
	OutcomeLoginRedirect
	OutcomeCheckoutStarted
)

type Deps struct {
	Auth     AuthProvider
	Router   Router
	Checkout Initiator
	Sink     Sink
}

// Panel relays interactions to its collaborators. It holds no cart state;
// every call works from the props it is given.
type Panel struct {
	auth     AuthProvider
	router   Router
	checkout Initiator
	sink     Sink
}

func New(d Deps) *Panel {
	return &Panel{
		auth:     d.Auth,
		router:   d.Router,
		checkout: d.Checkout,
		sink:     d.Sink,
	}
}

func (p *Panel) Handle(ctx context.Context, props Props, ev Event) (Outcome, error) {
	if !props.Visible {
		return 0, ErrNotVisible
	}

	switch ev.Action {
	case ActionBackdrop, ActionClose:
		return p.dispatch(ctx, Dismiss{})

	case ActionDecrement, ActionIncrement, ActionRemove:
		row, ok := findRow(props.Items, ev.Key)
		if !ok {
			return 0, fmt.Errorf("%w: %d/%s", ErrUnknownLine, ev.Key.ID, ev.Key.Size)
		}
		switch ev.Action {
		case ActionDecrement:
			return p.dispatch(ctx, ChangeQuantity{Key: row.Key(), Quantity: max(0, row.Quantity-1)})
		case ActionIncrement:
			if row.Quantity == math.MaxInt32 {
				return 0, fmt.Errorf("%w: %d/%s", ErrQuantityLimit, ev.Key.ID, ev.Key.Size)
			}
			return p.dispatch(ctx, ChangeQuantity{Key: row.Key(), Quantity: row.Quantity + 1})
		default:
			return p.dispatch(ctx, Remove{Key: row.Key()})
		}

	case ActionCheckout:
		return p.startCheckout(ctx, props)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownAction, ev.Action)
}

// startCheckout reads the identity on every call; the decision is never
// cached between events.
func (p *Panel) startCheckout(ctx context.Context, props Props) (Outcome, error) {
	if len(props.Items) == 0 {
		return 0, ErrCheckoutDisabled
	}

	buyer, ok := p.auth.CurrentIdentity(ctx)
	if !ok {
		if err := p.router.Navigate(ctx, LoginPath); err != nil {
			return 0, fmt.Errorf("navigate to login: %w", err)
		}
		return OutcomeLoginRedirect, nil
	}

	if err := p.checkout.Initiate(ctx, CheckoutRequest{CartID: props.CartID, Buyer: buyer}); err != nil {
		return 0, fmt.Errorf("initiate checkout: %w", err)
	}
	return OutcomeCheckoutStarted, nil
}

func (p *Panel) dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	if err := p.sink.Dispatch(ctx, cmd); err != nil {
		return 0, fmt.Errorf("dispatch %T: %w", cmd, err)
	}
	return OutcomeDispatched, nil
}

func findRow(items []domain.CartItem, key domain.LineKey) (domain.CartItem, bool) {
	for _, it := range items {
		if it.Key() == key {
			return it, true
		}
	}
	return domain.CartItem{}, false
}
