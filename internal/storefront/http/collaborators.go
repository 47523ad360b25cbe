package http

import (
	"context"
	"fmt"
	"time"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cartpanel"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"
	"github.com/gin-gonic/gin"
)

const panelOpenCookie = "cart_open"

// redirectRouter records the navigation target; the handler turns it into
// a 303 once the panel is done.
type redirectRouter struct {
	path string
}

func (r *redirectRouter) Navigate(ctx context.Context, path string) error {
	r.path = path
	return nil
}

// cartSink applies panel intents to the cart owner and to the visibility
// cookie owned by the page.
type cartSink struct {
	c       *gin.Context
	cart    *cartapp.Service
	session *middleware.Session
	cartID  string
}

func (s *cartSink) Dispatch(ctx context.Context, cmd cartpanel.Command) error {
	switch cmd := cmd.(type) {
	case cartpanel.Dismiss:
		setPanelOpen(s.c, s.session, false)
		return nil
	case cartpanel.ChangeQuantity:
		return s.cart.SetItemQuantity(ctx, s.cartID, cmd.Key, cmd.Quantity)
	case cartpanel.Remove:
		return s.cart.RemoveItemFromCart(ctx, s.cartID, cmd.Key)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// checkoutStarter hands authenticated checkouts to the checkout service and
// keeps the resulting initiation for the redirect.
type checkoutStarter struct {
	svc        *checkoutapp.Service
	timeout    time.Duration
	initiation checkoutdomain.Initiation
}

func (s *checkoutStarter) Initiate(ctx context.Context, req cartpanel.CheckoutRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in, err := s.svc.Initiate(ctx, checkoutdomain.Request{CartID: req.CartID, UserID: req.Buyer.UserID})
	if err != nil {
		return err
	}
	s.initiation = in
	return nil
}

func panelOpen(c *gin.Context) bool {
	v, err := c.Cookie(panelOpenCookie)
	return err == nil && v == "1"
}

func setPanelOpen(c *gin.Context, s *middleware.Session, open bool) {
	if open {
		s.SetCookie(c, panelOpenCookie, "1", 0)
		return
	}
	s.SetCookie(c, panelOpenCookie, "", -1)
}
