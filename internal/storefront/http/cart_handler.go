package http

import (
	"net/http"
	"strconv"
	"time"

	authapp "github.com/dwikikusuma/storefront/internal/auth/app"
	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/cartpanel"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const checkoutAck = "Proceeding to checkout..."

var checkoutOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_checkout_activations_total",
		Help: "Checkout activations by gating outcome",
	},
	[]string{"outcome"},
)

type CartHandler struct {
	cart            *cartapp.Service
	products        *ProductHandler
	checkout        *checkoutapp.Service
	session         *middleware.Session
	checkoutTimeout time.Duration
}

func NewCartHandler(cart *cartapp.Service, products *ProductHandler, checkout *checkoutapp.Service, session *middleware.Session, checkoutTimeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:            cart,
		products:        products,
		checkout:        checkout,
		session:         session,
		checkoutTimeout: checkoutTimeout,
	}
}

type addItemReq struct {
	ID       int64  `json:"id" form:"id" binding:"required,gt=0"`
	Name     string `json:"name" form:"name" binding:"required"`
	Price    string `json:"price" form:"price" binding:"required"`
	Size     string `json:"size" form:"size" binding:"required"`
	Quantity int32  `json:"quantity" form:"quantity"`
	Image    string `json:"image" form:"image"`
}

// Page renders the storefront shell with the product list and the panel
// embedded.
func (h *CartHandler) Page(c *gin.Context) {
	props, err := h.props(c)
	if err != nil {
		writeError(c, err)
		return
	}
	products, err := h.products.featured(c)
	if err != nil {
		writeError(c, err)
		return
	}

	panel, err := cartpanel.Fragment(cartpanel.Build(props))
	if err != nil {
		writeError(c, err)
		return
	}

	data := gin.H{"Panel": panel, "ItemCount": itemCount(props.Items), "Products": products}
	if id, ok := authapp.IdentityFrom(c.Request.Context()); ok {
		data["Identity"] = &id
	}
	c.HTML(http.StatusOK, "page", data)
}

// Panel renders only the panel fragment; 204 when it is hidden.
func (h *CartHandler) Panel(c *gin.Context) {
	props, err := h.props(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view := cartpanel.Build(props)
	if _, ok := view.(cartpanel.Empty); ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := cartpanel.Render(c.Writer, view); err != nil {
		logger.FromContext(c.Request.Context()).Error("render panel", "err", err)
	}
}

func (h *CartHandler) Open(c *gin.Context) {
	setPanelOpen(c, h.session, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *CartHandler) Dismiss(c *gin.Context) {
	action := cartpanel.ActionClose
	if c.Query("via") == "backdrop" {
		action = cartpanel.ActionBackdrop
	}
	h.handle(c, cartpanel.Event{Action: action})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": "price must be a decimal"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item := domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    price,
		Size:     req.Size,
		Quantity: req.Quantity,
		Image:    req.Image,
	}
	if err := h.cart.AddItemToCart(c.Request.Context(), middleware.CartID(c), item); err != nil {
		writeError(c, err)
		return
	}

	if c.ContentType() == gin.MIMEJSON {
		cart, err := h.cart.GetCart(c.Request.Context(), middleware.CartID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"items": itemCount(cart.Items)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RowAction handles the decrement, increment and remove controls of a row.
func (h *CartHandler) RowAction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": "id must be an integer"})
		return
	}

	var action cartpanel.Action
	switch c.Param("action") {
	case "decrement":
		action = cartpanel.ActionDecrement
	case "increment":
		action = cartpanel.ActionIncrement
	case "remove":
		action = cartpanel.ActionRemove
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": "unknown row action"})
		return
	}

	h.handle(c, cartpanel.Event{
		Action: action,
		Key:    domain.LineKey{ID: id, Size: c.Param("size")},
	})
}

func (h *CartHandler) Checkout(c *gin.Context) {
	h.handle(c, cartpanel.Event{Action: cartpanel.ActionCheckout})
}

func (h *CartHandler) CheckoutAck(c *gin.Context) {
	c.HTML(http.StatusOK, "checkout", gin.H{"ID": c.Param("id"), "Message": checkoutAck})
}

func (h *CartHandler) handle(c *gin.Context, ev cartpanel.Event) {
	props, err := h.props(c)
	if err != nil {
		writeError(c, err)
		return
	}

	router := &redirectRouter{}
	starter := &checkoutStarter{svc: h.checkout, timeout: h.checkoutTimeout}
	panel := cartpanel.New(cartpanel.Deps{
		Auth:     authapp.ContextProvider{},
		Router:   router,
		Checkout: starter,
		Sink: &cartSink{
			c:       c,
			cart:    h.cart,
			session: h.session,
			cartID:  props.CartID,
		},
	})

	out, err := panel.Handle(c.Request.Context(), props, ev)
	if err != nil {
		writeError(c, err)
		return
	}

	switch out {
	case cartpanel.OutcomeLoginRedirect:
		checkoutOutcomes.WithLabelValues("login_redirect").Inc()
		c.Redirect(http.StatusSeeOther, router.path)
	case cartpanel.OutcomeCheckoutStarted:
		outcome := "initiated"
		if starter.initiation.Duplicate {
			outcome = "duplicate"
		}
		checkoutOutcomes.WithLabelValues(outcome).Inc()
		c.Redirect(http.StatusSeeOther, "/checkout/"+starter.initiation.ID)
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (h *CartHandler) props(c *gin.Context) (cartpanel.Props, error) {
	cartID := middleware.CartID(c)
	cart, err := h.cart.GetOrCreate(c.Request.Context(), cartID)
	if err != nil {
		return cartpanel.Props{}, err
	}
	return cartpanel.Props{
		Visible: panelOpen(c),
		CartID:  cartID,
		Items:   cart.Items,
	}, nil
}

func itemCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += int(it.Quantity)
	}
	return n
}
