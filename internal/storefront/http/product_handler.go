package http

import (
	"net/http"
	"strconv"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/cartpanel"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"
	"github.com/gin-gonic/gin"
)

const pageProducts = 100

type ProductHandler struct {
	catalog *catalogapp.Service
	cart    *cartapp.Service
}

func NewProductHandler(catalog *catalogapp.Service, cart *cartapp.Service) *ProductHandler {
	return &ProductHandler{catalog: catalog, cart: cart}
}

type productView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price"`
	Image       string   `json:"image,omitempty"`
	Sizes       []string `json:"sizes"`
}

func toProductView(p catalogdomain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       cartpanel.FormatMoney(p.Price),
		Image:       p.Image,
		Sizes:       p.Sizes,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, next, err := h.catalog.ListProducts(c.Request.Context(), c.Query("q"), limit, c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "next_cursor": next})
}

type addProductReq struct {
	Size     string `json:"size" form:"size" binding:"required"`
	Quantity int32  `json:"quantity" form:"quantity"`
}

// AddToCart puts one catalog product, in the chosen size, into the
// visitor's cart at the catalog price.
func (h *ProductHandler) AddToCart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": "id must be an integer"})
		return
	}

	var req addProductReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.catalog.Offer(c.Request.Context(), id, req.Size)
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.cart.AddItemToCart(c.Request.Context(), middleware.CartID(c), cartdomain.CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Size:     req.Size,
		Quantity: req.Quantity,
		Image:    p.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ProductHandler) featured(c *gin.Context) ([]productView, error) {
	products, _, err := h.catalog.ListProducts(c.Request.Context(), "", pageProducts, "")
	if err != nil {
		return nil, err
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out, nil
}
