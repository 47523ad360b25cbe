package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

func NewRouter(log *slog.Logger, session *middleware.Session, cart *CartHandler, products *ProductHandler, login *LoginHandler) *gin.Engine {
	r := gin.New()
	// Sizes may contain '/', so routes match on the escaped path.
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.SetHTMLTemplate(pageTemplates)

	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(log))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	web := r.Group("/", session.Handle())
	{
		web.GET("/", cart.Page)
		web.GET("/login", login.Form)
		web.POST("/login", login.Login)
		web.POST("/logout", login.Logout)

		web.GET("/products", products.List)
		web.POST("/products/:id/add", products.AddToCart)

		web.GET("/cart/panel", cart.Panel)
		web.POST("/cart/open", cart.Open)
		web.POST("/cart/dismiss", cart.Dismiss)
		web.POST("/cart/items", cart.AddItem)
		web.POST("/cart/items/:id/:size/:action", cart.RowAction)
		web.POST("/cart/checkout", cart.Checkout)
		web.GET("/checkout/:id", cart.CheckoutAck)
	}

	return r
}
