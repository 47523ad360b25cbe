package middleware

import (
	"net/http"

	authapp "github.com/dwikikusuma/storefront/internal/auth/app"
	"github.com/dwikikusuma/storefront/internal/auth/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartCookie    = "cart_id"
	SessionCookie = "session"

	cartIDKey  = "cart_id"
	cartMaxAge = 30 * 24 * 60 * 60
)

type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Session assigns every visitor a cart handle and resolves the signed-in
// identity, if any, onto the request context.
type Session struct {
	verifier TokenVerifier
	secure   bool
}

func NewSession(verifier TokenVerifier, secureCookies bool) *Session {
	return &Session{verifier: verifier, secure: secureCookies}
}

func (s *Session) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, err := c.Cookie(CartCookie)
		if err != nil || uuid.Validate(cartID) != nil {
			cartID = uuid.NewString()
			s.SetCookie(c, CartCookie, cartID, cartMaxAge)
		}
		c.Set(cartIDKey, cartID)

		if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
			id, err := s.verifier.Verify(raw)
			if err != nil {
				logger.FromContext(c.Request.Context()).Debug("dropping session", "err", err)
				s.SetCookie(c, SessionCookie, "", -1)
			} else {
				c.Request = c.Request.WithContext(authapp.WithIdentity(c.Request.Context(), id))
			}
		}

		c.Next()
	}
}

// SetCookie writes a root-path, http-only, lax cookie. maxAge < 0 deletes it.
func (s *Session) SetCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.secure, true)
}

// CartID returns the cart handle assigned by Session.
func CartID(c *gin.Context) string {
	return c.GetString(cartIDKey)
}
