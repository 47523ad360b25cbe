package http

import (
	"errors"
	"net/http"
	"time"

	authapp "github.com/dwikikusuma/storefront/internal/auth/app"
	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	auth    *authapp.Service
	session *middleware.Session
	ttl     time.Duration
}

func NewLoginHandler(auth *authapp.Service, session *middleware.Session, ttl time.Duration) *LoginHandler {
	return &LoginHandler{auth: auth, session: session, ttl: ttl}
}

func (h *LoginHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{})
}

// Login accepts the form from Form and starts a session cookie.
func (h *LoginHandler) Login(c *gin.Context) {
	token, id, err := h.auth.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, authapp.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login", gin.H{"Error": "Invalid username or password"})
			return
		}
		writeError(c, err)
		return
	}

	h.session.SetCookie(c, middleware.SessionCookie, token, int(h.ttl.Seconds()))
	logger.FromContext(c.Request.Context()).Info("signed in", "user_id", id.UserID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *LoginHandler) Logout(c *gin.Context) {
	h.session.SetCookie(c, middleware.SessionCookie, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}
