package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestLoggingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logging(logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(id string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id != "" {
			req.Header.Set(RequestIDHeader, id)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Header().Get(RequestIDHeader)
	}

	t.Run("missing -> minted", func(t *testing.T) {
		if got := send(""); uuid.Validate(got) != nil {
			t.Fatalf("expected a uuid, got %q", got)
		}
	})

	t.Run("valid uuid is kept", func(t *testing.T) {
		id := uuid.NewString()
		if got := send(id); got != id {
			t.Fatalf("expected %q, got %q", id, got)
		}
	})

	t.Run("malformed or oversized -> replaced", func(t *testing.T) {
		for _, id := range []string{"abc\tinjected", strings.Repeat("x", 4096)} {
			got := send(id)
			if got == id || uuid.Validate(got) != nil {
				t.Fatalf("expected a fresh uuid for %.20q, got %.40q", id, got)
			}
		}
	})
}
