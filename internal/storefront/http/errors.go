package http

import (
	"errors"
	"net/http"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cartpanel"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// httpStatusFromGRPC maps a collaborator error carrying a gRPC status.
// Anything else is an internal error.
func httpStatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.AlreadyExists, codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func httpStatusFromErr(err error) (int, string, string) {
	switch {
	case errors.Is(err, cartpanel.ErrUnknownLine),
		errors.Is(err, cartapp.ErrNotFound),
		errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, cartpanel.ErrNotVisible),
		errors.Is(err, cartpanel.ErrCheckoutDisabled),
		errors.Is(err, cartpanel.ErrQuantityLimit),
		errors.Is(err, checkoutapp.ErrEmptyCart),
		errors.Is(err, checkoutapp.ErrInProgress):
		return http.StatusConflict, "FAILED_PRECONDITION", err.Error()
	case errors.Is(err, cartpanel.ErrUnknownAction),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrUnknownSize),
		errors.Is(err, checkoutapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	}
	return httpStatusFromGRPC(err)
}

func writeError(c *gin.Context, err error) {
	code, reason, msg := httpStatusFromErr(err)
	if code >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", "err", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": reason, "message": msg})
}
