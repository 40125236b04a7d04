package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/orders"
	"github.com/prabhata303-del/Dd/internal/users"
	"github.com/prabhata303-del/Dd/internal/wishlist"
)

// ErrorResponse is the JSON shape for every error the API returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps simple confirmation messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondError translates service sentinels into HTTP statuses. Anything
// unrecognized becomes a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Email is already registered"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password is too weak"})
	case errors.Is(err, auth.ErrUserDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This account has been disabled"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
	case errors.Is(err, users.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
	case errors.Is(err, orders.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This order belongs to another account"})
	case errors.Is(err, orders.ErrNotCancellable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Order can no longer be cancelled"})
	case errors.Is(err, orders.ErrEmptyOrder),
		errors.Is(err, orders.ErrInvalidItem),
		errors.Is(err, orders.ErrMissingUID),
		errors.Is(err, users.ErrMissingUID),
		errors.Is(err, wishlist.ErrMissingUID),
		errors.Is(err, wishlist.ErrMissingDish):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Details: err.Error()})
	}
}
