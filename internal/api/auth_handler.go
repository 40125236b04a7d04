package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/users"
)

// AuthHandler exposes the auth proxy over HTTP. Register and the logins
// also make sure a profile record exists for the signed-in account.
type AuthHandler struct {
	auth   *auth.Service
	users  *users.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as *auth.Service, us *users.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: as, users: us, logger: logger}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.bootstrapProfile(c, session)
	c.JSON(http.StatusCreated, session)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.bootstrapProfile(c, session)
	c.JSON(http.StatusOK, session)
}

// Google handles POST /api/v1/auth/google. The client sends the Google ID
// token it obtained from the provider sign-in flow.
func (h *AuthHandler) Google(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.auth.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	h.bootstrapProfile(c, session)
	c.JSON(http.StatusOK, session)
}

// SignOut handles POST /api/v1/auth/signout. It revokes the caller's
// refresh tokens, so existing ID tokens die at their natural expiry.
func (h *AuthHandler) SignOut(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	if err := h.auth.SignOut(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}

// A failed profile write must not fail the sign-in; the profile is
// recreated on the next successful call.
func (h *AuthHandler) bootstrapProfile(c *gin.Context, session *models.Session) {
	if _, err := h.users.Ensure(c.Request.Context(), session); err != nil {
		h.logger.Warn("profile bootstrap failed",
			zap.String("uid", session.UID),
			zap.Error(err))
	}
}
