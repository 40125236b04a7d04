package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/auth"
)

// Keys under which the authenticated caller is stored in the gin context.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"
)

// TokenVerifier checks a Firebase ID token and returns its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*auth.TokenClaims, error)
}

// Auth returns a middleware that verifies the Bearer token on the request
// and stores the caller's identity in the gin context. Browser websocket
// clients cannot set headers, so a missing header falls back to the token
// query parameter. Verification failures get a generic 401; the cause is
// logged server-side.
func Auth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken := ""
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.Split(header, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be 'Bearer {token}'"})
				return
			}
			idToken = parts[1]
		} else {
			idToken = c.Query("token")
		}
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		claims, err := verifier.VerifyToken(c.Request.Context(), idToken)
		if err != nil {
			logger.Warn("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserID, claims.UID)
		if claims.Email != "" {
			c.Set(ContextUserEmail, claims.Email)
		}
		if claims.Name != "" {
			c.Set(ContextUserName, claims.Name)
		}
		c.Next()
	}
}
