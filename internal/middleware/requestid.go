package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id between client and server.
	RequestIDHeader = "X-Request-ID"
	// ContextRequestID is the gin context key for the request id.
	ContextRequestID = "requestID"
)

// RequestID tags every request with an id, keeping the client's if it sent
// one, and echoes it back in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
