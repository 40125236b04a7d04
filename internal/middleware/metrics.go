package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prabhata303-del/Dd/internal/metrics"
)

// Metrics records request counts and latencies for every handled route.
// The path label uses the route template, so /orders/:orderId/cancel stays
// one series no matter how many orders exist.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
