package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradewindow/internal/metrics"
)

// Metrics records request count and latency per matched route.
// Unmatched paths are grouped under "unmatched".
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
