package middleware

import (
	"strconv"
	"time"

	"pantry-chef/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 記錄 HTTP 請求數與延遲；未匹配的路由歸為 "unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
