package middleware

import (
	"context"
	"errors"
	"time"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timeout 為請求 context 設定期限；處理器逾時且尚未回應時回傳 504
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
				zap.Duration("timeout", timeout),
			)
			abortWithError(c, common.ErrGatewayTimeout)
		}
	}
}
