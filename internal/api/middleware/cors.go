package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSAllowHeaders 允許的請求標頭
var CORSAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type", "x-request-id"}

// CORSHeaders 每個回應都帶上允許任意來源的 CORS 標頭（不論是否有 Origin）
func CORSHeaders() gin.HandlerFunc {
	allowHeaders := strings.Join(CORSAllowHeaders, ", ")
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Next()
	}
}
