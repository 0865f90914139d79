package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WithRequestID 將請求 ID 放入 context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext 從 context 取出請求 ID
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// HashStrings 計算多個字串（以 NUL 分隔）的 SHA-256
func HashStrings(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Truncate 截斷過長字串（用於日誌預覽）；n 為位元組上限，不切開 UTF-8 字元
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:runeBoundary(s, n)]
	}
	return s[:runeBoundary(s, n-3)] + "..."
}

// runeBoundary 回傳不大於 n 的最近字元起點
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
