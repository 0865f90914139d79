package middleware

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"
)

const defaultDedupWindow = 1 * time.Second

// dedupEntry 一個請求指紋的狀態
type dedupEntry struct {
	started  time.Time
	inFlight bool
}

// deduplicator 追蹤進行中的相同請求
type deduplicator struct {
	mu       sync.Mutex
	requests map[string]*dedupEntry
	window   time.Duration
	lastGC   time.Time
}

// acquire 登記指紋；相同請求仍在處理中或仍在視窗內時回傳 false
func (d *deduplicator) acquire(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastGC) > 10*d.window {
		for k, e := range d.requests {
			if !e.inFlight && now.Sub(e.started) > d.window {
				delete(d.requests, k)
			}
		}
		d.lastGC = now
	}

	if e, exists := d.requests[fingerprint]; exists {
		if e.inFlight || now.Sub(e.started) <= d.window {
			return false
		}
	}
	d.requests[fingerprint] = &dedupEntry{started: now, inFlight: true}
	return true
}

// release 請求處理完成；失敗的請求立即移除，允許使用者重新送出
func (d *deduplicator) release(fingerprint string, failed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if failed {
		delete(d.requests, fingerprint)
		return
	}
	if e, exists := d.requests[fingerprint]; exists {
		e.inFlight = false
	}
}

// Deduplication 拒絕與進行中請求完全相同的 POST（客戶端 IP + 路徑 + 請求體）
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	window := defaultDedupWindow
	if cfg != nil && cfg.DedupWindow > 0 {
		window = cfg.DedupWindow
	}
	d := &deduplicator{
		requests: make(map[string]*dedupEntry),
		window:   window,
		lastGC:   time.Now(),
	}

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				abortWithError(c, common.ErrTooLarge)
				return
			}
			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		// 生成請求指紋
		fingerprint := common.HashStrings(c.ClientIP(), c.Request.Method, c.Request.URL.Path, string(body))

		if !d.acquire(fingerprint, time.Now()) {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			)
			abortWithError(c, common.ErrConflict)
			return
		}
		defer func() {
			d.release(fingerprint, c.Writer.Status() >= 400)
		}()

		c.Next()
	}
}
