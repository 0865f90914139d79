package health

import (
	"net/http"
	"runtime"
	"time"

	"pantry-chef/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Model     string                 `json:"model"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// StatsProvider 提供快取統計
type StatsProvider interface {
	CacheStats() map[string]interface{}
}

// Handler 健康檢查處理程序
type Handler struct {
	config    *config.Config
	stats     StatsProvider
	startedAt time.Time
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, stats StatsProvider) *Handler {
	return &Handler{
		config:    cfg,
		stats:     stats,
		startedAt: time.Now(),
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Model:     h.config.Gateway.Model,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.stats != nil {
		response.Cache = h.stats.CacheStats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：未設定 AI 閘道憑證時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if !h.config.HasCredential() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"configured": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"configured": true,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
