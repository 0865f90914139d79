package service

import (
	"context"
	"time"

	"pantry-chef/internal/core/ai/cache"
	"pantry-chef/internal/core/ai/provider"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"
	"pantry-chef/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Response AI 回應結構
type Response struct {
	Content string
	Cached  bool
}

// Service AI 服務：快取、合併相同請求、呼叫提供者
type Service struct {
	config   *config.Config
	provider provider.CompletionProvider
	store    cache.Store
	group    singleflight.Group
}

// NewService 創建 AI 服務；store 為 nil 時不使用快取
func NewService(cfg *config.Config, p provider.CompletionProvider, store cache.Store) *Service {
	return &Service{
		config:   cfg,
		provider: p,
		store:    store,
	}
}

// CacheKey 以模型與完整提示計算快取鍵
func CacheKey(model, system, user string) string {
	return "completion:" + common.HashStrings(model, system, user)
}

// ProcessRequest 執行一次系統 + 使用者訊息的補全
func (s *Service) ProcessRequest(ctx context.Context, system, user string) (*Response, error) {
	req := &provider.Request{
		Messages: []common.ChatMessage{
			{Role: common.RoleSystem, Content: system},
			{Role: common.RoleUser, Content: user},
		},
		Model:       s.config.Gateway.Model,
		Temperature: s.config.Gateway.Temperature,
	}

	if s.store == nil {
		resp, err := s.provider.Complete(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Response{Content: resp.Content}, nil
	}

	key := CacheKey(req.Model, system, user)
	if content, ok := s.lookup(ctx, key); ok {
		return &Response{Content: content, Cached: true}, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// 共用呼叫不隨第一個呼叫者取消；各呼叫者在下方 select 各自等待
		callCtx := context.WithoutCancel(ctx)
		if timeout := s.config.Gateway.Timeout; timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, timeout)
			defer cancel()
		}

		resp, err := s.provider.Complete(callCtx, req)
		if err != nil {
			return nil, err
		}
		// 寫入失敗不影響本次結果
		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := s.store.Set(setCtx, key, resp.Content); err != nil {
			common.LogWarn("Failed to store completion in cache",
				zap.String("backend", s.store.Name()),
				zap.Error(err),
			)
		}
		return resp.Content, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			common.LogDebug("Completion shared with concurrent caller",
				zap.String("request_id", common.RequestIDFromContext(ctx)),
			)
		}
		return &Response{Content: res.Val.(string)}, nil
	}
}

// lookup 查詢快取；後端錯誤視為未命中
func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	backend := s.store.Name()
	content, ok, err := s.store.Get(ctx, key)
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues(backend, "error").Inc()
		common.LogWarn("Cache lookup failed", zap.String("backend", backend), zap.Error(err))
		return "", false
	}
	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(backend, result).Inc()
	common.LogCacheLookup(backend, ok)
	return content, ok
}

// CacheStats 快取統計；未啟用時回傳 nil
func (s *Service) CacheStats() map[string]interface{} {
	if s.store == nil {
		return nil
	}
	return s.store.Stats()
}

// Model 目前使用的模型名稱
func (s *Service) Model() string {
	return s.provider.Model()
}

// Close 釋放快取資源
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
