// Package gateway 實作 OpenAI chat-completions 相容的 AI 閘道客戶端
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pantry-chef/internal/core/ai"
	"pantry-chef/internal/core/ai/provider"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"
	"pantry-chef/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const completionsPath = "/chat/completions"

// Client AI 閘道客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

var _ provider.CompletionProvider = (*Client)(nil)

// NewClient 創建閘道客戶端；逾時與重試依 gateway 設定
func NewClient(cfg *config.Config) *Client {
	gw := cfg.Gateway
	client := resty.New().
		SetBaseURL(gw.BaseURL).
		SetTimeout(gw.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(gw.MaxRetries).
		SetRetryWaitTime(gw.RetryWait).
		SetRetryMaxWaitTime(gw.RetryMaxWait).
		AddRetryCondition(shouldRetry).
		SetLogger(common.Logger.Sugar())

	return &Client{
		config: cfg,
		client: client,
	}
}

// shouldRetry 只重試傳輸錯誤、429 與 5xx；402 與其他 4xx 不重試
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Model 目前使用的模型名稱
func (c *Client) Model() string {
	return c.config.Gateway.Model
}

// Complete 呼叫閘道一次（含有限次數重試），回傳第一個 choice 的內容
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	// 憑證在呼叫時讀取，缺少時不發出請求
	apiKey := c.config.APIKey()
	if apiKey == "" {
		common.LogError("AI gateway API key is not configured")
		return nil, common.ErrConfiguration
	}

	model := req.Model
	if model == "" {
		model = c.config.Gateway.Model
	}
	body := ai.ChatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}

	requestID := common.RequestIDFromContext(ctx)
	common.LogInfo("Sending request to AI gateway",
		zap.String("model", model),
		zap.Int("messages", len(body.Messages)),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(body).
		Post(completionsPath)
	duration := time.Since(start)

	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("transport_error").Inc()
		common.LogAICall(model, duration, err, requestID)
		return nil, common.ErrUpstream.Wrap(fmt.Errorf("failed to send request to AI gateway: %w", err))
	}

	metrics.GatewayRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()

	if !resp.IsSuccess() {
		statusErr := fmt.Errorf("AI gateway returned status %d: %s", resp.StatusCode(), common.Truncate(resp.String(), 500))
		common.LogAICall(model, duration, statusErr, requestID)
		return nil, classifyStatus(resp.StatusCode()).Wrap(statusErr)
	}

	var result ai.ChatCompletionResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("Failed to parse AI gateway response",
			zap.Error(err),
			zap.String("response", common.Truncate(resp.String(), 500)),
			zap.String("request_id", requestID),
		)
		return nil, common.ErrUpstream.Wrap(fmt.Errorf("failed to parse AI gateway response: %w", err))
	}

	content := result.FirstContent()
	if content == "" {
		common.LogError("Empty content in AI gateway response",
			zap.String("model", model),
			zap.Int("choices", len(result.Choices)),
			zap.String("request_id", requestID),
		)
		return nil, common.ErrEmptyResponse
	}

	common.LogAICall(model, duration, nil, requestID)
	common.LogDebug("AI gateway response received",
		zap.Int("content_length", len(content)),
		zap.Int("attempts", resp.Request.Attempt),
		zap.Int("total_tokens", result.Usage.TotalTokens),
		zap.String("request_id", requestID),
	)

	return &provider.Response{
		Content: content,
		Usage:   result.Usage,
	}, nil
}

// classifyStatus 將非 2xx 狀態碼對應到錯誤類別
func classifyStatus(status int) *common.CustomError {
	switch status {
	case http.StatusTooManyRequests:
		return common.ErrRateLimited
	case http.StatusPaymentRequired:
		return common.ErrQuotaExhausted
	default:
		return common.ErrUpstream
	}
}

// Close 關閉閒置連線
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
