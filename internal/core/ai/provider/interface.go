package provider

import (
	"context"

	"pantry-chef/internal/core/ai"
	"pantry-chef/internal/pkg/common"
)

// Request 表示發送到 AI 提供者的對話請求
type Request struct {
	Messages    []common.ChatMessage `json:"messages"`
	Model       string               `json:"model,omitempty"`
	Temperature float64              `json:"temperature"`
}

// Response 表示從 AI 提供者收到的回應，Content 為第一個 choice 的文字
type Response struct {
	Content string   `json:"content"`
	Usage   ai.Usage `json:"usage"`
}

// CompletionProvider 文字進、文字出的對話補全能力
type CompletionProvider interface {
	// Complete 執行一次對話補全
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Model 目前使用的模型名稱
	Model() string
}

// Func 讓普通函式實作 CompletionProvider（測試替身使用）
type Func func(ctx context.Context, req *Request) (*Response, error)

// Complete 呼叫函式本身
func (f Func) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Model 函式替身沒有模型名稱
func (f Func) Model() string {
	return "func"
}
