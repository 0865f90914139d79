// Package ai 定義 OpenAI chat-completions 相容閘道的請求與回應主體
package ai

import "pantry-chef/internal/pkg/common"

// ChatCompletionRequest 閘道請求主體
type ChatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []common.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
}

// ChatCompletionResponse 閘道回應主體，只取需要的欄位
type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice 選擇
type Choice struct {
	Message common.ChatMessage `json:"message"`
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstContent 第一個 choice 的文字內容；沒有時回傳空字串
func (r *ChatCompletionResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
