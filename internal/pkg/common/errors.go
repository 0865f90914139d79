package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error string `json:"error"`          // 使用者可見訊息
	Code  string `json:"code,omitempty"` // 錯誤代碼（僅中間件回應）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

// Error 回傳使用者可見訊息
func (e *CustomError) Error() string {
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓包裝後的錯誤仍可與預定義錯誤比較
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以相同代碼、狀態與訊息包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// WithMessage 以相同代碼與狀態產生不同訊息的錯誤
func (e *CustomError) WithMessage(message string) *CustomError {
	return &CustomError{Code: e.Code, Message: message, Status: e.Status, Err: e.Err}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return ErrValidation.WithMessage(message)
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// StatusOf 取得錯誤對應的 HTTP 狀態碼，未知錯誤一律 500
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Status != 0 {
		return ce.Status
	}
	return http.StatusInternalServerError
}

// CodeOf 取得錯誤代碼
func CodeOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternalError
}

// MessageOf 取得使用者可見訊息，未知錯誤不外洩細節
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return ErrInternalError.Message
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeValidation      = "VALIDATION_ERROR"  // 400
	ErrCodeQuotaExhausted  = "QUOTA_EXHAUSTED"   // 402
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooLarge        = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeRateLimited     = "RATE_LIMITED"      // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeConfiguration      = "CONFIGURATION_ERROR" // 500
	ErrCodeUpstream           = "UPSTREAM_ERROR"      // 500
	ErrCodeEmptyResponse      = "EMPTY_RESPONSE"      // 500
	ErrCodeMalformedResponse  = "MALFORMED_RESPONSE"  // 500
	ErrCodeIncompleteRecipe   = "INCOMPLETE_RECIPE"   // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "REQUEST_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest, nil)
	ErrValidation      = NewError(ErrCodeValidation, "Please provide at least 2 ingredients", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "An identical request is already being processed", http.StatusConflict, nil)
	ErrTooLarge        = NewError(ErrCodeTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// 上游 AI 閘道錯誤
	ErrConfiguration     = NewError(ErrCodeConfiguration, "AI service not configured", http.StatusInternalServerError, nil)
	ErrRateLimited       = NewError(ErrCodeRateLimited, "Rate limit exceeded. Please try again in a moment.", http.StatusTooManyRequests, nil)
	ErrQuotaExhausted    = NewError(ErrCodeQuotaExhausted, "AI credits exhausted. Please try again later.", http.StatusPaymentRequired, nil)
	ErrUpstream          = NewError(ErrCodeUpstream, "Failed to generate recipe. Please try again.", http.StatusInternalServerError, nil)
	ErrEmptyResponse     = NewError(ErrCodeEmptyResponse, "No content in AI response", http.StatusInternalServerError, nil)
	ErrMalformedResponse = NewError(ErrCodeMalformedResponse, "AI returned a malformed recipe", http.StatusInternalServerError, nil)
	ErrIncompleteRecipe  = NewError(ErrCodeIncompleteRecipe, "Invalid recipe structure", http.StatusInternalServerError, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "An unexpected error occurred", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "Service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)
)
