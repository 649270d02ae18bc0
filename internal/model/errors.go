// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// レスポンスボディのmessageとcodeはクライアントがそのまま表示・判定に使う。
type APIError struct {
	Code     string `json:"code,omitempty"`     // エラーコード
	Message  string `json:"message"`            // エラーメッセージ
	Category string `json:"category,omitempty"` // カテゴリ: auth, validation, employee, system
	Action   string `json:"action,omitempty"`   // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeEmailExists         = "EMAIL_EXISTS"
	ErrCodeInvalidPassword     = "INVALID_PASSWORD"
	ErrCodeEmployeeNotFound    = "EMPLOYEE_NOT_FOUND"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeNotFound            = "NOT_FOUND"
)

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid ID/Email or password",
		Category: "auth",
	}
}

// NewEmailRegisteredError は登録時のメールアドレス重複エラーを生成する。
func NewEmailRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailExists,
		Message:  "Email already registered",
		Category: "validation",
	}
}

// NewEmailExistsError はメールアドレス変更時の重複エラーを生成する。
func NewEmailExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailExists,
		Message:  "Email already exists",
		Category: "validation",
	}
}

// NewCurrentPasswordIncorrectError はパスワード変更時の現パスワード不一致エラーを生成する。
func NewCurrentPasswordIncorrectError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "Current password is incorrect",
		Category: "auth",
	}
}

// NewPasswordIncorrectError はメールアドレス変更時のパスワード不一致エラーを生成する。
func NewPasswordIncorrectError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "Password is incorrect",
		Category: "auth",
	}
}

// NewEmployeeNotFoundError は社員未検出エラーを生成する。
func NewEmployeeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeEmployeeNotFound,
		Message:  "Employee not found",
		Category: "employee",
	}
}

// NewInvalidRequestError はリクエストボディ不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", reason),
		Category: "validation",
		Action:   "Send a well-formed JSON body.",
	}
}

// NewNotFoundError はどのルートにも一致しない場合のエラーを生成する。
func NewNotFoundError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("No handler for %s", path),
		Category: "system",
	}
}

// NewUpstreamUnavailableError は転送先バックエンドに到達できない場合のエラーを生成する。
func NewUpstreamUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamUnavailable,
		Message:  "Upstream backend is unavailable",
		Category: "system",
		Action:   "Check UPSTREAM_URL and that the backend is running.",
	}
}

// NewRateLimitExceededError はレート制限を超えた場合のエラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the specified time.",
	}
}
