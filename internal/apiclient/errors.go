package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/hrms/internal/errlog"
	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/notification"
)

// ステータス別の通知メッセージ
const (
	MsgSessionExpired   = "Your session has expired. Please login again."
	MsgForbidden        = "You do not have permission to access this resource."
	MsgNotFound         = "Resource not found."
	MsgServerError      = "Server error. Please try again later."
	MsgNetworkError     = "Network error. Please check your connection."
	MsgDefaultErrorText = "An error occurred"
)

// HTTPError はAPI呼び出しの失敗を表す。Statusが0の場合は通信エラー。
type HTTPError struct {
	Status  int
	Code    string
	Message string // サーバーが返したmessage。無ければ空
	Body    []byte
	Err     error // 通信エラーの原因
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// errorBody はエラーレスポンスから読み取るフィールド。
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Body: body}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Code = eb.Code
		e.Message = eb.Message
	}
	return e
}

// MessageOr はerrがサーバーメッセージを持つHTTPErrorならそれを、それ以外はfallbackを返す。
func MessageOr(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}

// StatusOf はerrに含まれるHTTPステータスを返す。HTTPErrorでなければ-1。
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return -1
}

// ErrorLogger はエラーログの書き込み側インターフェース。
type ErrorLogger interface {
	Log(v any) errlog.AppError
}

// ErrorHandlerConfig はエラーインターセプタの依存関係。
type ErrorHandlerConfig struct {
	// OnUnauthorized は401を受け取ったときに呼ばれる（通常はセッションのログアウト）。
	OnUnauthorized func()
	Notifier       notification.Notifier
	Log            ErrorLogger
	Metrics        metrics.MetricsCollector
}

// ErrorInterceptor は失敗レスポンスを分類して通知・記録するインターセプタを返す。
// レスポンスとエラーはそのまま呼び出し元へ返す。
func ErrorInterceptor(cfg ErrorHandlerConfig) Interceptor {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}

	return func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			// 呼び出し元によるキャンセルは通知しない
			if req.Context().Err() != nil {
				return nil, err
			}
			cfg.report(req, 0, "", err.Error())
			return nil, err
		}
		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			slog.Warn("failed to read error response body",
				slog.String("url", req.URL.String()),
				slog.String("error", readErr.Error()),
			)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))

		httpErr := newHTTPError(resp.StatusCode, body)
		if resp.StatusCode == http.StatusUnauthorized && cfg.OnUnauthorized != nil {
			cfg.OnUnauthorized()
		}
		cfg.report(req, resp.StatusCode, httpErr.Message, string(body))
		return resp, nil
	}
}

func (cfg ErrorHandlerConfig) report(req *http.Request, status int, serverMessage string, details string) {
	message := DisplayMessage(status, serverMessage)

	cfg.Metrics.RecordClientFailure(status)
	if cfg.Notifier != nil {
		cfg.Notifier.Error(message)
	}
	if cfg.Log != nil {
		cfg.Log.Log(errlog.AppError{
			Code:      fmt.Sprintf("HTTP_%d", status),
			Message:   message,
			Details:   details,
			Timestamp: time.Now(),
		})
	}
	slog.Debug("api request failed",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", status),
	)
}

// DisplayMessage はステータスとサーバーメッセージからユーザー向けの文言を決める。
func DisplayMessage(status int, serverMessage string) string {
	switch status {
	case http.StatusUnauthorized:
		return MsgSessionExpired
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		return MsgServerError
	case 0:
		return MsgNetworkError
	}
	if serverMessage != "" {
		return serverMessage
	}
	return MsgDefaultErrorText
}
