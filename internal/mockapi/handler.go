package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/middleware"
	"github.com/hitoshi/hrms/internal/model"
)

// AuthServiceInterface はモック認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) (*model.MessageResponse, error)
	ChangeEmail(ctx context.Context, req model.ChangeEmailRequest) (*model.ChangeEmailResponse, error)
}

// EmployeeDirectory は社員ハンドラーが必要とするインターフェース。
type EmployeeDirectory interface {
	List() model.PaginatedResponse[model.Employee]
	Get(id string) (model.Employee, error)
	Update(id string, fields map[string]any) map[string]any
}

// Handler はモックAPIのHTTPハンドラー。
type Handler struct {
	auth    AuthServiceInterface
	dir     EmployeeDirectory
	metrics metrics.MetricsCollector
}

// NewHandler はHandlerを生成する。
func NewHandler(auth AuthServiceInterface, dir EmployeeDirectory, rec metrics.MetricsCollector) *Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Handler{auth: auth, dir: dir, metrics: rec}
}

// Login はログインを処理する。
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register はユーザー登録を処理する。
// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ChangePassword はパスワード変更を処理する。
// POST /auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.auth.ChangePassword(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChangeEmail はメールアドレス変更を処理する。
// POST /auth/change-email
func (h *Handler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req model.ChangeEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.auth.ChangeEmail(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListEmployees は社員一覧を返す。ページング条件は無視して全件を返す。
// GET /employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dir.List())
}

// GetEmployee はidまたはemployeeIdで社員を返す。
// GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.dir.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// UpdateEmployee は送信内容にidを付けてそのまま返す。
// PUT /employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !decodeBody(w, r, &fields) {
		return
	}
	writeJSON(w, http.StatusOK, h.dir.Update(chi.URLParam(r, "id"), fields))
}

// decodeBody はJSONボディを読み込む。失敗時は400を書き込みfalseを返す。
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode mock response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, middleware.StatusForAPIError(apiErr), apiErr)
		return
	}

	slog.Error("mock api internal error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
