// Package handler は開発サーバーのHTTPルーティングを提供する。
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/hrms/internal/middleware"
	"github.com/hitoshi/hrms/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// APIはAPIルート配下を処理する。モック有効時はStub.Passthroughで包んだプロキシを渡す。
	APIRoot string
	API     http.Handler

	// ミドルウェア依存
	Logger            *slog.Logger
	Metrics           middleware.StatusRecorder
	MetricsHandler    http.Handler
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	TokenSubject      middleware.TokenSubjectFunc

	HealthChecker HealthChecker
}

// NewRouter は開発サーバーのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → SecurityHeaders → CORS → Bearer
//
// APIルート配下にはRateLimit(General)を、ログインと登録にはさらにRateLimit(Login)を適用する。
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.TokenSubject != nil {
		r.Use(middleware.NewBearerMiddleware(deps.TokenSubject))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError(r.URL.Path))
	})

	r.Get("/health", NewHealthHandler(deps.HealthChecker).ServeHTTP)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	root := "/" + strings.Trim(deps.APIRoot, "/")
	if root == "/" {
		root = ""
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		login := r
		if deps.RateLimiter != nil {
			login = r.With(deps.RateLimiter.LoginMiddleware())
		}
		login.Post(root+"/auth/login", deps.API.ServeHTTP)
		login.Post(root+"/auth/register", deps.API.ServeHTTP)

		r.Handle(root+"/*", deps.API)
	})

	return r
}
