package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hitoshi/hrms/internal/handler"
	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/middleware"
	"github.com/hitoshi/hrms/internal/mockapi"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock API over HTTP",
		Long: `Serve the mock API as a development server.

Requests under API_ROOT that the mock does not answer are forwarded to
UPSTREAM_URL, or answered with 404 when no upstream is configured.`,
		Args: cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			return runServe(ctx, app)
		}),
	}
}

// newServeHandler は開発サーバーのルーターを組み立てる。
// 戻り値のstopはレートリミッタのバックグラウンド処理を止める。
func newServeHandler(app *Context) (http.Handler, func(), error) {
	cfg := app.Config

	upstream, err := handler.NewUpstreamProxy(cfg.UpstreamURL)
	if err != nil {
		return nil, nil, err
	}
	api := upstream
	if cfg.MockEnabled {
		api = app.Stub.Passthrough(upstream)
	}

	rl := middleware.NewRateLimiter(
		middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral, cfg.RateLimitLogin),
	)

	router := handler.NewRouter(&handler.RouterDeps{
		APIRoot:           cfg.APIRoot,
		API:               api,
		Logger:            slog.Default(),
		Metrics:           app.Metrics,
		MetricsHandler:    metrics.Handler(app.Registry),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		TokenSubject:      tokenSubject(app.Tokens),
		HealthChecker:     app.Store,
	})
	return router, rl.Stop, nil
}

// tokenSubject はモックのトークンからユーザーIDを取り出す関数を返す。
func tokenSubject(tokens *mockapi.TokenIssuer) middleware.TokenSubjectFunc {
	return func(token string) (string, error) {
		claims, err := tokens.Parse(token)
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}
}

// runServe は開発サーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するか、ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, app *Context) error {
	router, stopLimiter, err := newServeHandler(app)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer stopLimiter()

	server := &http.Server{
		Addr:         ":" + app.Config.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("dev server starting",
			slog.String("addr", server.Addr),
			slog.String("api_root", app.Config.APIRoot),
			slog.Bool("mock_enabled", app.Config.MockEnabled),
			slog.String("upstream_url", app.Config.UpstreamURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("shutting down dev server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("dev server stopped gracefully")
	return nil
}
