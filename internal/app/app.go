package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/attendance"
	"github.com/hitoshi/hrms/internal/config"
	"github.com/hitoshi/hrms/internal/employee"
	"github.com/hitoshi/hrms/internal/errlog"
	"github.com/hitoshi/hrms/internal/leave"
	"github.com/hitoshi/hrms/internal/logger"
	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/mockapi"
	"github.com/hitoshi/hrms/internal/notification"
	"github.com/hitoshi/hrms/internal/payroll"
	"github.com/hitoshi/hrms/internal/performance"
	"github.com/hitoshi/hrms/internal/repository"
	"github.com/hitoshi/hrms/internal/session"
	"github.com/hitoshi/hrms/internal/settings"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルでログを再設定する
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Context は起動時に1回だけ組み立てる依存関係の集合。
// コマンドはグローバル変数ではなくこれを受け取る。
type Context struct {
	Config *config.Config

	Store    repository.KeyValueStore
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	Tokens   *mockapi.TokenIssuer
	Stub     *mockapi.Stub

	Notifications *notification.Service
	Errors        *errlog.Log
	Client        *apiclient.Client
	Session       *session.Manager
	Settings      *settings.Service

	Employees   *employee.Service
	Leave       *leave.Service
	Payroll     *payroll.Service
	Attendance  *attendance.Service
	Performance *performance.Service
}

// Build はConfigから全依存関係をワイヤリングし、保存済みのセッションと設定を復元する。
func Build(ctx context.Context, cfg *config.Config) (*Context, error) {
	// 1. 永続ストレージ
	store, err := repository.Open(cfg.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	c := &Context{
		Config:        cfg,
		Store:         store,
		Registry:      prometheus.NewRegistry(),
		Tokens:        mockapi.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL),
		Notifications: notification.NewService(),
		Errors:        errlog.New(),
	}
	c.Metrics = metrics.NewCollector(c.Registry)

	// 2. モックAPI
	fx, err := mockapi.LoadFixtures(cfg.MockFixturesFile)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	c.Stub = mockapi.NewFromFixtures(stubConfig(cfg), fx, c.Tokens, c.Metrics)

	// 3. APIクライアント
	// インターセプタはセッションのトークンを参照し、401でセッションをログアウトさせる。
	// Managerはクライアントの後に作るため、クロージャで遅延参照する。
	var mgr *session.Manager
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		APIRoot: cfg.APIRoot,
		Timeout: cfg.HTTPClientTimeout,
	}, c.transport(
		func() string { return mgr.AccessToken() },
		func() { mgr.Logout() },
	))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	c.Client = client

	// 4. セッション
	mgr = session.NewManager(store, client, session.NavigatorFunc(func(route string) {
		slog.Debug("navigation requested", slog.String("route", route))
	}))
	if err := mgr.Hydrate(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	c.Session = mgr

	// 5. 設定
	c.Settings = settings.NewService(store)
	if err := c.Settings.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// 6. ドメインサービス
	c.Employees = employee.NewService(client)
	c.Leave = leave.NewService(client)
	c.Payroll = payroll.NewService(client)
	c.Attendance = attendance.NewService(client)
	c.Performance = performance.NewService(client)

	return c, nil
}

// transport はクライアントのインターセプタチェーンを組み立てる。
//
//	Stub → Auth → Error → 終端
//
// Stubが応答したリクエストはAuthとErrorを通らない。
func (c *Context) transport(token func() string, onUnauthorized func()) http.RoundTripper {
	interceptors := make([]apiclient.Interceptor, 0, 3)
	if c.Config.MockEnabled {
		interceptors = append(interceptors, c.Stub.Intercept)
	}
	interceptors = append(interceptors,
		apiclient.AuthInterceptor(token),
		apiclient.ErrorInterceptor(apiclient.ErrorHandlerConfig{
			OnUnauthorized: onUnauthorized,
			Notifier:       c.Notifications,
			Log:            c.Errors,
			Metrics:        c.Metrics,
		}),
	)
	return apiclient.Chain(terminalTransport(c.Config), interceptors...)
}

// terminalTransport はチェーン終端のトランスポートを返す。
// モック有効かつAPI_BASE_URL未指定の場合はバックエンドが無いため、OfflineTransportを使う。
// nilはhttp.DefaultTransportを意味する。
func terminalTransport(cfg *config.Config) http.RoundTripper {
	if cfg.MockEnabled && !cfg.APIBaseURLSet {
		return apiclient.OfflineTransport{}
	}
	return nil
}

func stubConfig(cfg *config.Config) mockapi.Config {
	return mockapi.Config{
		APIRoot:    cfg.APIRoot,
		AuthDelay:  cfg.MockAuthDelay,
		ReadDelay:  cfg.MockReadDelay,
		WriteDelay: cfg.MockWriteDelay,
	}
}

// Close は通知タイマーを止め、ストレージを閉じる。
func (c *Context) Close() error {
	if c.Notifications != nil {
		c.Notifications.Close()
	}
	if c.Store == nil {
		return nil
	}
	if err := c.Store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
