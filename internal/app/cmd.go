package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hitoshi/hrms/internal/config"
	"github.com/hitoshi/hrms/internal/database"
)

const appName = "hrms"

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析して実行する。
// argsにはos.Args[1:]を渡す。コマンドの出力はwへ、ログと通知は標準エラーへ書き込む。
func Run(w io.Writer, args []string) error {
	return run(w, os.Stderr, args)
}

func run(out, errOut io.Writer, args []string) error {
	root := newRootCmd(errOut)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(context.Background())
}

// cli はサブコマンド間で共有する出力先。
type cli struct {
	errOut io.Writer
}

func newRootCmd(errOut io.Writer) *cobra.Command {
	c := &cli{errOut: errOut}

	root := &cobra.Command{
		Use:   appName,
		Short: "HRMS session client and mock API",
		Long: `hrms runs the HRMS mock API as a development server and drives the
client-side session (login, logout, token refresh, profile changes) and the
employee directory from the command line.

Session state is persisted to STORAGE_URL between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.serveCmd(),
		c.migrateCmd(),
		healthcheckCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.registerCmd(),
		c.changePasswordCmd(),
		c.changeEmailCmd(),
		c.refreshCmd(),
		c.employeesCmd(),
		c.settingsCmd(),
	)
	return root
}

// runFunc はワイヤリング済みのContextを受け取るコマンド本体。
type runFunc func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error

// withContext は設定を読み込んでContextを組み立て、fnの実行後に通知を出力して閉じる。
func (c *cli) withContext(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := Init(c.errOut)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}

		slog.Debug("starting command",
			slog.String("command", cmd.CommandPath()),
			slog.Bool("mock_enabled", cfg.MockEnabled),
			slog.String("storage_url", maskStorageURL(cfg.StorageURL)),
		)

		ctx := cmd.Context()
		app, err := Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		runErr := fn(ctx, cmd, app, args)
		c.flushNotifications(app)
		return runErr
	}
}

// flushNotifications は表示中の通知を標準エラーへ書き出す。
func (c *cli) flushNotifications(app *Context) {
	for _, n := range app.Notifications.All() {
		fmt.Fprintf(c.errOut, "[%s] %s\n", n.Type, n.Message)
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply storage migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(c.errOut)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			return runMigrate(cfg)
		},
	}
}

// runMigrate はストレージのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running storage migrations",
		slog.String("storage_url", maskStorageURL(cfg.StorageURL)),
	)

	if err := database.RunMigrations(cfg.StorageURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("storage migrations completed successfully")
	return nil
}

// healthcheckCmd は軽量サブコマンドのため、フル初期化をスキップする。
func healthcheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the /health endpoint of a running dev server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port := os.Getenv("SERVER_PORT")
			if port == "" {
				port = "8080"
			}
			return runHealthcheck(port)
		},
	}
}

// runHealthcheck はヘルスチェックを実行する。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	endpoint := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskStorageURL はストレージURLの認証情報をマスクする。
func maskStorageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
