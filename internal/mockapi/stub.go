// Package mockapi はバックエンドを持たない開発環境向けのモックAPIを提供する。
//
// Stubは認証・社員エンドポイントをメモリ上のフィクスチャで応答し、
// 人工的な遅延を挟む。一致しないリクエストは次のハンドラーへ素通しする。
// APIクライアントのインターセプタとしても、開発サーバーのhttp.Handlerとしても使える。
package mockapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/middleware"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/security"
)

// Config はStubの設定。
type Config struct {
	APIRoot    string        // ルートのパスプレフィックス（例: /api）
	AuthDelay  time.Duration // /auth/* の遅延
	ReadDelay  time.Duration // GET /employees* の遅延
	WriteDelay time.Duration // PUT /employees/{id} の遅延
}

// DefaultConfig はデフォルトの設定を返す。
func DefaultConfig() Config {
	return Config{
		APIRoot:    "/api",
		AuthDelay:  800 * time.Millisecond,
		ReadDelay:  500 * time.Millisecond,
		WriteDelay: 800 * time.Millisecond,
	}
}

// Stub はモックAPIのディスパッチャ。
// ルートの一致判定は(パス, メソッド)の完全一致で、chiのMatchで行う。
type Stub struct {
	cfg     Config
	router  *chi.Mux
	metrics metrics.MetricsCollector
}

// NewStub はStubを生成する。
func NewStub(cfg Config, auth AuthServiceInterface, dir EmployeeDirectory, rec metrics.MetricsCollector) *Stub {
	if rec == nil {
		rec = metrics.Nop{}
	}
	s := &Stub{
		cfg:     cfg,
		router:  chi.NewRouter(),
		metrics: rec,
	}
	h := NewHandler(auth, dir, rec)
	root := strings.TrimSuffix(cfg.APIRoot, "/")

	r := s.router
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError(r.URL.Path))
	})

	authed := r.With(s.observe, delay(cfg.AuthDelay))
	authed.Post(root+"/auth/login", h.Login)
	authed.Post(root+"/auth/register", h.Register)
	authed.Post(root+"/auth/change-password", h.ChangePassword)
	authed.Post(root+"/auth/change-email", h.ChangeEmail)

	reads := r.With(s.observe, delay(cfg.ReadDelay))
	reads.Get(root+"/employees", h.ListEmployees)
	reads.Get(root+"/employees/{id}", h.GetEmployee)

	r.With(s.observe, delay(cfg.WriteDelay)).Put(root+"/employees/{id}", h.UpdateEmployee)

	return s
}

// NewFromFixtures はフィクスチャから資格情報テーブルとディレクトリを組み立ててStubを生成する。
func NewFromFixtures(cfg Config, fx *Fixtures, tokens *TokenIssuer, rec metrics.MetricsCollector) *Stub {
	auth := NewAuthService(NewCredentialTable(fx.Credentials), tokens, security.NewNameSanitizer())
	return NewStub(cfg, auth, NewDirectory(fx.Employees), rec)
}

// Match はリクエストをStubが処理するかを返す。
func (s *Stub) Match(method, path string) bool {
	return s.router.Match(chi.NewRouteContext(), method, path)
}

// ServeHTTP はStubをhttp.Handlerとして公開する。一致しないルートは404。
// 外側のchiルーターのルーティング状態は引き継がず、URLのパス全体で照合する。
func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, (*chi.Context)(nil)))
	}
	s.router.ServeHTTP(w, r)
}

// Passthrough は一致したリクエストをStubで処理し、それ以外をnextへ渡すミドルウェアを返す。
func (s *Stub) Passthrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Match(r.Method, r.URL.Path) {
			s.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Intercept はAPIクライアントのインターセプタとして動作する。
// 一致したリクエストはプロセス内で応答し、それ以外はnextに委譲する。
// エラー応答も非2xxのhttp.Responseとして返すため、通信エラーと同じ経路で扱われる。
func (s *Stub) Intercept(req *http.Request, next http.RoundTripper) (*http.Response, error) {
	path := s.routePath(req.URL.Path)
	if !s.Match(req.Method, path) {
		return next.RoundTrip(req)
	}

	inReq := req.Clone(req.Context())
	inReq.URL.Path = path
	inReq.URL.RawPath = ""
	if inReq.Body == nil {
		inReq.Body = http.NoBody
	}

	cw := newCaptureWriter()
	s.ServeHTTP(cw, inReq)

	// 遅延中にキャンセルされた場合は通信エラーとして返す
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return cw.response(req), nil
}

// routePath はAPIルートより前にあるベースURLのパスを取り除く。
// 例えばベースURLが http://host/backend なら /backend/api/auth/login を /api/auth/login として照合する。
func (s *Stub) routePath(p string) string {
	root := strings.TrimSuffix(s.cfg.APIRoot, "/")
	if root == "" || strings.HasPrefix(p, root+"/") {
		return p
	}
	if i := strings.Index(p, root+"/"); i > 0 {
		return p[i:]
	}
	return p
}

// observe は応答ステータスとレイテンシをメトリクスに記録する。
func (s *Stub) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if ww.Status() == 0 {
			return
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		s.metrics.RecordStubRequest(route, ww.Status())
		s.metrics.RecordStubLatency(route, time.Since(start))
	})
}

// delay は応答前に固定時間待機するミドルウェアを返す。
// 待機中にリクエストのコンテキストが終了した場合は何も書き込まずに戻る。
func delay(d time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sleep(r.Context(), d); err != nil {
				slog.Debug("mock request cancelled during delay",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// captureWriter はプロセス内応答をバッファするhttp.ResponseWriter。
type captureWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header)}
}

func (c *captureWriter) Header() http.Header {
	return c.header
}

func (c *captureWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return c.body.Write(b)
}

func (c *captureWriter) response(req *http.Request) *http.Response {
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	body := c.body.Bytes()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        c.header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
