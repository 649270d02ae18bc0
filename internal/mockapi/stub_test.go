package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/hitoshi/hrms/internal/metrics"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/security"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- テスト用ヘルパー ---

// passthroughRecorder は素通しされたリクエストを数え、418を返す次段。
type passthroughRecorder struct {
	calls atomic.Int32
	last  *http.Request
}

func (p *passthroughRecorder) RoundTrip(r *http.Request) (*http.Response, error) {
	p.calls.Add(1)
	p.last = r
	return &http.Response{
		StatusCode: http.StatusTeapot,
		Body:       io.NopCloser(strings.NewReader(`{"message":"upstream"}`)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func newTestStub(t *testing.T, cfg Config, rec metrics.MetricsCollector) (*Stub, *AuthService) {
	t.Helper()
	fx, err := DefaultFixtures()
	if err != nil {
		t.Fatalf("DefaultFixtures() error = %v", err)
	}
	auth := NewAuthService(
		NewCredentialTable(fx.Credentials),
		NewTokenIssuer("test-secret", time.Hour),
		security.NewNameSanitizer(),
	)
	return NewStub(cfg, auth, NewDirectory(fx.Employees), rec), auth
}

func noDelay() Config {
	return Config{APIRoot: "/api"}
}

func doJSON(t *testing.T, s *Stub, next http.RoundTripper, method, path string, body any) *http.Response {
	t.Helper()
	return doJSONContext(t, context.Background(), s, next, method, path, body)
}

func doJSONContext(t *testing.T, ctx context.Context, s *Stub, next http.RoundTripper, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, "http://hrms.test"+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if next == nil {
		next = &passthroughRecorder{}
	}
	resp, err := s.Intercept(req, next)
	if err != nil {
		t.Fatalf("Intercept(%s %s) error = %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// --- ログイン ---

// TestLogin_AllFixtureIdentifiers は各エントリのキー・ID・メールアドレスでログインできることを検証する。
func TestLogin_AllFixtureIdentifiers(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)
	fx, _ := DefaultFixtures()

	for _, c := range fx.Credentials {
		for _, login := range []string{c.Key, c.User.ID, c.User.Email} {
			t.Run(c.Key+"/"+login, func(t *testing.T) {
				resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
					model.LoginRequest{Email: login, Password: c.Password})
				if resp.StatusCode != http.StatusOK {
					t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
				}
				body := decode[model.LoginResponse](t, resp)
				if body.User.ID != c.User.ID {
					t.Errorf("user.id = %q, want %q", body.User.ID, c.User.ID)
				}
				if body.AccessToken == "" {
					t.Error("accessToken should not be empty")
				}
				if body.ExpiresIn != 3600 {
					t.Errorf("expiresIn = %d, want 3600", body.ExpiresIn)
				}
			})
		}
	}
}

// TestLogin_AdminHasAdminRole は管理者でログインするとADMINロールが返ることを検証する。
func TestLogin_AdminHasAdminRole(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "mani@hrms.com", Password: "mani@1234"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decode[model.LoginResponse](t, resp)

	if !body.User.HasRole(model.RoleAdmin) {
		t.Errorf("roles = %+v, want ADMIN", body.User.Roles)
	}
	for _, p := range []string{"READ", "WRITE", "DELETE"} {
		if !body.User.HasPermission(p) {
			t.Errorf("HasPermission(%q) = false, want true", p)
		}
	}
}

// TestLogin_InvalidCredentials はパスワード不一致・未登録で401が返ることを検証する。
func TestLogin_InvalidCredentials(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	tests := []struct {
		name  string
		login string
		pw    string
	}{
		{"EMP001の誤パスワード", "EMP001", "wrong"},
		{"未登録ユーザー", "nobody@hrms.com", "password"},
		{"管理者に社員パスワード", "mani@hrms.com", "password"},
		{"空の資格情報", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
				model.LoginRequest{Email: tt.login, Password: tt.pw})
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
			}
			body := decode[model.APIError](t, resp)
			if body.Code != model.ErrCodeInvalidCredentials {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidCredentials)
			}
			if body.Message != "Invalid ID/Email or password" {
				t.Errorf("message = %q, want %q", body.Message, "Invalid ID/Email or password")
			}
		})
	}
}

// TestLogin_MalformedBody は不正なJSONで400が返ることを検証する。
func TestLogin_MalformedBody(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	req, _ := http.NewRequest(http.MethodPost, "http://hrms.test/api/auth/login", strings.NewReader("{"))
	resp, err := s.Intercept(req, &passthroughRecorder{})
	if err != nil {
		t.Fatalf("Intercept() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// --- 登録 ---

// TestRegister_ThenLogin は登録直後に同じ資格情報でログインできることを検証する。
func TestRegister_ThenLogin(t *testing.T) {
	s, auth := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/register", model.RegisterRequest{
		FirstName: "New",
		LastName:  "<b>Hire</b>",
		Email:     "new.hire@hrms.com",
		Password:  "s3cret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	created := decode[model.LoginResponse](t, resp)

	if created.User.Username != "new.hire" {
		t.Errorf("username = %q, want %q", created.User.Username, "new.hire")
	}
	if created.User.LastName != "Hire" {
		t.Errorf("lastName = %q, want markup stripped %q", created.User.LastName, "Hire")
	}
	if !created.User.HasRole(model.RoleEmployee) || !created.User.HasPermission("READ") {
		t.Errorf("roles = %+v, want EMPLOYEE with READ", created.User.Roles)
	}
	if !created.User.IsActive {
		t.Error("isActive = false, want true")
	}
	if !strings.HasPrefix(created.User.ProfileImage, "https://ui-avatars.com/api/?name=New+Hire") {
		t.Errorf("profileImage = %q", created.User.ProfileImage)
	}
	if keys := auth.Credentials().Keys(); keys[len(keys)-1] != "new.hire@hrms.com" {
		t.Errorf("last key = %q, want appended entry", keys[len(keys)-1])
	}

	login := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "new.hire@hrms.com", Password: "s3cret"})
	if login.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want %d", login.StatusCode, http.StatusOK)
	}
	got := decode[model.LoginResponse](t, login)
	if got.User.ID != created.User.ID {
		t.Errorf("login user.id = %q, want %q", got.User.ID, created.User.ID)
	}
}

// TestRegister_Conflict は既存キーの登録で409が返りテーブルが変化しないことを検証する。
func TestRegister_Conflict(t *testing.T) {
	s, auth := newTestStub(t, noDelay(), nil)
	before := auth.Credentials().Len()

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/register", model.RegisterRequest{
		FirstName: "Dup", LastName: "Admin", Email: "mani@hrms.com", Password: "x",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	body := decode[model.APIError](t, resp)
	if body.Code != model.ErrCodeEmailExists || body.Message != "Email already registered" {
		t.Errorf("body = %+v, want EMAIL_EXISTS / Email already registered", body)
	}
	if got := auth.Credentials().Len(); got != before {
		t.Errorf("table size = %d, want %d", got, before)
	}
}

// TestRegister_EmailOnlyInsideUserIsNotConflict は重複判定がキーのみで行われることを検証する。
func TestRegister_EmailOnlyInsideUserIsNotConflict(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/register", model.RegisterRequest{
		FirstName: "K", LastName: "A", Email: "kiruthik.aswanth@company.com", Password: "other",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

// --- パスワード・メールアドレス変更 ---

// TestChangePassword_FirstEntry は先頭エントリのパスワードが変更されることを検証する。
func TestChangePassword_FirstEntry(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/change-password",
		model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "next"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if body := decode[model.APIError](t, resp); body.Message != "Current password is incorrect" || body.Code != model.ErrCodeInvalidPassword {
		t.Errorf("body = %+v", body)
	}

	resp = doJSON(t, s, nil, http.MethodPost, "/api/auth/change-password",
		model.ChangePasswordRequest{CurrentPassword: "mani@1234", NewPassword: "next"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if body := decode[model.MessageResponse](t, resp); body.Message != "Password changed successfully" {
		t.Errorf("message = %q", body.Message)
	}

	old := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "mani@hrms.com", Password: "mani@1234"})
	if old.StatusCode != http.StatusUnauthorized {
		t.Errorf("old password status = %d, want %d", old.StatusCode, http.StatusUnauthorized)
	}
	renewed := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "mani@hrms.com", Password: "next"})
	if renewed.StatusCode != http.StatusOK {
		t.Errorf("new password status = %d, want %d", renewed.StatusCode, http.StatusOK)
	}
}

// TestChangeEmail_SequentialCallsSeeRekeyedFirstEntry は付け替え後の先頭エントリが
// EMP001になることを2回の連続呼び出しで検証する。
func TestChangeEmail_SequentialCallsSeeRekeyedFirstEntry(t *testing.T) {
	s, auth := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/change-email",
		model.ChangeEmailRequest{NewEmail: "admin@hrms.com", Password: "mani@1234"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first change status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	first := decode[model.ChangeEmailResponse](t, resp)
	if first.Message != "Email changed successfully" {
		t.Errorf("message = %q", first.Message)
	}
	if first.User == nil || first.User.ID != "1" || first.User.Email != "admin@hrms.com" {
		t.Fatalf("user = %+v, want id 1 with new email", first.User)
	}

	keys := auth.Credentials().Keys()
	if keys[0] != "EMP001" || keys[len(keys)-1] != "admin@hrms.com" {
		t.Fatalf("keys = %v, want EMP001 first and admin@hrms.com last", keys)
	}

	// 2回目: 先頭はEMP001なので管理者のパスワードは通らない
	resp = doJSON(t, s, nil, http.MethodPost, "/api/auth/change-email",
		model.ChangeEmailRequest{NewEmail: "other@hrms.com", Password: "mani@1234"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("second change with admin password status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if body := decode[model.APIError](t, resp); body.Message != "Password is incorrect" {
		t.Errorf("message = %q, want %q", body.Message, "Password is incorrect")
	}

	resp = doJSON(t, s, nil, http.MethodPost, "/api/auth/change-email",
		model.ChangeEmailRequest{NewEmail: "kiruthik@hrms.com", Password: "password"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second change with EMP001 password status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	second := decode[model.ChangeEmailResponse](t, resp)
	if second.User == nil || second.User.ID != "EMP001" {
		t.Errorf("user = %+v, want EMP001", second.User)
	}

	// 付け替え後も新しいキーでログインできる
	login := doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "admin@hrms.com", Password: "mani@1234"})
	if login.StatusCode != http.StatusOK {
		t.Errorf("login with new email status = %d, want %d", login.StatusCode, http.StatusOK)
	}
}

// TestChangeEmail_Conflict は既存キーへの変更で409が返ることを検証する。
func TestChangeEmail_Conflict(t *testing.T) {
	s, auth := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPost, "/api/auth/change-email",
		model.ChangeEmailRequest{NewEmail: "EMP002", Password: "mani@1234"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if body := decode[model.APIError](t, resp); body.Message != "Email already exists" {
		t.Errorf("message = %q, want %q", body.Message, "Email already exists")
	}
	if keys := auth.Credentials().Keys(); keys[0] != "mani@hrms.com" {
		t.Errorf("first key = %q, want unchanged", keys[0])
	}
}

// --- 社員 ---

// TestEmployees_List はエンベロープの不変条件を検証する。
func TestEmployees_List(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodGet, "/api/employees?pageNumber=3&pageSize=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	page := decode[model.PaginatedResponse[model.Employee]](t, resp)

	if len(page.Items) != 25 || len(page.Data) != 25 {
		t.Errorf("len(items) = %d, len(data) = %d, want 25", len(page.Items), len(page.Data))
	}
	if page.PageNumber != 1 || page.PageSize != 25 || page.TotalCount != 25 || page.TotalPages != 1 {
		t.Errorf("envelope = {%d %d %d %d}, want {1 25 25 1}",
			page.PageNumber, page.PageSize, page.TotalCount, page.TotalPages)
	}
	if page.HasNextPage || page.HasPreviousPage {
		t.Error("single page should have neither next nor previous")
	}
}

// TestEmployees_Get はidとemployeeIdで取得できることと404を検証する。
func TestEmployees_Get(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodGet, "/api/employees/EMP003", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	emp := decode[model.Employee](t, resp)
	if emp.Designation != "Product Manager" {
		t.Errorf("designation = %q, want %q", emp.Designation, "Product Manager")
	}

	resp = doJSON(t, s, nil, http.MethodGet, "/api/employees/EMP999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	body := decode[model.APIError](t, resp)
	if body.Message != "Employee not found" || body.Code != model.ErrCodeEmployeeNotFound {
		t.Errorf("body = %+v", body)
	}
}

// TestEmployees_UpdateEchoesWithoutPersisting はPUTが送信内容を返し、保存しないことを検証する。
func TestEmployees_UpdateEchoesWithoutPersisting(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	resp := doJSON(t, s, nil, http.MethodPut, "/api/employees/EMP004",
		map[string]any{"id": "spoofed", "designation": "Design Lead", "extra": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	got := decode[map[string]any](t, resp)
	if got["id"] != "EMP004" || got["designation"] != "Design Lead" || got["extra"] != float64(1) {
		t.Errorf("body = %v", got)
	}

	resp = doJSON(t, s, nil, http.MethodGet, "/api/employees/EMP004", nil)
	if emp := decode[model.Employee](t, resp); emp.Designation != "Senior UI/UX Designer" {
		t.Errorf("designation = %q, want fixture value", emp.Designation)
	}
}

// --- 素通し ---

// TestIntercept_PassesThroughUnmatched は一致しないリクエストが次段に渡ることを検証する。
func TestIntercept_PassesThroughUnmatched(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/refresh"},
		{http.MethodGet, "/api/auth/login"},
		{http.MethodPost, "/api/employees"},
		{http.MethodDelete, "/api/employees/EMP001"},
		{http.MethodGet, "/api/leave/requests"},
		{http.MethodGet, "/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			next := &passthroughRecorder{}
			resp := doJSON(t, s, next, tt.method, tt.path, nil)
			if next.calls.Load() != 1 {
				t.Fatalf("next calls = %d, want 1", next.calls.Load())
			}
			if resp.StatusCode != http.StatusTeapot {
				t.Errorf("status = %d, want upstream response", resp.StatusCode)
			}
		})
	}
}

// TestIntercept_CustomAPIRoot はAPIルートの変更がルーティングに反映されることを検証する。
func TestIntercept_CustomAPIRoot(t *testing.T) {
	s, _ := newTestStub(t, Config{APIRoot: "/v2/"}, nil)

	if !s.Match(http.MethodPost, "/v2/auth/login") {
		t.Error("Match(/v2/auth/login) = false, want true")
	}
	if s.Match(http.MethodPost, "/api/auth/login") {
		t.Error("Match(/api/auth/login) = true, want false")
	}
}

// TestIntercept_BaseURLWithPathPrefix はベースURLにパスがあってもモックのルートに一致することを検証する。
func TestIntercept_BaseURLWithPathPrefix(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	next := &passthroughRecorder{}
	resp := doJSON(t, s, next, http.MethodPost, "/backend/api/auth/login",
		model.LoginRequest{Email: "mani@hrms.com", Password: "mani@1234"})
	login := decode[model.LoginResponse](t, resp)

	if next.calls.Load() != 0 {
		t.Errorf("next calls = %d, want 0", next.calls.Load())
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if login.AccessToken == "" {
		t.Error("AccessToken is empty")
	}

	// プレフィックス付きでもモックに無いルートは素通しする
	next = &passthroughRecorder{}
	resp = doJSON(t, s, next, http.MethodGet, "/backend/api/leave/requests", nil)
	resp.Body.Close()
	if next.calls.Load() != 1 {
		t.Errorf("next calls = %d, want 1", next.calls.Load())
	}
	if got := next.last.URL.Path; got != "/backend/api/leave/requests" {
		t.Errorf("forwarded path = %q, want the original path", got)
	}
}

func TestRoutePath(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	tests := []struct {
		in   string
		want string
	}{
		{"/api/auth/login", "/api/auth/login"},
		{"/backend/api/auth/login", "/api/auth/login"},
		{"/a/b/api/employees/EMP001", "/api/employees/EMP001"},
		{"/auth/login", "/auth/login"},
		{"/apiary/auth/login", "/apiary/auth/login"},
	}

	for _, tt := range tests {
		if got := s.routePath(tt.in); got != tt.want {
			t.Errorf("routePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- 遅延 ---

// TestIntercept_AppliesDelay は設定した遅延が応答前に入ることを検証する。
func TestIntercept_AppliesDelay(t *testing.T) {
	cfg := Config{APIRoot: "/api", ReadDelay: 30 * time.Millisecond}
	s, _ := newTestStub(t, cfg, nil)

	start := time.Now()
	resp := doJSON(t, s, nil, http.MethodGet, "/api/employees", nil)
	resp.Body.Close()

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 30ms", elapsed)
	}
}

// TestIntercept_CancelledDuringDelay は遅延中のキャンセルでエラーが返り、状態が変わらないことを検証する。
func TestIntercept_CancelledDuringDelay(t *testing.T) {
	cfg := Config{APIRoot: "/api", AuthDelay: time.Second}
	s, auth := newTestStub(t, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	body, _ := json.Marshal(model.RegisterRequest{Email: "late@hrms.com", Password: "x"})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "http://hrms.test/api/auth/register", bytes.NewReader(body))

	start := time.Now()
	_, err := s.Intercept(req, &passthroughRecorder{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) >= time.Second {
		t.Error("Intercept should return before the full delay")
	}
	if auth.Credentials().HasKey("late@hrms.com") {
		t.Error("cancelled register should not insert an entry")
	}
}

// --- HTTPハンドラーとして ---

// TestPassthrough_ServesMatchedAndDelegates は開発サーバー向けミドルウェアの振り分けを検証する。
func TestPassthrough_ServesMatchedAndDelegates(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	var delegated int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delegated++
		w.WriteHeader(http.StatusAccepted)
	})
	h := s.Passthrough(next)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/EMP001", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("matched status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/payroll/slips", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted || delegated != 1 {
		t.Errorf("unmatched status = %d, delegated = %d, want 202 / 1", w.Code, delegated)
	}
}

// TestServeHTTP_UnknownRouteIsJSON404 は直接公開時の未定義ルートがJSONの404になることを検証する。
func TestServeHTTP_UnknownRouteIsJSON404(t *testing.T) {
	s, _ := newTestStub(t, noDelay(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

// --- メトリクス ---

// TestStub_RecordsMetrics はルートパターンとステータスで記録されることを検証する。
func TestStub_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	s, _ := newTestStub(t, noDelay(), c)

	doJSON(t, s, nil, http.MethodGet, "/api/employees/EMP999", nil).Body.Close()
	doJSON(t, s, nil, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "EMP001", Password: "password"}).Body.Close()

	n, err := testutil.GatherAndCount(reg, "hrms_stub_requests_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("stub_requests_total series = %d, want 2", n)
	}
	expected := `
# HELP hrms_login_attempts_total ログイン試行数（結果別）
# TYPE hrms_login_attempts_total counter
hrms_login_attempts_total{outcome="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "hrms_login_attempts_total"); err != nil {
		t.Error(err)
	}
}
