// Package session はクライアント側の認証状態を管理する。
//
// Managerはログイン中のユーザーとアクセストークンを保持し、永続ストレージと同期する。
// 状態はstate.Signalで公開され、書き込みはManagerだけが行う。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/repository"
	"github.com/hitoshi/hrms/internal/state"
)

// 永続ストレージのキー
const (
	KeyAccessToken  = "accessToken"
	KeyUser         = "user"
	KeyRefreshToken = "refreshToken"
)

// LoginRoute はログアウト後の遷移先。
const LoginRoute = "/login"

// ErrNoRefreshToken はリフレッシュトークンが保存されていない場合のエラー。
var ErrNoRefreshToken = errors.New("no refresh token available")

// 失敗時のメッセージ（サーバーがmessageを返さなかった場合）
const (
	msgLoginFailed          = "Login failed"
	msgRegistrationFailed   = "Registration failed"
	msgChangePasswordFailed = "Failed to change password"
	msgChangeEmailFailed    = "Failed to change email"
)

// APIClient はManagerが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Navigator は画面遷移の要求先。CLIではログ出力などに置き換える。
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc は関数をNavigatorとして扱うアダプタ。
type NavigatorFunc func(route string)

// Navigate はfを呼ぶ。
func (f NavigatorFunc) Navigate(route string) { f(route) }

// Manager はセッション状態マネージャー。
type Manager struct {
	store  repository.KeyValueStore
	client APIClient
	nav    Navigator
	state  *state.Signal[model.Session]
}

// NewManager はManagerを生成する。状態は空で、復元にはHydrateを呼ぶ。
// navがnilの場合は遷移要求を無視する。
func NewManager(store repository.KeyValueStore, client APIClient, nav Navigator) *Manager {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Manager{
		store:  store,
		client: client,
		nav:    nav,
		state:  state.NewSignalWithClone(model.Session{}, model.Session.Clone),
	}
}

// Hydrate は永続ストレージからトークンとユーザーを読み込み、両方あれば認証済みにする。
// 通信は行わない。ユーザーのJSONが壊れている場合は未保存として扱う。
func (m *Manager) Hydrate(ctx context.Context) error {
	token, hasToken, err := m.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	raw, hasUser, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}
	if !hasToken || !hasUser || token == "" || raw == "" {
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.WarnContext(ctx, "stored user is unreadable, ignoring",
			slog.String("error", err.Error()),
		)
		return nil
	}

	m.state.Update(func(s model.Session) model.Session {
		s.AccessToken = token
		s.CurrentUser = &user
		s.IsAuthenticated = true
		return s
	})
	return nil
}

// Login はログインしてセッションを保存する。
// 失敗時はサーバーのメッセージ（無ければ"Login failed"）をLastErrorに設定し、エラーを返す。
func (m *Manager) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	m.begin()

	var resp model.LoginResponse
	if err := m.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		m.fail(apiclient.MessageOr(err, msgLoginFailed))
		return nil, err
	}

	m.setAuthState(ctx, &resp)
	return &resp, nil
}

// Register はユーザーを登録し、作成されたユーザーを返す。呼び出し元はログインしない。
// レスポンスは{user: ...}形式とユーザー単体の両方を受け付ける。
func (m *Manager) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	m.begin()

	var raw json.RawMessage
	if err := m.client.Post(ctx, "/auth/register", req, &raw); err != nil {
		m.fail(apiclient.MessageOr(err, msgRegistrationFailed))
		return nil, err
	}

	user, err := decodeRegisteredUser(raw)
	if err != nil {
		m.fail(msgRegistrationFailed)
		return nil, err
	}

	m.done()
	return user, nil
}

func decodeRegisteredUser(raw json.RawMessage) (*model.User, error) {
	var wrapped struct {
		User *model.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode register response: %w", err)
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode register response: %w", err)
	}
	return &user, nil
}

// Logout はストレージからセッションを削除し、状態を空にしてログイン画面へ遷移させる。
// 失敗しない。ストレージのエラーはログに記録するだけ。
func (m *Manager) Logout() {
	ctx := context.Background()
	for _, key := range []string{KeyAccessToken, KeyUser, KeyRefreshToken} {
		if err := m.store.Delete(ctx, key); err != nil {
			slog.Error("failed to remove session key",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	m.state.Set(model.Session{})
	m.nav.Navigate(LoginRoute)
}

// RefreshToken は保存済みのリフレッシュトークンでセッションを更新する。
// トークンが無い場合はリクエストせずにErrNoRefreshTokenを返す。
// リクエストが失敗した場合はログアウトする。
func (m *Manager) RefreshToken(ctx context.Context) (*model.LoginResponse, error) {
	refresh, ok, err := m.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if !ok || refresh == "" {
		return nil, ErrNoRefreshToken
	}

	var resp model.LoginResponse
	if err := m.client.Post(ctx, "/auth/refresh", model.RefreshRequest{RefreshToken: refresh}, &resp); err != nil {
		m.Logout()
		return nil, err
	}

	m.setAuthState(ctx, &resp)
	return &resp, nil
}

// ChangePassword はパスワードを変更する。
func (m *Manager) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) (*model.MessageResponse, error) {
	m.begin()

	var resp model.MessageResponse
	if err := m.client.Post(ctx, "/auth/change-password", req, &resp); err != nil {
		m.fail(apiclient.MessageOr(err, msgChangePasswordFailed))
		return nil, err
	}

	m.done()
	return &resp, nil
}

// ChangeEmail はメールアドレスを変更し、返されたユーザーで保存済みのユーザーを置き換える。
func (m *Manager) ChangeEmail(ctx context.Context, req model.ChangeEmailRequest) (*model.ChangeEmailResponse, error) {
	m.begin()

	var resp model.ChangeEmailResponse
	if err := m.client.Post(ctx, "/auth/change-email", req, &resp); err != nil {
		m.fail(apiclient.MessageOr(err, msgChangeEmailFailed))
		return nil, err
	}

	if resp.User == nil {
		m.done()
		return &resp, nil
	}

	m.persistUser(ctx, resp.User)
	user := resp.User.Clone()
	m.state.Update(func(s model.Session) model.Session {
		s.CurrentUser = user
		s.IsLoading = false
		return s
	})
	return &resp, nil
}

// HasRole はログイン中のユーザーが指定ロールを持つかを返す。
func (m *Manager) HasRole(name string) bool {
	return m.state.Get().CurrentUser.HasRole(name)
}

// HasAnyRole はログイン中のユーザーがいずれかのロールを持つかを返す。
func (m *Manager) HasAnyRole(names ...string) bool {
	user := m.state.Get().CurrentUser
	for _, n := range names {
		if user.HasRole(n) {
			return true
		}
	}
	return false
}

// HasPermission はログイン中のユーザーが指定権限を持つかを返す。
func (m *Manager) HasPermission(name string) bool {
	return m.state.Get().CurrentUser.HasPermission(name)
}

// State は現在のセッション状態のコピーを返す。
func (m *Manager) State() model.Session {
	return m.state.Get()
}

// Subscribe はセッション状態の変更を購読する。
func (m *Manager) Subscribe(fn func(model.Session)) (cancel func()) {
	return m.state.Subscribe(fn)
}

// AccessToken は現在のアクセストークンを返す。未ログインなら空文字列。
func (m *Manager) AccessToken() string {
	return m.state.Get().AccessToken
}

// CurrentUser はログイン中のユーザーのコピーを返す。未ログインならnil。
func (m *Manager) CurrentUser() *model.User {
	return m.state.Get().CurrentUser
}

// IsAuthenticated はログイン済みかを返す。
func (m *Manager) IsAuthenticated() bool {
	return m.state.Get().IsAuthenticated
}

func (m *Manager) begin() {
	m.state.Update(func(s model.Session) model.Session {
		s.IsLoading = true
		s.LastError = ""
		return s
	})
}

func (m *Manager) done() {
	m.state.Update(func(s model.Session) model.Session {
		s.IsLoading = false
		return s
	})
}

func (m *Manager) fail(message string) {
	m.state.Update(func(s model.Session) model.Session {
		s.IsLoading = false
		s.LastError = message
		return s
	})
}

// setAuthState はログイン結果を保存して認証済みの状態にする。
// ストレージへの書き込み失敗はログに記録し、メモリ上の状態は更新する。
func (m *Manager) setAuthState(ctx context.Context, resp *model.LoginResponse) {
	if err := m.store.Set(ctx, KeyAccessToken, resp.AccessToken); err != nil {
		slog.ErrorContext(ctx, "failed to persist access token", slog.String("error", err.Error()))
	}
	m.persistUser(ctx, &resp.User)
	if resp.RefreshToken != "" {
		if err := m.store.Set(ctx, KeyRefreshToken, resp.RefreshToken); err != nil {
			slog.ErrorContext(ctx, "failed to persist refresh token", slog.String("error", err.Error()))
		}
	}

	m.state.Set(model.Session{
		CurrentUser:     resp.User.Clone(),
		IsAuthenticated: true,
		AccessToken:     resp.AccessToken,
	})
}

func (m *Manager) persistUser(ctx context.Context, user *model.User) {
	data, err := json.Marshal(user)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode user", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Set(ctx, KeyUser, string(data)); err != nil {
		slog.ErrorContext(ctx, "failed to persist user", slog.String("error", err.Error()))
	}
}
