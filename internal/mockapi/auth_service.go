package mockapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/security"
)

// 登録ユーザーに付与するデフォルトロール
var defaultEmployeeRole = model.Role{
	ID:       "2",
	Name:     model.RoleEmployee,
	IsActive: true,
	Permissions: []model.Permission{
		{ID: "1", Name: "READ"},
	},
}

// AuthService はモック認証エンドポイントのビジネスロジックを提供する。
type AuthService struct {
	creds     *CredentialTable
	tokens    *TokenIssuer
	sanitizer security.NameSanitizer
	now       func() time.Time
	newID     func() string
}

// NewAuthService はAuthServiceを生成する。
func NewAuthService(creds *CredentialTable, tokens *TokenIssuer, sanitizer security.NameSanitizer) *AuthService {
	return &AuthService{
		creds:     creds,
		tokens:    tokens,
		sanitizer: sanitizer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Credentials は資格情報テーブルを返す。
func (s *AuthService) Credentials() *CredentialTable {
	return s.creds
}

// Login はメールアドレスまたは社員IDとパスワードで認証し、トークンを発行する。
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, ok := s.creds.Authenticate(req.Email, req.Password)
	if !ok {
		slog.InfoContext(ctx, "mock login rejected", slog.String("login", req.Email))
		return nil, model.NewInvalidCredentialsError()
	}
	return s.issue(user)
}

// Register はユーザーを作成してテーブル末尾に追加する。
// 重複判定はキーのみで行い、既存エントリのuser.emailは見ない。
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, model.NewInvalidRequestError("email is required")
	}
	if s.creds.HasKey(email) {
		return nil, model.NewEmailRegisteredError()
	}

	firstName := s.sanitizer.Sanitize(req.FirstName)
	lastName := s.sanitizer.Sanitize(req.LastName)
	now := s.now().UTC()

	user := model.User{
		ID:           s.newID(),
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		ProfileImage: avatarURL(firstName, lastName),
		IsActive:     true,
		Roles:        []model.Role{defaultEmployeeRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !s.creds.InsertIfAbsent(email, req.Password, user) {
		return nil, model.NewEmailRegisteredError()
	}

	slog.InfoContext(ctx, "mock user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return s.issue(*user.Clone())
}

// ChangePassword はテーブル先頭のユーザーのパスワードを変更する。
func (s *AuthService) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) (*model.MessageResponse, error) {
	if !s.creds.ChangeFirstPassword(req.CurrentPassword, req.NewPassword) {
		return nil, model.NewCurrentPasswordIncorrectError()
	}
	slog.InfoContext(ctx, "mock password changed")
	return &model.MessageResponse{Message: "Password changed successfully"}, nil
}

// ChangeEmail はテーブル先頭のユーザーのメールアドレスを変更する。
func (s *AuthService) ChangeEmail(ctx context.Context, req model.ChangeEmailRequest) (*model.ChangeEmailResponse, error) {
	user, err := s.creds.ChangeFirstEmail(req.NewEmail, req.Password)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "mock email changed",
		slog.String("user_id", user.ID),
		slog.String("new_email", req.NewEmail),
	)
	return &model.ChangeEmailResponse{
		Message: "Email changed successfully",
		User:    &user,
	}, nil
}

func (s *AuthService) issue(user model.User) (*model.LoginResponse, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}
	token, err := s.tokens.Issue(user.ID, user.Email, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.LoginResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

func avatarURL(firstName, lastName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(firstName) + "+" + url.QueryEscape(lastName)
}
