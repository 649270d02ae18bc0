package model

import "time"

// Permission はロールに付与される権限を表す。
// hasPermission系の判定はNameの完全一致で行う。
type Permission struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Resource    string `json:"resource,omitempty" yaml:"resource"`
	Action      string `json:"action,omitempty" yaml:"action"`
}

// Role はユーザーのロールを表す。ロールの同一性はNameで判定する。
type Role struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
	IsActive    bool         `json:"isActive" yaml:"isActive"`
}

// 定義済みロール名
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// User は認証済みユーザーを表す。
type User struct {
	ID           string     `json:"id" yaml:"id"`
	Username     string     `json:"username,omitempty" yaml:"username"`
	Email        string     `json:"email" yaml:"email"`
	FirstName    string     `json:"firstName" yaml:"firstName"`
	LastName     string     `json:"lastName" yaml:"lastName"`
	ProfileImage string     `json:"profileImage,omitempty" yaml:"profileImage"`
	IsActive     bool       `json:"isActive" yaml:"isActive"`
	IsOnline     bool       `json:"isOnline,omitempty" yaml:"isOnline"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" yaml:"lastLogin"`
	Roles        []Role     `json:"roles" yaml:"roles"`
	CreatedAt    time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// HasRole はユーザーが指定名のロールを持つかを返す。
func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasPermission はいずれかのロールが指定名の権限を持つかを返す。
func (u *User) HasPermission(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// Clone はロール・権限スライスを含めたディープコピーを返す。
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	if u.Roles != nil {
		c.Roles = make([]Role, len(u.Roles))
		for i, r := range u.Roles {
			c.Roles[i] = r
			if r.Permissions != nil {
				c.Roles[i].Permissions = append([]Permission(nil), r.Permissions...)
			}
		}
	}
	return &c
}

// LoginRequest はログインリクエストのボディ。
// Emailにはメールアドレスまたは社員IDを指定できる。
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// LoginResponse はログイン・登録成功時のレスポンス。
type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}

// RegisterRequest はユーザー登録リクエストのボディ。
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	TermsAccepted   bool   `json:"termsAccepted,omitempty"`
}

// RefreshRequest はトークン再発行リクエストのボディ。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest はパスワード変更リクエストのボディ。
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// ChangeEmailRequest はメールアドレス変更リクエストのボディ。
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail"`
	Password string `json:"password"`
}

// MessageResponse はメッセージのみを返すレスポンス。
type MessageResponse struct {
	Message string `json:"message"`
}

// ChangeEmailResponse はメールアドレス変更成功時のレスポンス。
type ChangeEmailResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
