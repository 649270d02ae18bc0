package model

// Session はクライアント側の認証状態を表す。
// 永続化されるのはアクセストークンとユーザーのみで、
// IsLoadingとLastErrorはプロセス内の一時的な状態。
type Session struct {
	CurrentUser     *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	AccessToken     string `json:"accessToken,omitempty"`
	IsLoading       bool   `json:"isLoading"`
	LastError       string `json:"error,omitempty"`
}

// Clone はCurrentUserを含めたコピーを返す。
func (s Session) Clone() Session {
	s.CurrentUser = s.CurrentUser.Clone()
	return s
}

// IsEmpty はログアウト直後の空状態かどうかを返す。
func (s Session) IsEmpty() bool {
	return s.CurrentUser == nil && !s.IsAuthenticated && s.AccessToken == "" &&
		!s.IsLoading && s.LastError == ""
}
