package mockapi

import (
	"sync"

	"github.com/hitoshi/hrms/internal/model"
)

// credential はログインキーに紐づくパスワードとユーザー。
type credential struct {
	password string
	user     model.User
}

// CredentialTable は挿入順を保持する資格情報テーブル。
// change-password / change-email は先頭エントリを「現在のユーザー」とみなす。
// キーの付け替えは旧キーを削除し新キーを末尾に追加するため、
// 付け替え後は2番目のエントリが先頭になる。
type CredentialTable struct {
	mu      sync.Mutex
	keys    []string
	entries map[string]*credential
}

// NewCredentialTable はフィクスチャの並び順でテーブルを構築する。
func NewCredentialTable(fixtures []CredentialFixture) *CredentialTable {
	t := &CredentialTable{entries: make(map[string]*credential, len(fixtures))}
	for _, f := range fixtures {
		t.insertLocked(f.Key, f.Password, f.User)
	}
	return t
}

// Lookup はログインキーでエントリを検索する。
// キーの完全一致を優先し、見つからなければ挿入順にuser.emailまたはuser.idが一致する
// 最初のエントリを返す。パスワードの照合は行わない。
func (t *CredentialTable) Lookup(login string) (model.User, string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.entries[login]; ok {
		return *c.user.Clone(), c.password, true
	}
	for _, k := range t.keys {
		c := t.entries[k]
		if k == login || c.user.Email == login || c.user.ID == login {
			return *c.user.Clone(), c.password, true
		}
	}
	return model.User{}, "", false
}

// Authenticate はloginで見つかったエントリのパスワードを照合する。
func (t *CredentialTable) Authenticate(login, password string) (model.User, bool) {
	u, pw, ok := t.Lookup(login)
	if !ok || pw != password {
		return model.User{}, false
	}
	return u, true
}

// HasKey はキーとして登録済みかを返す。user.emailやuser.idは見ない。
func (t *CredentialTable) HasKey(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

// Insert はエントリを末尾に追加する。既存キーの場合は位置を変えずに上書きする。
func (t *CredentialTable) Insert(key, password string, user model.User) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(key, password, user)
}

// InsertIfAbsent はキーが未登録の場合のみ追加し、追加したかを返す。
func (t *CredentialTable) InsertIfAbsent(key, password string, user model.User) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[key]; ok {
		return false
	}
	t.insertLocked(key, password, user)
	return true
}

func (t *CredentialTable) insertLocked(key, password string, user model.User) {
	if c, ok := t.entries[key]; ok {
		c.password = password
		c.user = *user.Clone()
		return
	}
	t.keys = append(t.keys, key)
	t.entries[key] = &credential{password: password, user: *user.Clone()}
}

// ChangeFirstPassword は先頭エントリのパスワードを変更する。
// currentが一致しない場合（またはテーブルが空の場合）はfalseを返す。
func (t *CredentialTable) ChangeFirstPassword(current, next string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.firstLocked()
	if c == nil || c.password != current {
		return false
	}
	c.password = next
	return true
}

// ChangeFirstEmail は先頭エントリのメールアドレスを変更し、新しいメールアドレスで付け替える。
// パスワード不一致はINVALID_PASSWORD、新しいメールアドレスが既にキーならEMAIL_EXISTSを返す。
func (t *CredentialTable) ChangeFirstEmail(newEmail, password string) (model.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.firstLocked()
	if c == nil || c.password != password {
		return model.User{}, model.NewPasswordIncorrectError()
	}
	if _, exists := t.entries[newEmail]; exists {
		return model.User{}, model.NewEmailExistsError()
	}

	oldKey := t.keys[0]
	c.user.Email = newEmail
	t.keys = append(t.keys[1:], newEmail)
	delete(t.entries, oldKey)
	t.entries[newEmail] = c

	return *c.user.Clone(), nil
}

func (t *CredentialTable) firstLocked() *credential {
	if len(t.keys) == 0 {
		return nil
	}
	return t.entries[t.keys[0]]
}

// Keys は挿入順のキー一覧のコピーを返す。
func (t *CredentialTable) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.keys...)
}

// Len はエントリ数を返す。
func (t *CredentialTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys)
}
