package state

// Status は非同期操作の読み込み中フラグとエラーメッセージ。
// ドメインサービスは操作ごとにBegin → (Fail | Done) の順に呼ぶ。
type Status struct {
	Loading *Signal[bool]
	Error   *Signal[string]
}

// NewStatus はStatusを生成する。
func NewStatus() *Status {
	return &Status{
		Loading: NewSignal(false),
		Error:   NewSignal(""),
	}
}

// Begin は読み込み中にしてエラーを消す。
func (s *Status) Begin() {
	s.Loading.Set(true)
	s.Error.Set("")
}

// Done は読み込み中を解除する。
func (s *Status) Done() {
	s.Loading.Set(false)
}

// Fail はエラーメッセージを設定して読み込み中を解除する。
func (s *Status) Fail(message string) {
	s.Error.Set(message)
	s.Loading.Set(false)
}

// ClearError はエラーメッセージを消す。
func (s *Status) ClearError() {
	s.Error.Set("")
}
