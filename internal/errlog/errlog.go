// Package errlog はクライアント側で発生したエラーを集約して記録する。
package errlog

import (
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hitoshi/hrms/internal/state"
)

// CodeUnknown はAppError以外の値を記録したときのコード。
const CodeUnknown = "UNKNOWN_ERROR"

// AppError はエラーログの1エントリ。
type AppError struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

func newID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Log はエラーログの集約先。ゼロ値は使えないのでNewを使う。
type Log struct {
	entries *state.Signal[[]AppError]
	now     func() time.Time
}

// New はLogを生成する。
func New() *Log {
	return &Log{
		entries: state.NewSignalWithClone([]AppError{}, state.CloneSlice[AppError]),
		now:     time.Now,
	}
}

// Log は任意の値をAppErrorに正規化して記録し、記録したエントリを返す。
//
//   - AppError（またはそれをラップしたエラー）はそのまま記録する。IDと時刻が空なら補う。
//   - それ以外のerrorはUNKNOWN_ERRORとして、メッセージにerr.Error()を使う。
//   - error以外の値はUNKNOWN_ERRORとして、値をDetailsに入れる。
func (l *Log) Log(v any) AppError {
	now := l.now()
	entry := normalize(v, now)
	if entry.ID == "" {
		entry.ID = newID(now)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}

	l.entries.Update(func(cur []AppError) []AppError {
		return append(cur, entry)
	})

	slog.Error("application error",
		slog.String("id", entry.ID),
		slog.String("code", entry.Code),
		slog.String("message", entry.Message),
		slog.Any("details", entry.Details),
	)
	return entry
}

func normalize(v any, now time.Time) AppError {
	switch e := v.(type) {
	case AppError:
		return e
	case *AppError:
		if e != nil {
			return *e
		}
	case error:
		var appErr *AppError
		if errors.As(e, &appErr) {
			return *appErr
		}
		return AppError{
			Code:      CodeUnknown,
			Message:   e.Error(),
			Details:   fmt.Sprintf("%+v", e),
			Timestamp: now,
		}
	}
	return AppError{
		Code:      CodeUnknown,
		Message:   "An unexpected error occurred",
		Details:   v,
		Timestamp: now,
	}
}

// All は記録済みのエントリを古い順に返す。
func (l *Log) All() []AppError {
	return l.entries.Get()
}

// Last は最後に記録したエントリを返す。空ならfalse。
func (l *Log) Last() (AppError, bool) {
	all := l.entries.Get()
	if len(all) == 0 {
		return AppError{}, false
	}
	return all[len(all)-1], true
}

// Clear は全エントリを削除する。
func (l *Log) Clear() {
	l.entries.Set([]AppError{})
}

// ClearByCode は指定コードのエントリだけを削除する。
func (l *Log) ClearByCode(code string) {
	l.entries.Update(func(cur []AppError) []AppError {
		kept := cur[:0:0]
		for _, e := range cur {
			if e.Code != code {
				kept = append(kept, e)
			}
		}
		return kept
	})
}

// Subscribe はエントリ一覧の変更を購読する。
func (l *Log) Subscribe(fn func([]AppError)) (cancel func()) {
	return l.entries.Subscribe(fn)
}
