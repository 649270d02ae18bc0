// Package notification はユーザー向けのトースト通知キューを提供する。
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/hrms/internal/state"
)

// Type は通知の種類。
type Type string

// 通知の種類
const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// 種類ごとのデフォルト表示時間
const (
	DefaultSuccessDuration = 3 * time.Second
	DefaultErrorDuration   = 5 * time.Second
	DefaultWarningDuration = 4 * time.Second
	DefaultInfoDuration    = 3 * time.Second
)

// Notification はキュー内の1件の通知。
// Durationが0以下の通知は自動で削除されない。
type Notification struct {
	ID       string        `json:"id"`
	Type     Type          `json:"type"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Notifier は通知を発行する側が必要とするインターフェース。
type Notifier interface {
	Success(message string) string
	Error(message string) string
	Warning(message string) string
	Info(message string) string
}

// Service は通知キュー。
type Service struct {
	items *state.Signal[[]Notification]

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewService はServiceを生成する。
func NewService() *Service {
	return &Service{
		items:  state.NewSignalWithClone([]Notification{}, state.CloneSlice[Notification]),
		timers: make(map[string]*time.Timer),
	}
}

// Success は成功通知を追加してIDを返す。
func (s *Service) Success(message string) string {
	return s.Show(TypeSuccess, message, DefaultSuccessDuration)
}

// Error はエラー通知を追加してIDを返す。
func (s *Service) Error(message string) string {
	return s.Show(TypeError, message, DefaultErrorDuration)
}

// Warning は警告通知を追加してIDを返す。
func (s *Service) Warning(message string) string {
	return s.Show(TypeWarning, message, DefaultWarningDuration)
}

// Info は情報通知を追加してIDを返す。
func (s *Service) Info(message string) string {
	return s.Show(TypeInfo, message, DefaultInfoDuration)
}

// Show は通知を追加する。durationが正ならその時間後に自動で削除する。
func (s *Service) Show(typ Type, message string, duration time.Duration) string {
	n := Notification{
		ID:       uuid.NewString(),
		Type:     typ,
		Message:  message,
		Duration: duration,
	}

	s.items.Update(func(cur []Notification) []Notification {
		return append(cur, n)
	})

	if duration > 0 {
		s.mu.Lock()
		if !s.closed {
			s.timers[n.ID] = time.AfterFunc(duration, func() { s.Remove(n.ID) })
		}
		s.mu.Unlock()
	}
	return n.ID
}

// Remove は指定IDの通知を削除する。存在しないIDは無視する。
func (s *Service) Remove(id string) {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.items.Update(func(cur []Notification) []Notification {
		kept := cur[:0:0]
		for _, n := range cur {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept
	})
}

// ClearAll は全ての通知を削除する。
func (s *Service) ClearAll() {
	s.stopTimers()
	s.items.Set([]Notification{})
}

// Close は保留中の自動削除タイマーを停止する。以降の通知は自動削除されない。
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stopTimers()
}

func (s *Service) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// All は現在の通知を追加順に返す。
func (s *Service) All() []Notification {
	return s.items.Get()
}

// Count は現在の通知数を返す。
func (s *Service) Count() int {
	return len(s.items.Get())
}

// Subscribe は通知一覧の変更を購読する。
func (s *Service) Subscribe(fn func([]Notification)) (cancel func()) {
	return s.items.Subscribe(fn)
}
