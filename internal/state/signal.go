// Package state は購読可能な値コンテナを提供する。
//
// Signalは所有者だけが書き込み、読み取り側は常に最後にコミットされた値のコピーを見る。
// 購読者への通知は書き込みのロックを解放した後に行う。
// 通知はコミット順にキューへ積み、同時に配送するのは1つのゴルーチンだけなので、
// 購読者が最後に受け取る値は常に最後にコミットされた値になる。
package state

import "sync"

type observer[T any] struct {
	id int
	fn func(T)
}

// delivery はコミット時点の値とその時点の購読者。
type delivery[T any] struct {
	value T
	obs   []observer[T]
}

// Signal は単一の値と購読者リストを保持する。
type Signal[T any] struct {
	mu        sync.RWMutex
	value     T
	clone     func(T) T
	nextID    int
	observers []observer[T]

	pending  []delivery[T]
	draining bool
}

// NewSignal はSignalを生成する。
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// NewSignalWithClone は読み取り時と通知時にcloneでコピーするSignalを生成する。
// スライスやポインタを含む値に使う。
func NewSignalWithClone[T any](initial T, clone func(T) T) *Signal[T] {
	return &Signal[T]{value: initial, clone: clone}
}

// Get は現在の値を返す。
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copy(s.value)
}

// Set は値を置き換えて購読者に通知する。
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.commitLocked()
}

// Update は現在の値にfnを適用した結果で置き換える。fnはロック内で呼ばれる。
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.commitLocked()
}

// Subscribe は値の変更通知を受け取る関数を登録し、解除関数を返す。
// 登録時点の値では呼ばれない。
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// commitLocked は現在の値を配送キューに積んでロックを解放する。
// 配送中のゴルーチンが無ければ自分でキューが空になるまで配送する。
// 購読者の中からのSetは配送中のループに積まれるだけなので、デッドロックしない。
func (s *Signal[T]) commitLocked() {
	snapshot, obs := s.snapshotLocked()
	s.pending = append(s.pending, delivery[T]{value: snapshot, obs: obs})
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Signal[T]) drain() {
	done := false
	defer func() {
		if done {
			return
		}
		// 購読者がpanicしても配送状態を戻す
		s.mu.Lock()
		s.pending = nil
		s.draining = false
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.draining = false
			s.mu.Unlock()
			done = true
			return
		}
		d := s.pending[0]
		s.pending[0] = delivery[T]{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		notify(d.obs, d.value, s.copy)
	}
}

func (s *Signal[T]) snapshotLocked() (T, []observer[T]) {
	obs := make([]observer[T], len(s.observers))
	copy(obs, s.observers)
	return s.copy(s.value), obs
}

func (s *Signal[T]) copy(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

func notify[T any](obs []observer[T], v T, clone func(T) T) {
	for i, o := range obs {
		if i == 0 {
			o.fn(v)
			continue
		}
		o.fn(clone(v))
	}
}

// CloneSlice はスライスの浅いコピーを返す。NewSignalWithCloneに渡すためのヘルパー。
func CloneSlice[E any](s []E) []E {
	if s == nil {
		return nil
	}
	return append([]E(nil), s...)
}
