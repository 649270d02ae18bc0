// Package settings は永続化されるアプリケーション設定を管理する。
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hitoshi/hrms/internal/repository"
	"github.com/hitoshi/hrms/internal/state"
)

// StorageKey は設定を保存するキー。
const StorageKey = "appSettings"

// Theme は表示テーマ。
type Theme string

// テーマ
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// TimeFormat は時刻表示形式。
type TimeFormat string

// 時刻表示形式
const (
	TimeFormat12h TimeFormat = "h12"
	TimeFormat24h TimeFormat = "h24"
)

// AppSettings はアプリケーション設定。
type AppSettings struct {
	Theme            Theme      `json:"theme"`
	Language         string     `json:"language"`
	DateFormat       string     `json:"dateFormat"`
	TimeFormat       TimeFormat `json:"timeFormat"`
	PageSize         int        `json:"pageSize"`
	AutoSaveInterval int        `json:"autoSaveInterval"` // ミリ秒
}

// Defaults はデフォルト設定を返す。
func Defaults() AppSettings {
	return AppSettings{
		Theme:            ThemeLight,
		Language:         "en",
		DateFormat:       "dd/MM/yyyy",
		TimeFormat:       TimeFormat24h,
		PageSize:         10,
		AutoSaveInterval: 5000,
	}
}

// Patch は部分更新。nilのフィールドは変更しない。
type Patch struct {
	Theme            *Theme      `json:"theme,omitempty"`
	Language         *string     `json:"language,omitempty"`
	DateFormat       *string     `json:"dateFormat,omitempty"`
	TimeFormat       *TimeFormat `json:"timeFormat,omitempty"`
	PageSize         *int        `json:"pageSize,omitempty"`
	AutoSaveInterval *int        `json:"autoSaveInterval,omitempty"`
}

func (p Patch) apply(s AppSettings) AppSettings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.TimeFormat != nil {
		s.TimeFormat = *p.TimeFormat
	}
	if p.PageSize != nil {
		s.PageSize = *p.PageSize
	}
	if p.AutoSaveInterval != nil {
		s.AutoSaveInterval = *p.AutoSaveInterval
	}
	return s
}

// Service は設定の読み書きを行う。
type Service struct {
	store    repository.KeyValueStore
	settings *state.Signal[AppSettings]
}

// NewService はServiceを生成する。保存済みの設定を読むにはLoadを呼ぶ。
func NewService(store repository.KeyValueStore) *Service {
	return &Service{
		store:    store,
		settings: state.NewSignal(Defaults()),
	}
}

// Load は保存済みの設定をデフォルトに重ねて読み込む。
// 保存内容が読めない場合はデフォルトのままにする。
func (s *Service) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return nil
	}

	merged := Defaults()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		slog.WarnContext(ctx, "failed to parse stored settings", slog.String("error", err.Error()))
		return nil
	}
	s.settings.Set(merged)
	return nil
}

// Get は現在の設定を返す。
func (s *Service) Get() AppSettings {
	return s.settings.Get()
}

// Update は部分更新を適用して保存する。
func (s *Service) Update(ctx context.Context, patch Patch) (AppSettings, error) {
	s.settings.Update(patch.apply)
	current := s.settings.Get()
	return current, s.save(ctx, current)
}

// Reset はデフォルトに戻し、保存済みの設定を削除する。
func (s *Service) Reset(ctx context.Context) error {
	s.settings.Set(Defaults())
	if err := s.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to remove settings: %w", err)
	}
	slog.InfoContext(ctx, "settings reset to defaults")
	return nil
}

// IsDarkMode はダークテーマかを返す。
func (s *Service) IsDarkMode() bool {
	return s.settings.Get().Theme == ThemeDark
}

// Subscribe は設定の変更を購読する。
func (s *Service) Subscribe(fn func(AppSettings)) (cancel func()) {
	return s.settings.Subscribe(fn)
}

func (s *Service) save(ctx context.Context, current AppSettings) error {
	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
