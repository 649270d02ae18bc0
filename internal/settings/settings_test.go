package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hitoshi/hrms/internal/repository"
)

func ptr[T any](v T) *T { return &v }

// TestService_DefaultsWhenNothingStored は未保存時にデフォルトが使われることを検証する。
func TestService_DefaultsWhenNothingStored(t *testing.T) {
	s := NewService(repository.NewMemoryStore())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := AppSettings{
		Theme:            ThemeLight,
		Language:         "en",
		DateFormat:       "dd/MM/yyyy",
		TimeFormat:       TimeFormat24h,
		PageSize:         10,
		AutoSaveInterval: 5000,
	}
	if diff := cmp.Diff(want, s.Get()); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if s.IsDarkMode() {
		t.Error("IsDarkMode() = true, want false")
	}
}

// TestService_LoadMergesOverDefaults は保存済みの一部の項目がデフォルトに重なることを検証する。
func TestService_LoadMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Set(ctx, StorageKey, `{"theme":"dark","pageSize":25}`)

	s := NewService(store)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := s.Get()
	if got.Theme != ThemeDark || got.PageSize != 25 || got.Language != "en" {
		t.Errorf("settings = %+v, want dark/25 with default language", got)
	}
	if !s.IsDarkMode() {
		t.Error("IsDarkMode() = false, want true")
	}
}

// TestService_LoadIgnoresBrokenJSON は壊れた保存内容でデフォルトのままになることを検証する。
func TestService_LoadIgnoresBrokenJSON(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Set(ctx, StorageKey, `{"theme":`)

	s := NewService(store)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Defaults(), s.Get()); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

// TestService_UpdatePersists は部分更新が保存されることを検証する。
func TestService_UpdatePersists(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	s := NewService(store)

	got, err := s.Update(ctx, Patch{Language: ptr("ja"), TimeFormat: ptr(TimeFormat12h)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Language != "ja" || got.TimeFormat != TimeFormat12h || got.PageSize != 10 {
		t.Errorf("Update() = %+v", got)
	}

	raw, ok, _ := store.Get(ctx, StorageKey)
	if !ok {
		t.Fatal("settings were not persisted")
	}
	var stored AppSettings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored settings are not JSON: %v", err)
	}
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored mismatch (-want +got):\n%s", diff)
	}

	// 別のServiceで読み直しても同じ
	reloaded := NewService(store)
	reloaded.Load(ctx)
	if diff := cmp.Diff(got, reloaded.Get()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

// TestService_Reset はデフォルトに戻り保存内容が削除されることを検証する。
func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	s := NewService(store)
	s.Update(ctx, Patch{Theme: ptr(ThemeDark)})

	var notified []AppSettings
	cancel := s.Subscribe(func(a AppSettings) { notified = append(notified, a) })
	defer cancel()

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.IsDarkMode() {
		t.Error("IsDarkMode() after Reset = true")
	}
	if _, ok, _ := store.Get(ctx, StorageKey); ok {
		t.Error("stored settings should be removed")
	}
	if len(notified) != 1 || notified[0].Theme != ThemeLight {
		t.Errorf("notified = %+v, want one light settings", notified)
	}
}
