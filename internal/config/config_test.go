package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvVars = []string{
	"SERVER_PORT", "API_ROOT", "API_BASE_URL", "HTTP_CLIENT_TIMEOUT",
	"MOCK_ENABLED", "MOCK_AUTH_DELAY", "MOCK_READ_DELAY", "MOCK_WRITE_DELAY", "MOCK_FIXTURES_FILE",
	"TOKEN_SECRET", "TOKEN_TTL", "STORAGE_URL", "UPSTREAM_URL",
	"RATE_LIMIT_GENERAL", "RATE_LIMIT_LOGIN", "CORS_ALLOWED_ORIGIN", "LOG_LEVEL",
}

// clearEnv は実行環境の値がテストに影響しないよう全ての変数を空にする。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnvVars {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.APIRoot != "/api" {
		t.Errorf("APIRoot = %q, want %q", cfg.APIRoot, "/api")
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:8080")
	}
	if cfg.APIBaseURLSet {
		t.Error("APIBaseURLSet = true, want false")
	}
	if cfg.HTTPClientTimeout != 0 {
		t.Errorf("HTTPClientTimeout = %v, want 0", cfg.HTTPClientTimeout)
	}

	// Mock defaults
	if !cfg.MockEnabled {
		t.Error("MockEnabled = false, want true")
	}
	if cfg.MockAuthDelay != 800*time.Millisecond {
		t.Errorf("MockAuthDelay = %v, want %v", cfg.MockAuthDelay, 800*time.Millisecond)
	}
	if cfg.MockReadDelay != 500*time.Millisecond {
		t.Errorf("MockReadDelay = %v, want %v", cfg.MockReadDelay, 500*time.Millisecond)
	}
	if cfg.MockWriteDelay != 800*time.Millisecond {
		t.Errorf("MockWriteDelay = %v, want %v", cfg.MockWriteDelay, 800*time.Millisecond)
	}
	if cfg.MockFixturesFile != "" {
		t.Errorf("MockFixturesFile = %q, want empty", cfg.MockFixturesFile)
	}

	// Token defaults
	if cfg.TokenSecret != "hrms-dev-secret" {
		t.Errorf("TokenSecret = %q, want %q", cfg.TokenSecret, "hrms-dev-secret")
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, time.Hour)
	}

	wantStorage := "sqlite://" + filepath.Join(home, ".hrms", "session.db")
	if cfg.StorageURL != wantStorage {
		t.Errorf("StorageURL = %q, want %q", cfg.StorageURL, wantStorage)
	}
	if cfg.UpstreamURL != "" {
		t.Errorf("UpstreamURL = %q, want empty", cfg.UpstreamURL)
	}

	// Rate limit defaults
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.RateLimitLogin != 10 {
		t.Errorf("RateLimitLogin = %d, want %d", cfg.RateLimitLogin, 10)
	}

	if cfg.CORSAllowedOrigin != "http://localhost:4200" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "http://localhost:4200")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("API_ROOT", "/v2")
	t.Setenv("API_BASE_URL", "https://hr.example.com")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "15s")
	t.Setenv("MOCK_ENABLED", "false")
	t.Setenv("MOCK_AUTH_DELAY", "0s")
	t.Setenv("MOCK_READ_DELAY", "10ms")
	t.Setenv("MOCK_WRITE_DELAY", "20ms")
	t.Setenv("MOCK_FIXTURES_FILE", "/etc/hrms/fixtures.yaml")
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("STORAGE_URL", "memory://")
	t.Setenv("UPSTREAM_URL", "http://backend:5000")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("RATE_LIMIT_LOGIN", "5")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "3000")
	}
	if cfg.APIRoot != "/v2" {
		t.Errorf("APIRoot = %q, want %q", cfg.APIRoot, "/v2")
	}
	if cfg.APIBaseURL != "https://hr.example.com" || !cfg.APIBaseURLSet {
		t.Errorf("APIBaseURL = %q (set=%v)", cfg.APIBaseURL, cfg.APIBaseURLSet)
	}
	if cfg.HTTPClientTimeout != 15*time.Second {
		t.Errorf("HTTPClientTimeout = %v, want %v", cfg.HTTPClientTimeout, 15*time.Second)
	}
	if cfg.MockEnabled {
		t.Error("MockEnabled = true, want false")
	}
	if cfg.MockAuthDelay != 0 {
		t.Errorf("MockAuthDelay = %v, want 0", cfg.MockAuthDelay)
	}
	if cfg.MockReadDelay != 10*time.Millisecond {
		t.Errorf("MockReadDelay = %v, want %v", cfg.MockReadDelay, 10*time.Millisecond)
	}
	if cfg.MockWriteDelay != 20*time.Millisecond {
		t.Errorf("MockWriteDelay = %v, want %v", cfg.MockWriteDelay, 20*time.Millisecond)
	}
	if cfg.MockFixturesFile != "/etc/hrms/fixtures.yaml" {
		t.Errorf("MockFixturesFile = %q", cfg.MockFixturesFile)
	}
	if cfg.TokenSecret != "s3cret" {
		t.Errorf("TokenSecret = %q, want %q", cfg.TokenSecret, "s3cret")
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, 30*time.Minute)
	}
	if cfg.StorageURL != "memory://" {
		t.Errorf("StorageURL = %q, want %q", cfg.StorageURL, "memory://")
	}
	if cfg.UpstreamURL != "http://backend:5000" {
		t.Errorf("UpstreamURL = %q, want %q", cfg.UpstreamURL, "http://backend:5000")
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 60)
	}
	if cfg.RateLimitLogin != 5 {
		t.Errorf("RateLimitLogin = %d, want %d", cfg.RateLimitLogin, 5)
	}
	if cfg.CORSAllowedOrigin != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigin = %q", cfg.CORSAllowedOrigin)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_InvalidValues_FallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_GENERAL", "many")
	t.Setenv("MOCK_READ_DELAY", "soon")
	t.Setenv("MOCK_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.MockReadDelay != 500*time.Millisecond {
		t.Errorf("MockReadDelay = %v, want %v", cfg.MockReadDelay, 500*time.Millisecond)
	}
	if !cfg.MockEnabled {
		t.Error("MockEnabled = false, want true")
	}
}

func TestLoad_MockDisabledWithoutBaseURL_ReturnsError(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOCK_ENABLED", "false")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing API_BASE_URL, got nil")
	}
	if !strings.Contains(err.Error(), "API_BASE_URL") {
		t.Errorf("error = %v, want mention of API_BASE_URL", err)
	}
}
