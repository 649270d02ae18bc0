package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string

	// API client
	APIRoot           string
	APIBaseURL        string // パスを含んでよい。モックはAPIルート以降で照合する
	APIBaseURLSet     bool   // API_BASE_URLが明示的に指定されたか
	HTTPClientTimeout time.Duration

	// Mock API
	MockEnabled      bool
	MockAuthDelay    time.Duration
	MockReadDelay    time.Duration
	MockWriteDelay   time.Duration
	MockFixturesFile string

	// Token
	TokenSecret string
	TokenTTL    time.Duration

	// Storage
	StorageURL string

	// Upstream
	UpstreamURL string

	// Rate Limit (requests per minute)
	RateLimitGeneral int
	RateLimitLogin   int

	// CORS
	CORSAllowedOrigin string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// モックが無効な場合はAPI_BASE_URLが必須。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.MockEnabled = getEnvBool("MOCK_ENABLED", true)
	cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	cfg.APIBaseURLSet = cfg.APIBaseURL != ""

	// Required fields
	var missing []string

	if !cfg.MockEnabled && !cfg.APIBaseURLSet {
		missing = append(missing, "API_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	if !cfg.APIBaseURLSet {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.APIRoot = getEnvString("API_ROOT", "/api")
	cfg.HTTPClientTimeout = getEnvDuration("HTTP_CLIENT_TIMEOUT", 0)
	cfg.MockAuthDelay = getEnvDuration("MOCK_AUTH_DELAY", 800*time.Millisecond)
	cfg.MockReadDelay = getEnvDuration("MOCK_READ_DELAY", 500*time.Millisecond)
	cfg.MockWriteDelay = getEnvDuration("MOCK_WRITE_DELAY", 800*time.Millisecond)
	cfg.MockFixturesFile = getEnvString("MOCK_FIXTURES_FILE", "")
	cfg.TokenSecret = getEnvString("TOKEN_SECRET", "hrms-dev-secret")
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", time.Hour)
	cfg.StorageURL = getEnvString("STORAGE_URL", defaultStorageURL())
	cfg.UpstreamURL = getEnvString("UPSTREAM_URL", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:4200")
	cfg.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))

	return cfg, nil
}

// defaultStorageURL はホームディレクトリ配下のSQLiteファイルを返す。
// ホームディレクトリが解決できない場合はメモリストアを使う。
func defaultStorageURL() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "memory://"
	}
	return "sqlite://" + filepath.Join(home, ".hrms", "session.db")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
