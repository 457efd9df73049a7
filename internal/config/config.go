// Package config は環境変数と .env ファイルから設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultAPIURL は HIREARN_API_URL / NEXT_PUBLIC_API_URL が未設定の場合のバックエンドURL。
const DefaultAPIURL = "https://api-hirearn.onrender.com/api"

// セッションの保存先
const (
	SessionStoreFile   = "file"
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend
	APIURL      string        `env:"HIREARN_API_URL"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`

	// Session
	SessionStore   string `env:"SESSION_STORE" envDefault:"file"`
	SessionFile    string `env:"SESSION_FILE"`
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"hirearn-admin"`

	// Analytics
	AnalyticsRefreshInterval time.Duration `env:"ANALYTICS_REFRESH_INTERVAL" envDefault:"5m"`

	// Documents
	DocumentMaxSize int64         `env:"DOCUMENT_MAX_SIZE" envDefault:"10485760"`
	DocumentTimeout time.Duration `env:"DOCUMENT_TIMEOUT" envDefault:"15s"`

	// Server
	ServerPort        string        `env:"SERVER_PORT" envDefault:"8080"`
	// CORSAllowedOrigin はカンマ区切りで複数指定できる。
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate Limit（1分あたりのリクエスト数）
	RateLimitGeneral int `env:"RATE_LIMIT_GENERAL" envDefault:"120"`
	RateLimitActions int `env:"RATE_LIMIT_ACTIONS" envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load はカレントディレクトリの .env（存在する場合）と環境変数からConfigを読み込む。
// 既に設定されている環境変数は .env の値で上書きしない。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse は環境変数のみからConfigを読み込む。
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("NEXT_PUBLIC_API_URL")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate は値の組み合わせを検証する。
func (c *Config) validate() error {
	switch c.SessionStore {
	case SessionStoreFile, SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q (allowed: file, memory, redis)", c.SessionStore)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q (allowed: json, text)", c.LogFormat)
	}

	if c.DocumentMaxSize <= 0 {
		return fmt.Errorf("DOCUMENT_MAX_SIZE must be positive")
	}
	if c.AnalyticsRefreshInterval <= 0 {
		return fmt.Errorf("ANALYTICS_REFRESH_INTERVAL must be positive")
	}
	return nil
}
