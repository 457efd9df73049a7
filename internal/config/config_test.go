package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir は作業ディレクトリを変更し、テスト終了時に元へ戻す。
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

// clearEnv はテストに影響する環境変数を空にする。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HIREARN_API_URL", "NEXT_PUBLIC_API_URL", "SESSION_STORE", "REDIS_URL",
		"LOG_FORMAT", "LOG_LEVEL", "SERVER_PORT", "ANALYTICS_REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParse_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.SessionStore != SessionStoreFile {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, SessionStoreFile)
	}
	if cfg.AnalyticsRefreshInterval != 5*time.Minute {
		t.Errorf("AnalyticsRefreshInterval = %v, want 5m", cfg.AnalyticsRefreshInterval)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want 0", cfg.HTTPTimeout)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.RateLimitActions != 20 {
		t.Errorf("RateLimitActions = %d, want 20", cfg.RateLimitActions)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != "info" {
		t.Errorf("LogFormat/LogLevel = %q/%q", cfg.LogFormat, cfg.LogLevel)
	}
	if cfg.DocumentMaxSize != 10485760 {
		t.Errorf("DocumentMaxSize = %d", cfg.DocumentMaxSize)
	}
}

func TestParse_APIURLPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "https://legacy.example.com/api")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIURL != "https://legacy.example.com/api" {
		t.Errorf("NEXT_PUBLIC_API_URL が使われていない: %q", cfg.APIURL)
	}

	t.Setenv("HIREARN_API_URL", "http://localhost:5000/api/")
	cfg, err = Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIURL != "http://localhost:5000/api" {
		t.Errorf("HIREARN_API_URL が優先されていない: %q", cfg.APIURL)
	}
}

func TestParse_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANALYTICS_REFRESH_INTERVAL", "30s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.AnalyticsRefreshInterval != 30*time.Second {
		t.Errorf("AnalyticsRefreshInterval = %v", cfg.AnalyticsRefreshInterval)
	}
	if cfg.ServerPort != "9090" || cfg.LogFormat != "text" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"未知のセッション保存先", map[string]string{"SESSION_STORE": "cookie"}, "SESSION_STORE"},
		{"redisにはURLが必要", map[string]string{"SESSION_STORE": "redis"}, "REDIS_URL"},
		{"未知のログ形式", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"不正な間隔", map[string]string{"ANALYTICS_REFRESH_INTERVAL": "soon"}, "AnalyticsRefreshInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err.Error(), tt.want)
			}
		})
	}
}

func TestParse_RedisStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" || cfg.RedisKeyPrefix != "hirearn-admin" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "HIREARN_API_URL=http://dotenv.example.com/api\nSERVER_PORT=7070\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIURL != "http://dotenv.example.com/api" {
		t.Errorf(".env の値が読み込まれていない: %q", cfg.APIURL)
	}
	if cfg.ServerPort != "6060" {
		t.Errorf("既存の環境変数が上書きされた: %q", cfg.ServerPort)
	}
	os.Unsetenv("HIREARN_API_URL")
}

func TestLoad_MissingDotEnvIsNotAnError(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
