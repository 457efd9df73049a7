package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("")

	if tok, _ := s.Token(ctx); tok != "" {
		t.Fatalf("初期状態のトークン = %q, want empty", tok)
	}

	if err := s.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("SetToken がエラーを返した: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "abc" {
		t.Errorf("Token = %q, want abc", tok)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear がエラーを返した: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "" {
		t.Errorf("Clear 後のトークン = %q, want empty", tok)
	}
}

func TestFileStore_MissingFile_ReturnsEmptyToken(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	tok, err := s.Token(context.Background())
	if err != nil {
		t.Fatalf("ファイル未作成でエラーが返された: %v", err)
	}
	if tok != "" {
		t.Errorf("Token = %q, want empty", tok)
	}
}

func TestFileStore_SetTokenThenReadBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path)

	if err := s.SetToken(ctx, "token-1"); err != nil {
		t.Fatalf("SetToken がエラーを返した: %v", err)
	}

	// 別インスタンスからも読めること（CLI実行間の永続化）
	tok, err := NewFileStore(path).Token(ctx)
	if err != nil {
		t.Fatalf("Token がエラーを返した: %v", err)
	}
	if tok != "token-1" {
		t.Errorf("Token = %q, want token-1", tok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat がエラーを返した: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("パーミッション = %o, want 600", perm)
	}
}

func TestFileStore_Clear_RemovesFileAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if err := s.SetToken(ctx, "token-1"); err != nil {
		t.Fatalf("SetToken がエラーを返した: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear がエラーを返した: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Clear 後もファイルが存在する: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Errorf("2回目の Clear がエラーを返した: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "" {
		t.Errorf("Clear 後のトークン = %q, want empty", tok)
	}
}

func TestFileStore_CorruptFile_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Token(context.Background()); err == nil {
		t.Error("破損したファイルでエラーが返されなかった")
	}
}

func TestRedisStore_KeyUsesPrefix(t *testing.T) {
	if got := NewRedisStore(nil, "").Key(); got != "hirearn-admin:authToken" {
		t.Errorf("Key = %q, want hirearn-admin:authToken", got)
	}
	if got := NewRedisStore(nil, "staging").Key(); got != "staging:authToken" {
		t.Errorf("Key = %q, want staging:authToken", got)
	}
}

func TestRedisStore_Lifecycle(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL が未設定のためスキップします")
	}

	ctx := context.Background()
	client, err := OpenRedis(ctx, redisURL)
	if err != nil {
		t.Skipf("テスト用Redisに接続できません（スキップ）: %v", err)
	}
	defer client.Close()

	s := NewRedisStore(client, "test-"+t.Name())
	defer s.Clear(ctx)

	if tok, err := s.Token(ctx); err != nil || tok != "" {
		t.Fatalf("Token = %q, %v, want empty, nil", tok, err)
	}
	if err := s.SetToken(ctx, "redis-token"); err != nil {
		t.Fatalf("SetToken がエラーを返した: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "redis-token" {
		t.Errorf("Token = %q, want redis-token", tok)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear がエラーを返した: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "" {
		t.Errorf("Clear 後のトークン = %q, want empty", tok)
	}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("トークンの署名に失敗しました: %v", err)
	}
	return tok
}

func TestInspect_JWTWithSubjectAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"sub": "admin-1", "exp": exp.Unix()})

	info := Inspect(tok)

	if !info.IsJWT {
		t.Fatal("IsJWT = false, want true")
	}
	if info.Subject != "admin-1" {
		t.Errorf("Subject = %q, want admin-1", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, exp)
	}
	if info.Expired(time.Now()) {
		t.Error("有効期限内のトークンが期限切れと判定された")
	}
	if !info.Expired(exp.Add(time.Second)) {
		t.Error("有効期限後のトークンが期限切れと判定されなかった")
	}
}

func TestInspect_FallsBackToIDClaim(t *testing.T) {
	info := Inspect(signedToken(t, jwt.MapClaims{"id": "user-9"}))
	if info.Subject != "user-9" {
		t.Errorf("Subject = %q, want user-9", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", info.ExpiresAt)
	}
	if info.Expired(time.Now()) {
		t.Error("有効期限不明のトークンは期限切れと判定してはならない")
	}
}

func TestInspect_OpaqueToken(t *testing.T) {
	info := Inspect("not-a-jwt")
	if info.IsJWT {
		t.Error("不透明なトークンが IsJWT=true と判定された")
	}
}
