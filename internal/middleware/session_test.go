package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/session"
)

// --- ヘルパー ---

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

type failingStore struct {
	session.MemoryStore
}

func (s *failingStore) Token(ctx context.Context) (string, error) {
	return "", errors.New("store unavailable")
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponseBody {
	t.Helper()
	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// --- テスト ---

func TestSessionGuard_ValidJWT_InjectsSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "admin-1",
		"exp": fixedNow.Add(time.Hour).Unix(),
	})
	store := session.NewMemoryStore(token)

	var captured string
	handler := NewSessionGuard(store, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := SubjectFromContext(r.Context())
		if err != nil {
			t.Errorf("expected subject in context, got %v", err)
		}
		captured = subject
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured != "admin-1" {
		t.Errorf("subject = %q, want %q", captured, "admin-1")
	}
}

func TestSessionGuard_OpaqueToken_PassesWithoutSubject(t *testing.T) {
	store := session.NewMemoryStore("opaque-token")

	called := false
	handler := NewSessionGuard(store, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, err := SubjectFromContext(r.Context()); err == nil {
			t.Error("不透明なトークンでは識別子を注入しないこと")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if !called {
		t.Fatal("不透明なトークンでも後続ハンドラーが呼ばれること")
	}
}

func TestSessionGuard_NoToken_Returns401SessionRequired(t *testing.T) {
	store := session.NewMemoryStore("")

	handler := NewSessionGuard(store, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}
	if body := decodeErrorBody(t, rec); body.Code != model.ErrCodeSessionRequired {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeSessionRequired)
	}
}

func TestSessionGuard_ExpiredJWT_ClearsStoreAndReturnsSessionExpired(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "admin-1",
		"exp": fixedNow.Add(-time.Minute).Unix(),
	})
	store := session.NewMemoryStore(token)

	handler := NewSessionGuard(store, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with an expired session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != model.ErrCodeSessionExpired {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeSessionExpired)
	}
	if got, _ := store.Token(context.Background()); got != "" {
		t.Errorf("期限切れのトークンは削除されること: got %q", got)
	}
}

func TestSessionGuard_StoreError_Returns500(t *testing.T) {
	handler := NewSessionGuard(&failingStore{}, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called when the store fails")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}

func TestSubjectFromContext_Missing(t *testing.T) {
	if _, err := SubjectFromContext(context.Background()); err == nil {
		t.Error("expected error for context without subject")
	}
	ctx := ContextWithSubject(context.Background(), "admin-9")
	got, err := SubjectFromContext(ctx)
	if err != nil || got != "admin-9" {
		t.Errorf("SubjectFromContext = (%q, %v), want (admin-9, nil)", got, err)
	}
}
