package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hirearn/admin-console/internal/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestRateLimiter(t *testing.T, general, actions int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(NewRateLimiterConfig(general, actions))
	t.Cleanup(rl.Stop)
	return rl
}

func TestNewRateLimiterConfig_PerMinute(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 20)
	if cfg.GeneralBurst != 120 || cfg.ActionsBurst != 20 {
		t.Errorf("bursts = (%d, %d), want (120, 20)", cfg.GeneralBurst, cfg.ActionsBurst)
	}
	if float64(cfg.GeneralRate) != 2.0 {
		t.Errorf("GeneralRate = %v, want 2", cfg.GeneralRate)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestGeneralMiddleware_ExceedingBurst_Returns429(t *testing.T) {
	rl := newTestRateLimiter(t, 3, 3)
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.RemoteAddr = "10.0.0.1:5001"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
	if body := decodeErrorBody(t, rec); body.Code != model.ErrCodeRateLimited {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRateLimited)
	}
}

func TestGeneralMiddleware_SeparateClientsHaveSeparateLimits(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)
	handler := rl.GeneralMiddleware()(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", addr, rec.Code)
		}
	}
	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", got)
	}
}

func TestGeneralMiddleware_KeysBySubjectWhenPresent(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)
	handler := rl.GeneralMiddleware()(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = addr
		req = req.WithContext(ContextWithSubject(req.Context(), "admin-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if addr == "10.0.0.2:1" && rec.Code != http.StatusTooManyRequests {
			t.Errorf("同じ管理者は接続元が違っても同じ制限を受けること: status = %d", rec.Code)
		}
	}
}

func TestActionsMiddleware_SafeMethodsAreNotLimited(t *testing.T) {
	rl := newTestRateLimiter(t, 10, 1)
	handler := rl.ActionsMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/u1", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPut, "/api/users/u1/suspend", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first PUT: status = %d, want 200", first.Code)
	}
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPut, "/api/users/u1/suspend", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second PUT: status = %d, want 429", second.Code)
	}
	if got := rl.ActionsLimiterCount(); got != 1 {
		t.Errorf("ActionsLimiterCount = %d, want 1", got)
	}
}

func TestRateLimiter_CleanupEvictsStaleEntries(t *testing.T) {
	rl := newTestRateLimiter(t, 5, 5)
	handler := rl.GeneralMiddleware()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rl.GeneralLimiterCount() != 1 {
		t.Fatalf("GeneralLimiterCount = %d, want 1", rl.GeneralLimiterCount())
	}

	rl.cleanup(time.Now().Add(time.Hour))

	if got := rl.GeneralLimiterCount(); got != 0 {
		t.Errorf("GeneralLimiterCount after cleanup = %d, want 0", got)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	rl.Stop()
	rl.Stop()
}
