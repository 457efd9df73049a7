package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirearn/admin-console/internal/model"
)

func TestCSRFMiddleware_SafeMethodIssuesCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			found = c
		}
	}
	if found == nil || len(found.Value) != 64 {
		t.Fatalf("CSRFトークンCookieが設定されること: %+v", found)
	}
	if found.HttpOnly {
		t.Error("CSRF cookie must be readable by the console page")
	}
}

func TestCSRFMiddleware_SafeMethodKeepsExistingCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Error("既存のCookieがある場合は再発行しないこと")
	}
}

func TestCSRFMiddleware_StateChangingRequests(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
	}{
		{name: "一致", cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "Cookieなし", header: "tok", wantStatus: http.StatusForbidden},
		{name: "ヘッダーなし", cookie: "tok", wantStatus: http.StatusForbidden},
		{name: "不一致", cookie: "tok", header: "other", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())

			req := httptest.NewRequest(http.MethodPut, "/api/users/u1/suspend", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeErrorBody(t, rec); body.Code != model.ErrCodeCSRF {
					t.Errorf("code = %q, want %q", body.Code, model.ErrCodeCSRF)
				}
			}
		})
	}
}

func TestCSRFTokenHandler_ReturnsExistingOrNewToken(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{CookieSecure: true})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body["token"] != "existing" {
		t.Errorf("token = %q, want existing", body["token"])
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))
	body = nil
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != body["token"] {
		t.Fatalf("新規トークンがCookieと本文の両方に設定されること: cookies=%v body=%v", cookies, body)
	}
	if !cookies[0].Secure {
		t.Error("CookieSecure should set the Secure attribute")
	}
}
