// Package middleware はコンソールサーバーのHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/session"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// subjectContextKey はリクエストコンテキストに管理者の識別子を格納するためのキー。
var subjectContextKey = contextKey("admin_subject")

// NewSessionGuard はセッションの保存先にトークンがあることを検証するミドルウェアを返す。
// トークンがない場合は401 SESSION_REQUIREDを返す。
// JWTの有効期限が切れている場合はセッションを破棄して401 SESSION_EXPIREDを返す。
// 署名の検証はバックエンドが行うため、ここではクレームの読み取りのみ行う。
func NewSessionGuard(store session.Store, now func() time.Time) func(next http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := store.Token(r.Context())
			if err != nil {
				slog.Error("failed to read session token",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if token == "" {
				WriteSessionError(w, model.NewSessionRequiredError())
				return
			}

			info := session.Inspect(token)
			if info.Expired(now()) {
				if err := store.Clear(r.Context()); err != nil {
					slog.Error("failed to clear expired session",
						slog.String("error", err.Error()),
					)
				}
				WriteSessionError(w, model.NewSessionExpiredError())
				return
			}

			ctx := r.Context()
			if info.Subject != "" {
				ctx = ContextWithSubject(ctx, info.Subject)
				if rec, ok := w.(subjectRecorder); ok {
					rec.recordSubject(info.Subject)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext はリクエストコンテキストから管理者の識別子を取得する。
// トークンがJWTでない場合は取得できない。
func SubjectFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(subjectContextKey).(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("admin subject not found in context")
	}
	return subject, nil
}

// ContextWithSubject はコンテキストに管理者の識別子を注入する。
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}
