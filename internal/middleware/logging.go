package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードと書き込みバイト数を記録する。
// セッションガードが識別した管理者もここに保持する。
type statusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	subject string
}

// subjectRecorder はセッションガードが識別した管理者をロガーへ伝える。
type subjectRecorder interface {
	recordSubject(subject string)
}

func (sr *statusRecorder) recordSubject(subject string) {
	sr.subject = subject
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// statusOrOK はハンドラーが何も書き込まなかった場合に200を返す。
func (sr *statusRecorder) statusOrOK() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}

// levelForStatus はステータスコードに応じたログレベルを返す。
func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLoggingMiddleware はリクエストごとに "http_request" の構造化ログを出力するミドルウェアを返す。
// method、path、status、bytes、duration_ms に加え、request_id と admin（識別できた場合）を記録する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.statusOrOK()
			attrs := make([]slog.Attr, 0, 7)
			attrs = append(attrs,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", rec.bytes),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			)
			if id := r.Header.Get("X-Request-Id"); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if rec.subject != "" {
				attrs = append(attrs, slog.String("admin", rec.subject))
			}

			logger.LogAttrs(r.Context(), levelForStatus(status), "http_request", attrs...)
		})
	}
}
