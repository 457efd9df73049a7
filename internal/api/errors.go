package api

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError はバックエンドが2xx以外のステータスを返した場合のエラー。
// Messageはレスポンスボディの message フィールド、なければ汎用メッセージ。
type HTTPError struct {
	Status int
	// Body はパース済みのレスポンスボディ（正規化済み）。
	Body any
	// Message は表示用メッセージ。
	Message string
	// ResponseMessage はボディの message フィールドそのもの（存在しない場合は空）。
	ResponseMessage string
}

// Error はerrorインターフェースを実装する。
func (e *HTTPError) Error() string {
	return e.Message
}

// NetworkError はバックエンドに到達できなかった場合のエラー。
// アプリケーションエラーと接続障害を呼び出し元が区別できるよう、対象URLを保持する。
type NetworkError struct {
	URL     string
	BaseURL string
	Err     error
}

// Error はerrorインターフェースを実装する。
func (e *NetworkError) Error() string {
	return fmt.Sprintf("Cannot connect to backend server at %s. Please ensure the backend is running.", e.BaseURL)
}

// Unwrap は元のトランスポートエラーを返す。
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newHTTPError はステータスとパース済みボディからHTTPErrorを生成する。
func newHTTPError(status int, body any) *HTTPError {
	e := &HTTPError{Status: status, Body: body}
	if m, ok := body.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok {
			e.ResponseMessage = msg
		}
	}
	e.Message = e.ResponseMessage
	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed with status %d", status)
	}
	return e
}

// IsUnauthorized はエラーがバックエンドの401応答に由来するかを返す。
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// IsNetworkError はエラーがネットワーク到達不能に由来するかを返す。
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusCode はHTTPErrorのステータスを返す。HTTPErrorでない場合は0。
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// Message は表示用のエラーメッセージを返す。
// ラップされたエラーからHTTPError / NetworkErrorを取り出し、
// バックエンドのメッセージを優先する。
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	return err.Error()
}
