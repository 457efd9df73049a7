// Package model はバックエンドAPIの応答スキーマとコンソールのエラー形式を定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeSessionRequired    = "SESSION_REQUIRED"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeNotAdmin           = "NOT_ADMIN"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodePresignFailed      = "PRESIGN_FAILED"
	ErrCodeDocumentBlocked    = "DOCUMENT_BLOCKED"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeCSRF               = "CSRF_VALIDATION_FAILED"
)

// エラーカテゴリ
const (
	CategoryAuth       = "auth"
	CategoryValidation = "validation"
	CategoryUpstream   = "upstream"
	CategorySystem     = "system"
)

// NewValidationError は入力値の検証エラーを生成する。
// ネットワーク呼び出しの前に検出されたエラーに使用する。
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("%s: %s", field, message),
		Category: CategoryValidation,
		Action:   "入力内容を確認してください。",
	}
}

// NewReasonRequiredError は監査理由が未入力の場合のエラーを生成する。
func NewReasonRequiredError() *APIError {
	return NewValidationError("reason", "監査のため理由の入力が必要です")
}

// NewSessionRequiredError はセッションが存在しない場合のエラーを生成する。
func NewSessionRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionRequired,
		Message:  "ログインが必要です。",
		Category: CategoryAuth,
		Action:   "ログイン画面からOTPでログインしてください。",
	}
}

// NewSessionExpiredError はバックエンドが401を返した場合のエラーを生成する。
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Message:  "セッションの有効期限が切れました。",
		Category: CategoryAuth,
		Action:   "再度ログインしてください。",
	}
}

// NewNotAdminError は管理者権限を持たないアカウントでログインした場合のエラーを生成する。
func NewNotAdminError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAdmin,
		Message:  "このアカウントには管理者権限がありません。",
		Category: CategoryAuth,
		Action:   "管理者アカウントの電話番号でログインしてください。",
	}
}

// NewBackendUnreachableError はバックエンドに接続できない場合のエラーを生成する。
func NewBackendUnreachableError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnreachable,
		Message:  message,
		Category: CategorySystem,
		Action:   "バックエンドが起動しているか、HIREARN_API_URL の設定を確認してください。",
	}
}

// NewUpstreamError はバックエンドがエラーステータスを返した場合のエラーを生成する。
func NewUpstreamError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstream,
		Message:  message,
		Category: CategoryUpstream,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewPresignFailedError は書類閲覧用URLの発行に失敗した場合のエラーを生成する。
func NewPresignFailedError() *APIError {
	return &APIError{
		Code:     ErrCodePresignFailed,
		Message:  "書類閲覧用URLの発行に失敗しました。",
		Category: CategoryUpstream,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewDocumentBlockedError は書類URLがセキュリティポリシーで拒否された場合のエラーを生成する。
func NewDocumentBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeDocumentBlocked,
		Message:  "セキュリティポリシーにより、指定された書類URLへのアクセスがブロックされました。",
		Category: CategoryValidation,
		Action:   "書類のURLがHTTPSの公開ストレージを指しているか確認してください。",
	}
}
