// Package session は管理者セッショントークンの保存先を提供する。
// トークンはOTP検証成功時に保存され、ログアウト時またはバックエンドが401を返した時に削除される。
// リクエストクライアントにはStoreを明示的に渡し、グローバル状態として扱わない。
package session

import "context"

// TokenKey は保存先でトークンを識別するキー。
const TokenKey = "authToken"

// Store はセッショントークンの保存先のインターフェース。
// トークンが存在しない場合、Tokenは空文字列とnilエラーを返す。
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
