package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo はベアラートークンから読み取れる表示用の情報。
// 署名は検証しない（検証はバックエンドの責務）。
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time // ゼロ値は有効期限不明
	IsJWT     bool
}

// Expired はnow時点で有効期限が過ぎているかを返す。有効期限が不明な場合はfalse。
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect はトークンをJWTとして署名検証なしでパースする。
// JWTでない不透明なトークンの場合は IsJWT=false を返す。
func Inspect(token string) TokenInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}
	}

	info := TokenInfo{IsJWT: true}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if id, ok := claims["id"].(string); ok {
		info.Subject = id
	} else if id, ok := claims["userId"].(string); ok {
		info.Subject = id
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
