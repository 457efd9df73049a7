package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UserState はバックエンドが管理するユーザーの状態。
type UserState string

const (
	StateActive     UserState = "ACTIVE"
	StateKYCPending UserState = "KYC_PENDING"
	StateOnHold     UserState = "ON_HOLD"
	StateSuspended  UserState = "SUSPENDED"
)

// Valid は既知の状態かどうかを返す。
func (s UserState) Valid() bool {
	switch s {
	case StateActive, StateKYCPending, StateOnHold, StateSuspended:
		return true
	}
	return false
}

// User はマーケットプレイスの利用者を表す。
type User struct {
	ID                string `json:"id"`
	PhoneNumber       string `json:"phoneNumber"`
	FullName          string `json:"fullName,omitempty"`
	Email             string `json:"email,omitempty"`
	Role              string `json:"role,omitempty"`
	IsPhoneVerified   bool   `json:"isPhoneVerified"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	IsAdmin           bool   `json:"isAdmin,omitempty"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
}

// DisplayName は氏名、未登録の場合は電話番号を返す。
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.PhoneNumber
}

// IdentityDocuments はKYC提出書類のURLを表す。
type IdentityDocuments struct {
	VerificationStatus string `json:"verificationStatus,omitempty"`
	AadhaarFront       string `json:"aadhaarFront,omitempty"`
	AadhaarBack        string `json:"aadhaarBack,omitempty"`
	Selfie             string `json:"selfie,omitempty"`
	PanCard            string `json:"panCard,omitempty"`
}

// AdminUser は管理画面で扱うユーザーの詳細。
type AdminUser struct {
	User
	State              UserState          `json:"state"`
	IsIdentityVerified bool               `json:"isIdentityVerified,omitempty"`
	IdentityDocuments  *IdentityDocuments `json:"identityDocuments,omitempty"`
	// WalletBalance はパイサ単位の残高。
	WalletBalance decimal.Decimal `json:"walletBalance"`
	WalletFrozen  bool            `json:"walletFrozen,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
}

// UserRef は一覧の埋め込みで参照されるユーザーの要約。
type UserRef struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// UnmarshalJSON は展開済みドキュメントとIDのみの文字列の両方を受け付ける。
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &u.ID)
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// DisplayName は氏名、未登録の場合は電話番号を返す。
func (u UserRef) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.PhoneNumber
}

// SendOTPResponse は /auth/send-otp の応答。
type SendOTPResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	PhoneNumber string `json:"phoneNumber"`
}

// VerifyOTPResponse は /auth/verify-otp の応答。
type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    struct {
		User
		State string `json:"state,omitempty"`
	} `json:"user"`
}

// ActionResult は管理操作の応答。
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
