package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// EmployerDebt は雇用主の未払い債務の集計。金額はパイサ単位。
type EmployerDebt struct {
	TotalOutstanding  decimal.Decimal `json:"totalOutstanding"`
	TotalDebtAmount   decimal.Decimal `json:"totalDebtAmount"`
	TotalPaidFromPool decimal.Decimal `json:"totalPaidFromPool"`
	UniqueEmployers   int             `json:"uniqueEmployers"`
	TotalDebts        int             `json:"totalDebts"`
}

// PaymentSummary は /admin/payments/summary の集計値。
type PaymentSummary struct {
	JobsAwaitingPayout int          `json:"jobsAwaitingPayout"`
	FailedPayoutsCount int          `json:"failedPayoutsCount"`
	EmployerDebt       EmployerDebt `json:"employerDebt"`
}

// DashboardStats はダッシュボードに表示する集計値。
type DashboardStats struct {
	PendingKYC              int             `json:"pendingKYC"`
	JobsAwaitingPayout      int             `json:"jobsAwaitingPayout"`
	FailedPayouts           int             `json:"failedPayouts"`
	TotalOutstandingDebt    decimal.Decimal `json:"totalOutstandingDebt"`
	UniqueEmployersWithDebt int             `json:"uniqueEmployersWithDebt"`
}

// DisputeStatus は紛争の処理状況。
type DisputeStatus string

const (
	DisputePending   DisputeStatus = "pending"
	DisputeInReview  DisputeStatus = "in_review"
	DisputeResolved  DisputeStatus = "resolved"
	DisputeDismissed DisputeStatus = "dismissed"
)

// Valid は既知の状態かどうかを返す。
func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputePending, DisputeInReview, DisputeResolved, DisputeDismissed:
		return true
	}
	return false
}

// Dispute は求人に関する紛争を表す。
// job / raisedBy / resolvedBy はIDまたは展開済みのドキュメントのどちらでも返る。
type Dispute struct {
	ID          string          `json:"id"`
	Job         json.RawMessage `json:"job,omitempty"`
	RaisedBy    json.RawMessage `json:"raisedBy,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Status      DisputeStatus   `json:"status"`
	AdminNotes  string          `json:"adminNotes,omitempty"`
	ResolvedAt  string          `json:"resolvedAt,omitempty"`
	ResolvedBy  json.RawMessage `json:"resolvedBy,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// DisputeUpdate は紛争の更新内容。
type DisputeUpdate struct {
	Status     DisputeStatus `json:"status,omitempty"`
	AdminNotes string        `json:"adminNotes,omitempty"`
}

// SettlementJob は精算試行の対象求人。
type SettlementJob struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PayoutMode    string `json:"payoutMode"`
}

// SettlementAttempt は精算処理の1回の試行。
type SettlementAttempt struct {
	ID          string        `json:"id"`
	Job         SettlementJob `json:"job"`
	TriggeredBy string        `json:"triggeredBy"`
	Status      string        `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

// AdminActionLog は管理操作の監査ログ。
type AdminActionLog struct {
	ID         string          `json:"id"`
	Admin      UserRef         `json:"adminId"`
	ActionType string          `json:"actionType"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Reason     string          `json:"reason"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  string          `json:"createdAt"`
}

// WithdrawalStatus は出金申請の状態。
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "PENDING"
	WithdrawalProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalPaid       WithdrawalStatus = "PAID"
	WithdrawalRejected   WithdrawalStatus = "REJECTED"
)

// BankSnapshot は申請時点の振込先口座。
type BankSnapshot struct {
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	BankName          string `json:"bankName"`
}

// MaskedAccountNumber は末尾4桁以外を伏せた口座番号を返す。
func (b BankSnapshot) MaskedAccountNumber() string {
	n := len(b.AccountNumber)
	if n <= 4 {
		return b.AccountNumber
	}
	masked := make([]byte, n)
	for i := 0; i < n-4; i++ {
		masked[i] = '*'
	}
	copy(masked[n-4:], b.AccountNumber[n-4:])
	return string(masked)
}

// WithdrawalUser は出金申請者の情報。
type WithdrawalUser struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"fullName,omitempty"`
	PhoneNumber        string             `json:"phoneNumber"`
	WalletBalance      decimal.Decimal    `json:"walletBalance"`
	WalletFrozen       bool               `json:"walletFrozen"`
	IsIdentityVerified bool               `json:"isIdentityVerified,omitempty"`
	IdentityDocuments  *IdentityDocuments `json:"identityDocuments,omitempty"`
}

// DisplayName は氏名、未登録の場合は電話番号を返す。
func (u WithdrawalUser) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.PhoneNumber
}

// WithdrawalRequest は出金申請を表す。
type WithdrawalRequest struct {
	ID                string           `json:"id"`
	User              WithdrawalUser   `json:"userId"`
	Amount            decimal.Decimal  `json:"amount"`
	Status            WithdrawalStatus `json:"status"`
	BankSnapshot      BankSnapshot     `json:"bankSnapshot"`
	RequestedAt       string           `json:"requestedAt"`
	ProcessedAt       string           `json:"processedAt,omitempty"`
	ProcessedBy       *UserRef         `json:"processedBy,omitempty"`
	PayoutReferenceID string           `json:"payoutReferenceId,omitempty"`
	RejectionReason   string           `json:"rejectionReason,omitempty"`
}

// RefundJob は返金申請の対象求人。
type RefundJob struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// RefundRequest は雇用主からの返金申請。
type RefundRequest struct {
	ID              string          `json:"id"`
	Job             RefundJob       `json:"job"`
	Employer        UserRef         `json:"employer"`
	Status          string          `json:"status"`
	AmountRequested decimal.Decimal `json:"amountRequested"`
	SubmittedAt     string          `json:"submittedAt"`
}

// PresignViewResponse は /uploads/presign-view の応答。
type PresignViewResponse struct {
	Success   bool   `json:"success"`
	SignedURL string `json:"signedUrl"`
	Key       string `json:"key,omitempty"`
}

// KYCDocumentURLs は閲覧用に署名済みのKYC書類URL。
// 発行に失敗した書類は空文字列になる。
type KYCDocumentURLs struct {
	AadhaarFront string `json:"aadhaarFront,omitempty"`
	AadhaarBack  string `json:"aadhaarBack,omitempty"`
	Selfie       string `json:"selfie,omitempty"`
	PanCard      string `json:"panCard,omitempty"`
}

// KYCDocuments はユーザー詳細と閲覧用書類URLの組。
type KYCDocuments struct {
	User      AdminUser       `json:"user"`
	Documents KYCDocumentURLs `json:"documents"`
}
