package model

// Page はページング付き一覧の共通フィールド。
type Page struct {
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Total       int `json:"total"`
}

// UserList は /admin/users と /admin/kyc-review の応答。
type UserList struct {
	Users []AdminUser `json:"users"`
	Page
}

// DisputeList は /disputes の応答。
type DisputeList struct {
	Disputes []Dispute `json:"disputes"`
	Page
}

// SettlementList は /admin/settlements の応答。
type SettlementList struct {
	Settlements []SettlementAttempt `json:"settlements"`
	Page
}

// AuditLogList は /admin/audit の応答。
type AuditLogList struct {
	Logs []AdminActionLog `json:"logs"`
	Page
}

// WithdrawalList は /admin/withdrawals の応答。
type WithdrawalList struct {
	Withdrawals []WithdrawalRequest `json:"withdrawals"`
	Page
}

// RefundList は /admin/refunds の応答。
type RefundList struct {
	Refunds []RefundRequest `json:"refunds"`
	Page
}
