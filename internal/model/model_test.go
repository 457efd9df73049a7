package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name  string
		paise int64
		want  string
	}{
		{"ゼロ", 0, "₹0"},
		{"3桁以下", 99900, "₹999"},
		{"千の位", 150000, "₹1,500"},
		{"ラク", 12345600, "₹1,23,456"},
		{"クロール", 1234567800, "₹1,23,45,678"},
		{"四捨五入", 12345678, "₹1,23,457"},
		{"負の値", -250000, "₹-2,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(decimal.NewFromInt(tt.paise))
			if got != tt.want {
				t.Errorf("FormatINR(%d) = %q, want %q", tt.paise, got, tt.want)
			}
		})
	}
}

func TestFormatINRExact(t *testing.T) {
	got := FormatINRExact(decimal.NewFromInt(150050))
	if got != "₹1,500.50" {
		t.Errorf("FormatINRExact = %q, want %q", got, "₹1,500.50")
	}
	got = FormatINRExact(decimal.Zero)
	if got != "₹0.00" {
		t.Errorf("FormatINRExact(0) = %q, want %q", got, "₹0.00")
	}
}

func TestUserRef_UnmarshalJSON(t *testing.T) {
	var logs []AdminActionLog
	data := `[
		{"id":"l1","adminId":{"id":"a1","fullName":"Asha","phoneNumber":"9000000001"},"actionType":"KYC_APPROVE"},
		{"id":"l2","adminId":"a2","actionType":"USER_SUSPEND"},
		{"id":"l3","adminId":null,"actionType":"USER_ACTIVATE"}
	]`
	if err := json.Unmarshal([]byte(data), &logs); err != nil {
		t.Fatalf("Unmarshal がエラーを返した: %v", err)
	}
	if logs[0].Admin.ID != "a1" || logs[0].Admin.DisplayName() != "Asha" {
		t.Errorf("展開済みの管理者 = %+v", logs[0].Admin)
	}
	if logs[1].Admin.ID != "a2" {
		t.Errorf("ID文字列の管理者 = %+v", logs[1].Admin)
	}
	if logs[2].Admin.ID != "" {
		t.Errorf("null の管理者 = %+v", logs[2].Admin)
	}
}

func TestAdminUser_DecodesMoneyAndState(t *testing.T) {
	data := `{"id":"u1","phoneNumber":"9000000001","state":"KYC_PENDING","walletBalance":125050,"walletFrozen":true,
		"identityDocuments":{"verificationStatus":"pending","selfie":"https://bucket.s3.amazonaws.com/s.jpg"}}`

	var u AdminUser
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		t.Fatalf("Unmarshal がエラーを返した: %v", err)
	}
	if u.ID != "u1" || u.State != StateKYCPending || !u.State.Valid() {
		t.Errorf("AdminUser = %+v", u)
	}
	if got := FormatINRExact(u.WalletBalance); got != "₹1,250.50" {
		t.Errorf("残高 = %q, want ₹1,250.50", got)
	}
	if u.IdentityDocuments == nil || u.IdentityDocuments.Selfie == "" {
		t.Error("identityDocuments がデコードされていない")
	}
	if u.DisplayName() != "9000000001" {
		t.Errorf("DisplayName = %q", u.DisplayName())
	}
}

func TestPaymentsHealth_NullableFields(t *testing.T) {
	var p PaymentsHealthAnalytics
	if err := json.Unmarshal([]byte(`{"paymentsPending":3,"oldestPendingPaymentAgeMinutes":null}`), &p); err != nil {
		t.Fatalf("Unmarshal がエラーを返した: %v", err)
	}
	if p.OldestPendingPaymentAgeMinutes != nil {
		t.Errorf("null が nil にならない: %v", *p.OldestPendingPaymentAgeMinutes)
	}
	if p.PaymentsPending != 3 {
		t.Errorf("PaymentsPending = %d", p.PaymentsPending)
	}
}

func TestBankSnapshot_MaskedAccountNumber(t *testing.T) {
	b := BankSnapshot{AccountNumber: "123456789012"}
	if got := b.MaskedAccountNumber(); got != "********9012" {
		t.Errorf("MaskedAccountNumber = %q", got)
	}
	b = BankSnapshot{AccountNumber: "123"}
	if got := b.MaskedAccountNumber(); got != "123" {
		t.Errorf("短い口座番号 = %q", got)
	}
}

func TestAPIError(t *testing.T) {
	var err error = NewReasonRequiredError()

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("errors.As で APIError を取得できない")
	}
	if apiErr.Category != CategoryValidation || apiErr.Code != ErrCodeValidation {
		t.Errorf("APIError = %+v", apiErr)
	}
	if err.Error() != "[VALIDATION_FAILED] reason: 監査のため理由の入力が必要です" {
		t.Errorf("Error() = %q", err.Error())
	}
}
