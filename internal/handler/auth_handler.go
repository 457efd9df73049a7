package handler

import (
	"context"
	"net/http"

	"github.com/hirearn/admin-console/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SendOTP(ctx context.Context, phone string) (*model.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, phone, otp string) (*model.VerifyOTPResponse, error)
	CurrentUser(ctx context.Context) (*model.AdminUser, error)
	Logout(ctx context.Context) error
}

// AuthHandler はOTPログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// verifyOTPResponse はログイン成功時のレスポンス。
// トークンはサーバー側のセッションに保存し、ブラウザには返さない。
type verifyOTPResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
	State   string     `json:"state,omitempty"`
}

// SendOTP はOTPの送信を要求する。
// POST /auth/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	resp, err := h.service.SendOTP(r.Context(), req.PhoneNumber)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// VerifyOTP はOTPを検証し、管理者であればセッションを開始する。
// POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	resp, err := h.service.VerifyOTP(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOTPResponse{
		Success: true,
		User:    resp.User.User,
		State:   resp.User.State,
	})
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/login")
	w.WriteHeader(http.StatusNoContent)
}

// Me はログイン中の管理者のプロフィールを返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
