package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/security"
)

// UserServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	ListUsers(ctx context.Context, p admin.ListUsersParams) (*model.UserList, error)
	ListKYCReview(ctx context.Context, p admin.ListUsersParams) (*model.UserList, error)
	GetUser(ctx context.Context, id string) (*model.AdminUser, error)
	ApplyUserAction(ctx context.Context, id string, action admin.UserAction, reason string) (*model.ActionResult, error)
	KYCDocuments(ctx context.Context, userID string) (*model.KYCDocuments, error)
	DownloadDocument(ctx context.Context, raw string) (*security.Document, error)
}

// UserHandler はユーザー管理とKYC審査のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// reasonRequest は監査理由を伴う操作のリクエストボディ。
type reasonRequest struct {
	Reason string `json:"reason"`
}

func listUsersParams(r *http.Request) (admin.ListUsersParams, error) {
	page, limit, err := pagination(r)
	if err != nil {
		return admin.ListUsersParams{}, err
	}
	q := r.URL.Query()
	return admin.ListUsersParams{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		Role:   q.Get("role"),
		State:  q.Get("state"),
	}, nil
}

// ListUsers はユーザー一覧を返す。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := listUsersParams(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	list, err := h.service.ListUsers(r.Context(), p)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListKYCReview はKYC審査待ちのユーザー一覧を返す。
// GET /api/kyc-review
func (h *UserHandler) ListKYCReview(w http.ResponseWriter, r *http.Request) {
	p, err := listUsersParams(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	list, err := h.service.ListKYCReview(r.Context(), p)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetUser はユーザー詳細を返す。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ApplyAction はユーザーに状態遷移操作を適用する。
// PUT /api/users/{id}/{action}
// PUT /api/users/{id}/wallet/{op}
func (h *UserHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")
	if op := chi.URLParam(r, "op"); op != "" {
		name = "wallet/" + op
	}
	action, ok := admin.ParseUserAction(name)
	if !ok {
		handleServiceError(w, model.NewValidationError("action", "未対応の操作です: "+name))
		return
	}

	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.ApplyUserAction(r.Context(), chi.URLParam(r, "id"), action, req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Documents はユーザーの本人確認書類の閲覧用URLを返す。
// GET /api/users/{id}/documents
func (h *UserHandler) Documents(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.KYCDocuments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// ViewDocument は書類を取得してそのまま返す。
// GET /api/documents/view?url=...
func (h *UserHandler) ViewDocument(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		handleServiceError(w, model.NewValidationError("url", "URLが指定されていません"))
		return
	}

	doc, err := h.service.DownloadDocument(r.Context(), raw)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "inline")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
