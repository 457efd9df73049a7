package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/model"
)

// OperationsServiceInterface は支払い・紛争・精算・出金・返金・監査ログの
// ハンドラーが必要とするサービスインターフェース。
type OperationsServiceInterface interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	PaymentSummary(ctx context.Context) (*model.PaymentSummary, error)

	ListDisputes(ctx context.Context, p admin.ListDisputesParams) (*model.DisputeList, error)
	GetDispute(ctx context.Context, id string) (*model.Dispute, error)
	UpdateDispute(ctx context.Context, id string, update model.DisputeUpdate) (*model.Dispute, error)

	ListSettlements(ctx context.Context, p admin.ListSettlementsParams) (*model.SettlementList, error)
	RetrySettlement(ctx context.Context, jobID, reason string) (*model.ActionResult, error)

	ListAuditLog(ctx context.Context, p admin.ListAuditLogParams) (*model.AuditLogList, error)

	ListWithdrawals(ctx context.Context, p admin.ListWithdrawalsParams) (*model.WithdrawalList, error)
	ProcessWithdrawal(ctx context.Context, id, payoutReferenceID string) (*model.ActionResult, error)
	RejectWithdrawal(ctx context.Context, id, reason string) (*model.ActionResult, error)

	ListRefunds(ctx context.Context, p admin.ListRefundsParams) (*model.RefundList, error)
}

// OperationsHandler は運用系エンドポイントのHTTPハンドラー。
type OperationsHandler struct {
	service OperationsServiceInterface
}

// NewOperationsHandler はOperationsHandlerを生成する。
func NewOperationsHandler(service OperationsServiceInterface) *OperationsHandler {
	return &OperationsHandler{service: service}
}

type processWithdrawalRequest struct {
	PayoutReferenceID string `json:"payoutReferenceId"`
}

// respond はサービス呼び出しの結果をJSONで返す。
func respond[T any](w http.ResponseWriter, v *T, err error) {
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DashboardStats はダッシュボードの集計値を返す。
// GET /api/dashboard
func (h *OperationsHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	respond(w, stats, err)
}

// PaymentSummary は支払い概要を返す。
// GET /api/payments/summary
func (h *OperationsHandler) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PaymentSummary(r.Context())
	respond(w, summary, err)
}

// ListDisputes は紛争一覧を返す。
// GET /api/disputes
func (h *OperationsHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.service.ListDisputes(r.Context(), admin.ListDisputesParams{
		Status: q.Get("status"),
		JobID:  q.Get("jobId"),
		Page:   page,
		Limit:  limit,
	})
	respond(w, list, err)
}

// GetDispute は紛争詳細を返す。
// GET /api/disputes/{id}
func (h *OperationsHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDispute(r.Context(), chi.URLParam(r, "id"))
	respond(w, d, err)
}

// UpdateDispute は紛争の状態とメモを更新する。
// PUT /api/disputes/{id}
func (h *OperationsHandler) UpdateDispute(w http.ResponseWriter, r *http.Request) {
	var req model.DisputeUpdate
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	d, err := h.service.UpdateDispute(r.Context(), chi.URLParam(r, "id"), req)
	respond(w, d, err)
}

// ListSettlements は精算試行の一覧を返す。
// GET /api/settlements
func (h *OperationsHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.service.ListSettlements(r.Context(), admin.ListSettlementsParams{
		Page:        page,
		Limit:       limit,
		Status:      q.Get("status"),
		TriggeredBy: q.Get("triggeredBy"),
		JobID:       q.Get("jobId"),
	})
	respond(w, list, err)
}

// RetrySettlement は求人の精算を再試行する。
// POST /api/settlements/{jobId}/retry
func (h *OperationsHandler) RetrySettlement(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	result, err := h.service.RetrySettlement(r.Context(), chi.URLParam(r, "jobId"), req.Reason)
	respond(w, result, err)
}

// ListAuditLog は管理操作の監査ログを返す。
// GET /api/audit
func (h *OperationsHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.service.ListAuditLog(r.Context(), admin.ListAuditLogParams{
		Page:       page,
		Limit:      limit,
		AdminID:    q.Get("adminId"),
		ActionType: q.Get("actionType"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
	})
	respond(w, list, err)
}

// ListWithdrawals は出金申請の一覧を返す。
// GET /api/withdrawals
func (h *OperationsHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.service.ListWithdrawals(r.Context(), admin.ListWithdrawalsParams{
		Page:   page,
		Limit:  limit,
		Status: q.Get("status"),
		UserID: q.Get("userId"),
	})
	respond(w, list, err)
}

// ProcessWithdrawal は出金申請を処理済みにする。
// POST /api/withdrawals/{id}/process
func (h *OperationsHandler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req processWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	result, err := h.service.ProcessWithdrawal(r.Context(), chi.URLParam(r, "id"), req.PayoutReferenceID)
	respond(w, result, err)
}

// RejectWithdrawal は出金申請を却下する。
// POST /api/withdrawals/{id}/reject
func (h *OperationsHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	result, err := h.service.RejectWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Reason)
	respond(w, result, err)
}

// ListRefunds は返金申請の一覧を返す。
// GET /api/refunds
func (h *OperationsHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.service.ListRefunds(r.Context(), admin.ListRefundsParams{
		Page:       page,
		Limit:      limit,
		Status:     q.Get("status"),
		JobID:      q.Get("jobId"),
		EmployerID: q.Get("employerId"),
	})
	respond(w, list, err)
}
