package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/dashboard"
	"github.com/hirearn/admin-console/internal/model"
)

// AnalyticsServiceInterface は詳細分析のハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	JobTimeline(ctx context.Context, jobID string) (*model.JobTimeline, error)
	JobsDetailed(ctx context.Context, p admin.JobsDetailedParams) (*model.JobsDetailed, error)
	PaymentsDetailed(ctx context.Context, p admin.PaymentsDetailedParams) (*model.PaymentsDetailed, error)
	ProtectionPool(ctx context.Context, r admin.DateRange) (*model.ProtectionPoolAnalytics, error)
}

// SnapshotProvider は定期リフレッシュされる分析ダッシュボードの現在値を提供する。
type SnapshotProvider interface {
	Current() dashboard.Snapshot
	RunOnce(ctx context.Context) error
}

// AnalyticsHandler は分析ダッシュボードのHTTPハンドラー。
type AnalyticsHandler struct {
	service   AnalyticsServiceInterface
	snapshots SnapshotProvider
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface, snapshots SnapshotProvider) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, snapshots: snapshots}
}

func dateRange(r *http.Request) admin.DateRange {
	q := r.URL.Query()
	return admin.DateRange{StartDate: q.Get("startDate"), EndDate: q.Get("endDate")}
}

// Snapshot は直近のリフレッシュ結果を返す。
// 失敗したサイクルでも取得済みのセクションはそのまま残り、errorにメッセージが入る。
// GET /api/analytics
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshots.Current())
}

// Refresh はリフレッシュサイクルを即時に実行し、結果のスナップショットを返す。
// POST /api/analytics/refresh
func (h *AnalyticsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshots.RunOnce(r.Context()); err != nil && api.IsUnauthorized(err) {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshots.Current())
}

// JobTimeline は求人のイベント時系列を返す。
// GET /api/analytics/job-timeline/{jobId}
func (h *AnalyticsHandler) JobTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := h.service.JobTimeline(r.Context(), chi.URLParam(r, "jobId"))
	respond(w, timeline, err)
}

// JobsDetailed は求人の詳細分析を返す。
// GET /api/analytics/jobs-detailed
func (h *AnalyticsHandler) JobsDetailed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.service.JobsDetailed(r.Context(), admin.JobsDetailedParams{
		DateRange: dateRange(r),
		Status:    q.Get("status"),
		JobType:   q.Get("jobType"),
	})
	respond(w, v, err)
}

// PaymentsDetailed は決済の詳細分析を返す。
// GET /api/analytics/payments-detailed
func (h *AnalyticsHandler) PaymentsDetailed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.service.PaymentsDetailed(r.Context(), admin.PaymentsDetailedParams{
		DateRange: dateRange(r),
		Status:    q.Get("status"),
		Type:      q.Get("type"),
	})
	respond(w, v, err)
}

// ProtectionPool は賃金保護プールの分析を返す。
// GET /api/analytics/protection-pool
func (h *AnalyticsHandler) ProtectionPool(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.ProtectionPool(r.Context(), dateRange(r))
	respond(w, v, err)
}
