package admin

import (
	"context"
	"fmt"

	"github.com/hirearn/admin-console/internal/model"
)

// DateRange は分析APIの期間指定。値はバックエンドにそのまま渡す。
type DateRange struct {
	StartDate string
	EndDate   string
}

// getData は {data: T} 形式の分析APIを呼び出す。
func getData[T any](ctx context.Context, s *Service, path string, q *query) (*T, error) {
	var env model.DataEnvelope[T]
	if err := s.client.Get(ctx, "/admin/analytics/"+path, q.encode(), &env); err != nil {
		return nil, fmt.Errorf("分析データ %s の取得に失敗しました: %w", path, err)
	}
	return &env.Data, nil
}

// Overview は当日の概況を返す。
func (s *Service) Overview(ctx context.Context) (*model.OverviewAnalytics, error) {
	return getData[model.OverviewAnalytics](ctx, s, "overview", newQuery(false))
}

// PaymentsHealth は決済の健全性指標を返す。
func (s *Service) PaymentsHealth(ctx context.Context) (*model.PaymentsHealthAnalytics, error) {
	return getData[model.PaymentsHealthAnalytics](ctx, s, "payments-health", newQuery(false))
}

// WalletHealth はウォレットの健全性指標を返す。
func (s *Service) WalletHealth(ctx context.Context) (*model.WalletHealthAnalytics, error) {
	return getData[model.WalletHealthAnalytics](ctx, s, "wallet-health", newQuery(false))
}

// JobExecution は求人の実施状況を返す。
func (s *Service) JobExecution(ctx context.Context) (*model.JobExecutionAnalytics, error) {
	return getData[model.JobExecutionAnalytics](ctx, s, "job-execution", newQuery(false))
}

// Settlements は精算の進捗を返す。
func (s *Service) Settlements(ctx context.Context) (*model.SettlementsAnalytics, error) {
	return getData[model.SettlementsAnalytics](ctx, s, "settlements", newQuery(false))
}

// Incidents はインシデントの発生状況を返す。
func (s *Service) Incidents(ctx context.Context) (*model.IncidentsAnalytics, error) {
	return getData[model.IncidentsAnalytics](ctx, s, "incidents", newQuery(false))
}

// JobTimeline は求人1件のイベント時系列を返す。
func (s *Service) JobTimeline(ctx context.Context, jobID string) (*model.JobTimeline, error) {
	escaped, err := requireID("jobId", jobID)
	if err != nil {
		return nil, err
	}
	return getData[model.JobTimeline](ctx, s, "job-timeline/"+escaped, newQuery(false))
}

// JobsDetailedParams は求人詳細分析の絞り込み条件。
type JobsDetailedParams struct {
	DateRange
	Status  string
	JobType string
}

// JobsDetailed は求人の詳細分析を返す。
func (s *Service) JobsDetailed(ctx context.Context, p JobsDetailedParams) (*model.JobsDetailed, error) {
	q := newQuery(false).
		str("startDate", p.StartDate).
		str("endDate", p.EndDate).
		str("status", p.Status).
		str("jobType", p.JobType)
	return getData[model.JobsDetailed](ctx, s, "jobs-detailed", q)
}

// PaymentsDetailedParams は決済詳細分析の絞り込み条件。
type PaymentsDetailedParams struct {
	DateRange
	Status string
	Type   string
}

// PaymentsDetailed は決済の詳細分析を返す。
func (s *Service) PaymentsDetailed(ctx context.Context, p PaymentsDetailedParams) (*model.PaymentsDetailed, error) {
	q := newQuery(false).
		str("startDate", p.StartDate).
		str("endDate", p.EndDate).
		str("status", p.Status).
		str("type", p.Type)
	return getData[model.PaymentsDetailed](ctx, s, "payments-detailed", q)
}

// ProtectionPool は賃金保護プールの分析を返す。
func (s *Service) ProtectionPool(ctx context.Context, r DateRange) (*model.ProtectionPoolAnalytics, error) {
	q := newQuery(false).str("startDate", r.StartDate).str("endDate", r.EndDate)
	return getData[model.ProtectionPoolAnalytics](ctx, s, "protection-pool", q)
}
