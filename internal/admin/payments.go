package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hirearn/admin-console/internal/model"
)

// PaymentSummary は支払い状況の集計を返す。
func (s *Service) PaymentSummary(ctx context.Context) (*model.PaymentSummary, error) {
	var resp struct {
		Summary model.PaymentSummary `json:"summary"`
	}
	if err := s.client.Get(ctx, "/admin/payments/summary", nil, &resp); err != nil {
		return nil, fmt.Errorf("支払い集計の取得に失敗しました: %w", err)
	}
	return &resp.Summary, nil
}

// DashboardStats は支払い集計とKYC審査待ち件数を同時に取得して返す。
// どちらかが失敗した場合は最初のエラーを返す。
func (s *Service) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var (
		summary *model.PaymentSummary
		kyc     *model.UserList
	)

	// 片方の失敗でもう片方を取り消さない
	var g errgroup.Group
	g.Go(func() error {
		var err error
		summary, err = s.PaymentSummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		kyc, err = s.ListKYCReview(ctx, ListUsersParams{Page: 1, Limit: 1})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		PendingKYC:              kyc.Total,
		JobsAwaitingPayout:      summary.JobsAwaitingPayout,
		FailedPayouts:           summary.FailedPayoutsCount,
		TotalOutstandingDebt:    summary.EmployerDebt.TotalOutstanding,
		UniqueEmployersWithDebt: summary.EmployerDebt.UniqueEmployers,
	}, nil
}
