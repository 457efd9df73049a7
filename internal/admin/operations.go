package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirearn/admin-console/internal/model"
)

// ListDisputesParams は紛争一覧の絞り込み条件。
type ListDisputesParams struct {
	Status string
	JobID  string
	Page   int
	Limit  int
}

// ListDisputes は紛争一覧を返す。
func (s *Service) ListDisputes(ctx context.Context, p ListDisputesParams) (*model.DisputeList, error) {
	q := newQuery(false).str("status", p.Status).str("jobId", p.JobID).num("page", p.Page).num("limit", p.Limit)

	var list model.DisputeList
	if err := s.client.Get(ctx, "/disputes", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("紛争一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}

// GetDispute は紛争の詳細を返す。
func (s *Service) GetDispute(ctx context.Context, id string) (*model.Dispute, error) {
	escaped, err := requireID("disputeId", id)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Dispute model.Dispute `json:"dispute"`
	}
	if err := s.client.Get(ctx, "/disputes/"+escaped, nil, &resp); err != nil {
		return nil, fmt.Errorf("紛争の取得に失敗しました: %w", err)
	}
	return &resp.Dispute, nil
}

// UpdateDispute は紛争の状態と管理者メモを更新する。
func (s *Service) UpdateDispute(ctx context.Context, id string, update model.DisputeUpdate) (*model.Dispute, error) {
	escaped, err := requireID("disputeId", id)
	if err != nil {
		return nil, err
	}
	if update.Status != "" && !update.Status.Valid() {
		return nil, model.NewValidationError("status", fmt.Sprintf("無効な状態です: %s", update.Status))
	}
	update.AdminNotes = s.sanitizer.Sanitize(update.AdminNotes)
	if update.Status == "" && update.AdminNotes == "" {
		return nil, model.NewValidationError("dispute", "更新内容が指定されていません")
	}

	var resp struct {
		Dispute model.Dispute `json:"dispute"`
	}
	if err := s.client.Put(ctx, "/disputes/"+escaped, update, &resp); err != nil {
		return nil, fmt.Errorf("紛争の更新に失敗しました: %w", err)
	}
	return &resp.Dispute, nil
}

// ListSettlementsParams は精算試行一覧の絞り込み条件。
type ListSettlementsParams struct {
	Page        int
	Limit       int
	Status      string
	TriggeredBy string
	JobID       string
}

// ListSettlements は精算試行の一覧を返す。
func (s *Service) ListSettlements(ctx context.Context, p ListSettlementsParams) (*model.SettlementList, error) {
	q := newQuery(false).
		num("page", p.Page).
		num("limit", p.Limit).
		str("status", p.Status).
		str("triggeredBy", p.TriggeredBy).
		str("jobId", p.JobID)

	var list model.SettlementList
	if err := s.client.Get(ctx, "/admin/settlements", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("精算一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}

// RetrySettlement は求人の精算を再実行する。
func (s *Service) RetrySettlement(ctx context.Context, jobID, reason string) (*model.ActionResult, error) {
	escaped, err := requireID("jobId", jobID)
	if err != nil {
		return nil, err
	}
	r, err := s.reason(reason)
	if err != nil {
		return nil, err
	}

	var result model.ActionResult
	if err := s.client.Post(ctx, "/admin/settlements/"+escaped+"/retry", map[string]string{"reason": r}, &result); err != nil {
		return nil, fmt.Errorf("精算の再実行に失敗しました: %w", err)
	}
	s.logger.Info("精算を再実行しました", slog.String("job_id", jobID))
	return &result, nil
}

// ListAuditLogParams は監査ログの絞り込み条件。日付はバックエンドにそのまま渡す。
type ListAuditLogParams struct {
	Page       int
	Limit      int
	AdminID    string
	ActionType string
	EntityType string
	EntityID   string
	StartDate  string
	EndDate    string
}

// ListAuditLog は管理操作の監査ログを返す。
func (s *Service) ListAuditLog(ctx context.Context, p ListAuditLogParams) (*model.AuditLogList, error) {
	q := newQuery(false).
		num("page", p.Page).
		num("limit", p.Limit).
		str("adminId", p.AdminID).
		str("actionType", p.ActionType).
		str("entityType", p.EntityType).
		str("entityId", p.EntityID).
		str("startDate", p.StartDate).
		str("endDate", p.EndDate)

	var list model.AuditLogList
	if err := s.client.Get(ctx, "/admin/audit", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("監査ログの取得に失敗しました: %w", err)
	}
	return &list, nil
}

// ListWithdrawalsParams は出金申請一覧の絞り込み条件。
type ListWithdrawalsParams struct {
	Page   int
	Limit  int
	Status string
	UserID string
}

// ListWithdrawals は出金申請の一覧を返す。
func (s *Service) ListWithdrawals(ctx context.Context, p ListWithdrawalsParams) (*model.WithdrawalList, error) {
	q := newQuery(false).num("page", p.Page).num("limit", p.Limit).str("status", p.Status).str("userId", p.UserID)

	var list model.WithdrawalList
	if err := s.client.Get(ctx, "/admin/withdrawals", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("出金申請一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}

// ProcessWithdrawal は出金申請を支払い済みとして処理する。振込の参照IDは必須。
func (s *Service) ProcessWithdrawal(ctx context.Context, id, payoutReferenceID string) (*model.ActionResult, error) {
	escaped, err := requireID("withdrawalId", id)
	if err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(payoutReferenceID)
	if ref == "" {
		return nil, model.NewValidationError("payoutReferenceId", "振込の参照IDを入力してください")
	}

	var result model.ActionResult
	if err := s.client.Post(ctx, "/admin/withdrawals/"+escaped+"/process", map[string]string{"payoutReferenceId": ref}, &result); err != nil {
		return nil, fmt.Errorf("出金処理に失敗しました: %w", err)
	}
	s.logger.Info("出金申請を処理しました", slog.String("withdrawal_id", id))
	return &result, nil
}

// RejectWithdrawal は出金申請を却下する。監査理由は必須。
func (s *Service) RejectWithdrawal(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	escaped, err := requireID("withdrawalId", id)
	if err != nil {
		return nil, err
	}
	r, err := s.reason(reason)
	if err != nil {
		return nil, err
	}

	var result model.ActionResult
	if err := s.client.Post(ctx, "/admin/withdrawals/"+escaped+"/reject", map[string]string{"reason": r}, &result); err != nil {
		return nil, fmt.Errorf("出金申請の却下に失敗しました: %w", err)
	}
	s.logger.Info("出金申請を却下しました", slog.String("withdrawal_id", id))
	return &result, nil
}

// ListRefundsParams は返金申請一覧の絞り込み条件。
type ListRefundsParams struct {
	Page       int
	Limit      int
	Status     string
	JobID      string
	EmployerID string
}

// ListRefunds は返金申請の一覧を返す。
func (s *Service) ListRefunds(ctx context.Context, p ListRefundsParams) (*model.RefundList, error) {
	q := newQuery(false).
		num("page", p.Page).
		num("limit", p.Limit).
		str("status", p.Status).
		str("jobId", p.JobID).
		str("employerId", p.EmployerID)

	var list model.RefundList
	if err := s.client.Get(ctx, "/admin/refunds", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("返金申請一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}
