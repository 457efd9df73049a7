package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hirearn/admin-console/internal/model"
)

// ListUsersParams はユーザー一覧の絞り込み条件。
// Role / State に "all" を指定した場合は未指定として扱う。
type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
	State  string
}

// ListKYCReview はKYC審査待ちのユーザー一覧を返す。
func (s *Service) ListKYCReview(ctx context.Context, p ListUsersParams) (*model.UserList, error) {
	q := newQuery(true).num("page", p.Page).num("limit", p.Limit).str("state", p.State)

	var list model.UserList
	if err := s.client.Get(ctx, "/admin/kyc-review", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("KYC審査一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}

// ListUsers はユーザー一覧を返す。
func (s *Service) ListUsers(ctx context.Context, p ListUsersParams) (*model.UserList, error) {
	q := newQuery(true).
		num("page", p.Page).
		num("limit", p.Limit).
		str("search", p.Search).
		str("role", p.Role).
		str("state", p.State)

	var list model.UserList
	if err := s.client.Get(ctx, "/admin/users", q.encode(), &list); err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return &list, nil
}

// GetUser はユーザーの詳細を返す。
func (s *Service) GetUser(ctx context.Context, id string) (*model.AdminUser, error) {
	escaped, err := requireID("userId", id)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User model.AdminUser `json:"user"`
	}
	if err := s.client.Get(ctx, "/admin/users/"+escaped, nil, &resp); err != nil {
		return nil, fmt.Errorf("ユーザー詳細の取得に失敗しました: %w", err)
	}
	return &resp.User, nil
}

// UserAction はユーザーに対する状態遷移操作。
type UserAction string

const (
	ActionApproveKYC     UserAction = "approve-kyc"
	ActionRejectKYC      UserAction = "reject-kyc"
	ActionOnHold         UserAction = "on-hold"
	ActionSuspend        UserAction = "suspend"
	ActionActivate       UserAction = "activate"
	ActionFreezeWallet   UserAction = "wallet/freeze"
	ActionUnfreezeWallet UserAction = "wallet/unfreeze"
)

// UserActions は受け付ける操作の一覧。
var UserActions = []UserAction{
	ActionApproveKYC,
	ActionRejectKYC,
	ActionOnHold,
	ActionSuspend,
	ActionActivate,
	ActionFreezeWallet,
	ActionUnfreezeWallet,
}

// ParseUserAction は文字列から操作を判定する。
// "freeze-wallet" のようなハイフン区切りの別名も受け付ける。
func ParseUserAction(s string) (UserAction, bool) {
	switch s {
	case "freeze-wallet", "freeze":
		return ActionFreezeWallet, true
	case "unfreeze-wallet", "unfreeze":
		return ActionUnfreezeWallet, true
	case "hold":
		return ActionOnHold, true
	}
	for _, a := range UserActions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// ApplyUserAction はユーザーに操作を適用する。監査理由は必須。
func (s *Service) ApplyUserAction(ctx context.Context, id string, action UserAction, reason string) (*model.ActionResult, error) {
	escaped, err := requireID("userId", id)
	if err != nil {
		return nil, err
	}
	r, err := s.reason(reason)
	if err != nil {
		return nil, err
	}

	var result model.ActionResult
	path := fmt.Sprintf("/admin/users/%s/%s", escaped, action)
	if err := s.client.Put(ctx, path, map[string]string{"reason": r}, &result); err != nil {
		return nil, fmt.Errorf("ユーザー操作 %s に失敗しました: %w", action, err)
	}

	s.logger.Info("ユーザー操作を実行しました",
		slog.String("user_id", id),
		slog.String("action", string(action)),
	)
	return &result, nil
}

// ApproveKYC はKYCを承認する。
func (s *Service) ApproveKYC(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, id, ActionApproveKYC, reason)
}

// RejectKYC はKYCを却下する。
func (s *Service) RejectKYC(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, id, ActionRejectKYC, reason)
}

// PutOnHold はユーザーを保留状態にする。
func (s *Service) PutOnHold(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, id, ActionOnHold, reason)
}

// Suspend はユーザーを停止する。
func (s *Service) Suspend(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, id, ActionSuspend, reason)
}

// Activate はユーザーを有効化する。
func (s *Service) Activate(ctx context.Context, id, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, id, ActionActivate, reason)
}

// FreezeWallet はウォレットを凍結する。
func (s *Service) FreezeWallet(ctx context.Context, userID, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, userID, ActionFreezeWallet, reason)
}

// UnfreezeWallet はウォレットの凍結を解除する。
func (s *Service) UnfreezeWallet(ctx context.Context, userID, reason string) (*model.ActionResult, error) {
	return s.ApplyUserAction(ctx, userID, ActionUnfreezeWallet, reason)
}
