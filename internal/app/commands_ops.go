package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/model"
)

// pageFlags はページングフラグ --page と --limit を登録したFlagSetを生成する。
func pageFlags(c *cli, name string) (fs *flag.FlagSet, page, limit *int) {
	fs = c.flags(name)
	page = fs.Int("page", 1, "ページ番号")
	limit = fs.Int("limit", 20, "1ページの件数")
	return fs, page, limit
}

// refName はIDまたは展開済みドキュメントの参照から表示名を取り出す。
func refName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "-"
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return orDash(id)
	}
	var doc struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		FullName string `json:"fullName"`
		Phone    string `json:"phoneNumber"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "-"
	}
	for _, s := range []string{doc.Title, doc.FullName, doc.Phone, doc.ID} {
		if s != "" {
			return s
		}
	}
	return "-"
}

// cmdDashboard はダッシュボードの集計値を表示する。
func cmdDashboard(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(c.flags("dashboard"), args); err != nil {
		return err
	}
	stats, err := c.svc.DashboardStats(ctx)
	if err != nil {
		return err
	}
	return c.emit(stats, func(w io.Writer) {
		kv(w, "Pending KYC", stats.PendingKYC)
		kv(w, "Jobs awaiting payout", stats.JobsAwaitingPayout)
		kv(w, "Failed payouts", stats.FailedPayouts)
		kv(w, "Outstanding debt", inr(stats.TotalOutstandingDebt))
		kv(w, "Employers with debt", stats.UniqueEmployersWithDebt)
	})
}

// cmdPayments は支払い概要を表示する。
func cmdPayments(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(c.flags("payments"), args); err != nil {
		return err
	}
	summary, err := c.svc.PaymentSummary(ctx)
	if err != nil {
		return err
	}
	return c.emit(summary, func(w io.Writer) {
		debt := summary.EmployerDebt
		kv(w, "Jobs awaiting payout", summary.JobsAwaitingPayout)
		kv(w, "Failed payouts", summary.FailedPayoutsCount)
		kv(w, "Outstanding debt", model.FormatINRExact(debt.TotalOutstanding))
		kv(w, "Total debt", model.FormatINRExact(debt.TotalDebtAmount))
		kv(w, "Paid from pool", model.FormatINRExact(debt.TotalPaidFromPool))
		kv(w, "Employers with debt", debt.UniqueEmployers)
		kv(w, "Debts", debt.TotalDebts)
	})
}

// cmdWithdrawals は出金申請の一覧を表示する。
func cmdWithdrawals(ctx context.Context, c *cli, args []string) error {
	fs, page, limit := pageFlags(c, "withdrawals")
	status := fs.String("status", "", "状態で絞り込み (PENDING, PROCESSING, PAID, REJECTED)")
	userID := fs.String("user", "", "申請者のユーザーIDで絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	list, err := c.svc.ListWithdrawals(ctx, admin.ListWithdrawalsParams{
		Page: *page, Limit: *limit, Status: *status, UserID: *userID,
	})
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		row(w, "ID", "USER", "AMOUNT", "STATUS", "ACCOUNT", "IFSC", "REQUESTED")
		for _, wd := range list.Withdrawals {
			row(w, wd.ID, wd.User.DisplayName(), model.FormatINRExact(wd.Amount), wd.Status,
				orDash(wd.BankSnapshot.MaskedAccountNumber()), orDash(wd.BankSnapshot.IFSCCode), wd.RequestedAt)
		}
		pageFooter(w, list.Page)
	})
}

// cmdProcessWithdrawal は出金申請を支払い済みにする。
func cmdProcessWithdrawal(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("process-withdrawal")
	ref := fs.String("ref", "", "振込の参照ID（必須）")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "withdrawalId")
	if err != nil {
		return err
	}

	result, err := c.svc.ProcessWithdrawal(ctx, id, *ref)
	if err != nil {
		return err
	}
	return c.printResult(result, "出金申請を処理しました。")
}

// cmdRejectWithdrawal は出金申請を却下する。
func cmdRejectWithdrawal(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("reject-withdrawal")
	reason := fs.String("reason", "", "却下の理由（必須）")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "withdrawalId")
	if err != nil {
		return err
	}

	result, err := c.svc.RejectWithdrawal(ctx, id, *reason)
	if err != nil {
		return err
	}
	return c.printResult(result, "出金申請を却下しました。")
}

// cmdSettlements は精算試行の一覧を表示する。
func cmdSettlements(ctx context.Context, c *cli, args []string) error {
	fs, page, limit := pageFlags(c, "settlements")
	status := fs.String("status", "", "状態で絞り込み")
	triggeredBy := fs.String("triggered-by", "", "起動元で絞り込み")
	jobID := fs.String("job", "", "求人IDで絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	list, err := c.svc.ListSettlements(ctx, admin.ListSettlementsParams{
		Page: *page, Limit: *limit, Status: *status, TriggeredBy: *triggeredBy, JobID: *jobID,
	})
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		row(w, "ID", "JOB", "TRIGGERED BY", "STATUS", "ERROR", "CREATED")
		for _, s := range list.Settlements {
			row(w, s.ID, orDash(s.Job.Title), s.TriggeredBy, s.Status, orDash(s.Error), s.CreatedAt)
		}
		pageFooter(w, list.Page)
	})
}

// cmdRetrySettlement は精算を再試行する。
func cmdRetrySettlement(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("retry-settlement")
	reason := fs.String("reason", "", "再試行の理由（必須）")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	jobID, err := requireArg(positional, 0, "jobId")
	if err != nil {
		return err
	}

	result, err := c.svc.RetrySettlement(ctx, jobID, *reason)
	if err != nil {
		return err
	}
	return c.printResult(result, "精算を再試行しました。")
}

// cmdDisputes は紛争の一覧を表示する。
func cmdDisputes(ctx context.Context, c *cli, args []string) error {
	fs, page, limit := pageFlags(c, "disputes")
	status := fs.String("status", "", "状態で絞り込み (pending, in_review, resolved, dismissed)")
	jobID := fs.String("job", "", "求人IDで絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	list, err := c.svc.ListDisputes(ctx, admin.ListDisputesParams{
		Page: *page, Limit: *limit, Status: *status, JobID: *jobID,
	})
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		row(w, "ID", "JOB", "RAISED BY", "CATEGORY", "STATUS", "CREATED")
		for _, d := range list.Disputes {
			row(w, d.ID, refName(d.Job), refName(d.RaisedBy), d.Category, d.Status, d.CreatedAt)
		}
		pageFooter(w, list.Page)
	})
}

// printDispute は紛争の詳細を出力する。
func (c *cli) printDispute(d *model.Dispute) error {
	return c.emit(d, func(w io.Writer) {
		kv(w, "ID", d.ID)
		kv(w, "Job", refName(d.Job))
		kv(w, "Raised by", refName(d.RaisedBy))
		kv(w, "Category", d.Category)
		kv(w, "Status", d.Status)
		kv(w, "Description", orDash(d.Description))
		kv(w, "Admin notes", orDash(d.AdminNotes))
		kv(w, "Resolved", orDash(d.ResolvedAt))
		kv(w, "Created", d.CreatedAt)
	})
}

// cmdDispute は紛争の詳細を表示する。
func cmdDispute(ctx context.Context, c *cli, args []string) error {
	positional, err := parseArgs(c.flags("dispute"), args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "disputeId")
	if err != nil {
		return err
	}
	d, err := c.svc.GetDispute(ctx, id)
	if err != nil {
		return err
	}
	return c.printDispute(d)
}

// cmdUpdateDispute は紛争の状態と管理者メモを更新する。
func cmdUpdateDispute(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("update-dispute")
	status := fs.String("status", "", "新しい状態 (pending, in_review, resolved, dismissed)")
	notes := fs.String("notes", "", "管理者メモ")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "disputeId")
	if err != nil {
		return err
	}

	d, err := c.svc.UpdateDispute(ctx, id, model.DisputeUpdate{
		Status:     model.DisputeStatus(*status),
		AdminNotes: *notes,
	})
	if err != nil {
		return err
	}
	return c.printDispute(d)
}

// cmdAudit は管理操作の監査ログを表示する。
func cmdAudit(ctx context.Context, c *cli, args []string) error {
	fs, page, limit := pageFlags(c, "audit")
	p := admin.ListAuditLogParams{}
	adminID := fs.String("admin", "", "管理者IDで絞り込み")
	actionType := fs.String("action", "", "操作種別で絞り込み")
	entityType := fs.String("entity-type", "", "対象種別で絞り込み")
	entityID := fs.String("entity", "", "対象IDで絞り込み")
	from := fs.String("from", "", "開始日 (YYYY-MM-DD)")
	to := fs.String("to", "", "終了日 (YYYY-MM-DD)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	p.Page, p.Limit = *page, *limit
	p.AdminID, p.ActionType, p.EntityType, p.EntityID = *adminID, *actionType, *entityType, *entityID
	p.StartDate, p.EndDate = *from, *to

	list, err := c.svc.ListAuditLog(ctx, p)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		row(w, "TIME", "ADMIN", "ACTION", "ENTITY", "REASON")
		for _, l := range list.Logs {
			row(w, l.CreatedAt, orDash(l.Admin.DisplayName()), l.ActionType,
				fmt.Sprintf("%s/%s", l.EntityType, l.EntityID), orDash(l.Reason))
		}
		pageFooter(w, list.Page)
	})
}

// cmdRefunds は返金申請の一覧を表示する。
func cmdRefunds(ctx context.Context, c *cli, args []string) error {
	fs, page, limit := pageFlags(c, "refunds")
	status := fs.String("status", "", "状態で絞り込み")
	jobID := fs.String("job", "", "求人IDで絞り込み")
	employerID := fs.String("employer", "", "雇用主IDで絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	list, err := c.svc.ListRefunds(ctx, admin.ListRefundsParams{
		Page: *page, Limit: *limit, Status: *status, JobID: *jobID, EmployerID: *employerID,
	})
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		row(w, "ID", "JOB", "EMPLOYER", "AMOUNT", "STATUS", "SUBMITTED")
		for _, r := range list.Refunds {
			row(w, r.ID, orDash(r.Job.Title), orDash(r.Employer.DisplayName()),
				model.FormatINRExact(r.AmountRequested), r.Status, r.SubmittedAt)
		}
		pageFooter(w, list.Page)
	})
}
