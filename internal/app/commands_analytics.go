package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/dashboard"
	"github.com/hirearn/admin-console/internal/model"
)

// dateRangeFlags は --from と --to を登録する。
func dateRangeFlags(fs *flag.FlagSet) *admin.DateRange {
	r := &admin.DateRange{}
	fs.StringVar(&r.StartDate, "from", "", "開始日 (YYYY-MM-DD)")
	fs.StringVar(&r.EndDate, "to", "", "終了日 (YYYY-MM-DD)")
	return r
}

// renderSnapshot は分析ダッシュボードの各セクションを出力する。未取得のセクションは "-" を表示する。
func renderSnapshot(w io.Writer, s dashboard.Snapshot) {
	if o := s.Overview; o != nil {
		kv(w, "Jobs created today", o.JobsCreatedToday)
		kv(w, "Jobs completed today", o.JobsCompletedToday)
		kv(w, "Jobs cancelled/expired today", o.JobsCancelledOrExpiredToday)
		kv(w, "Gross job value today", inr(o.GrossJobValueToday))
		kv(w, "Platform fee today", inr(o.PlatformFeeToday))
		kv(w, "Gateway fees today", inr(o.GatewayFeesToday))
		kv(w, "Net platform revenue today", inr(o.NetPlatformRevenueToday))
	} else {
		kv(w, "Overview", "-")
	}
	if p := s.PaymentsHealth; p != nil {
		kv(w, "Payments created today", p.PaymentsCreatedToday)
		kv(w, "Payments completed today", p.PaymentsCompletedToday)
		kv(w, "Payments pending", p.PaymentsPending)
		kv(w, "Payments pending >15min", p.PaymentsPendingOver15Min)
		kv(w, "Payments failed", p.PaymentsFailed)
		kv(w, "Oldest pending (min)", optInt(p.OldestPendingPaymentAgeMinutes))
	} else {
		kv(w, "Payments health", "-")
	}
	if wh := s.WalletHealth; wh != nil {
		kv(w, "Wallet credits today", wh.WalletCreditsToday)
		kv(w, "Wallet debits today", wh.WalletDebitsToday)
		kv(w, "Manual adjustments today", wh.ManualAdjustmentsToday)
		kv(w, "Mismatched wallets", optInt(wh.MismatchedWalletCount))
	} else {
		kv(w, "Wallet health", "-")
	}
	if j := s.JobExecution; j != nil {
		kv(w, "Jobs in progress", j.JobsInProgress)
		kv(w, "Check-ins today", fmt.Sprintf("%d/%d", j.ActualCheckinsToday, j.ExpectedCheckinsToday))
		kv(w, "Auto checkouts today", j.AutoCheckoutsToday)
		kv(w, "No-shows today", j.NoShowsToday)
	} else {
		kv(w, "Job execution", "-")
	}
	if st := s.Settlements; st != nil {
		kv(w, "Eligible for settlement", st.JobsEligibleForSettlement)
		kv(w, "Settled today", st.JobsSettledToday)
		kv(w, "Pending >24h", st.SettlementsPendingOver24h)
		kv(w, "Payout failures today", st.PayoutFailuresToday)
	} else {
		kv(w, "Settlements", "-")
	}
	if i := s.Incidents; i != nil {
		kv(w, "Payment issues today", i.PaymentIssuesToday)
		kv(w, "Settlement issues today", i.SettlementIssuesToday)
		kv(w, "Manual interventions today", i.ManualInterventionsToday)
		kv(w, "Unresolved incidents", i.UnresolvedIncidentsCount)
	} else {
		kv(w, "Incidents", "-")
	}

	if !s.RefreshedAt.IsZero() {
		kv(w, "Last refreshed", s.RefreshedAt.Local().Format(time.RFC3339))
	}
	if s.Error != "" {
		kv(w, "Error", s.Error)
	}
}

// cmdAnalytics は分析ダッシュボードを1回取得して表示する。
// 一部のセクションが失敗しても取得できたセクションは表示する。
func cmdAnalytics(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(c.flags("analytics"), args); err != nil {
		return err
	}
	r := dashboard.NewRefresher(dashboard.NewLoader(c.svc), c.logger, c.metrics, nil)
	err := r.RunOnce(ctx)
	snap := r.Current()
	if perr := c.emit(snap, func(w io.Writer) { renderSnapshot(w, snap) }); perr != nil {
		return perr
	}
	return err
}

// cmdWatch は分析ダッシュボードを定期的に再取得し、サイクルごとに表示する。
// SIGINTまたはSIGTERMで終了する。
func cmdWatch(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("watch")
	interval := fs.Duration("interval", c.cfg.AnalyticsRefreshInterval, "リフレッシュ間隔")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	var mu sync.Mutex
	onCycle := func(snap dashboard.Snapshot, _ error) {
		mu.Lock()
		defer mu.Unlock()
		if !c.json {
			fmt.Fprintf(c.out, "--- %s ---\n", time.Now().Format(time.RFC3339))
		}
		if err := c.emit(snap, func(w io.Writer) { renderSnapshot(w, snap) }); err != nil {
			c.logger.Warn("failed to print snapshot")
		}
	}

	r := dashboard.NewRefresher(dashboard.NewLoader(c.svc), c.logger, c.metrics, onCycle)
	r.Start(ctx, *interval)
	return nil
}

// cmdJobTimeline は求人のイベント時系列を表示する。
func cmdJobTimeline(ctx context.Context, c *cli, args []string) error {
	positional, err := parseArgs(c.flags("job-timeline"), args)
	if err != nil {
		return err
	}
	jobID, err := requireArg(positional, 0, "jobId")
	if err != nil {
		return err
	}

	tl, err := c.svc.JobTimeline(ctx, jobID)
	if err != nil {
		return err
	}
	return c.emit(tl, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s)\n", orDash(tl.Job.Title), tl.Job.ID)
		fmt.Fprintf(w, "events %d, payments %d, settlement attempts %d, job days %d, audit logs %d\n\n",
			tl.Summary.TotalEvents, tl.Summary.PaymentsCount, tl.Summary.SettlementAttemptsCount,
			tl.Summary.JobDaysCount, tl.Summary.AuditLogsCount)
		row(w, "TIME", "TYPE")
		for _, ev := range tl.Timeline {
			row(w, ev.Timestamp, ev.Type)
		}
	})
}

// cmdJobsDetailed は求人の詳細分析を表示する。
func cmdJobsDetailed(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("jobs-detailed")
	r := dateRangeFlags(fs)
	status := fs.String("status", "", "求人の状態で絞り込み")
	jobType := fs.String("type", "", "求人種別で絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	d, err := c.svc.JobsDetailed(ctx, admin.JobsDetailedParams{DateRange: *r, Status: *status, JobType: *jobType})
	if err != nil {
		return err
	}
	return c.emit(d, func(w io.Writer) {
		fmt.Fprintf(w, "jobs %d, amount %s, workers %d, with issues %d\n\n",
			d.Summary.TotalJobs, inr(d.Summary.TotalAmount), d.Summary.TotalWorkers, d.Summary.JobsWithIssuesCount)
		row(w, "STATUS", "PAYMENT", "TYPE", "PAYOUT", "COUNT", "AMOUNT", "WORKERS")
		for _, b := range d.Breakdown {
			row(w, orDash(b.Key.Status), orDash(b.Key.PaymentStatus), orDash(b.Key.JobType), orDash(b.Key.PayoutMode),
				b.Count, inr(b.TotalAmount), b.TotalWorkers)
		}
		if len(d.JobsWithIssues) > 0 {
			fmt.Fprintln(w)
			row(w, "ISSUE JOB", "TITLE", "STATUS", "PAYMENT", "DAYS", "AMOUNT")
			for _, j := range d.JobsWithIssues {
				row(w, j.ID, j.Title, j.Status, j.PaymentStatus, j.DaysSinceCompletion, inr(j.TotalAmount))
			}
		}
	})
}

// cmdPaymentsDetailed は決済の詳細分析を表示する。
func cmdPaymentsDetailed(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("payments-detailed")
	r := dateRangeFlags(fs)
	status := fs.String("status", "", "決済の状態で絞り込み")
	typ := fs.String("type", "", "決済種別で絞り込み")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	d, err := c.svc.PaymentsDetailed(ctx, admin.PaymentsDetailedParams{DateRange: *r, Status: *status, Type: *typ})
	if err != nil {
		return err
	}
	return c.emit(d, func(w io.Writer) {
		fmt.Fprintf(w, "payments %d, amount %s, failed %d, pending %d\n\n",
			d.Summary.TotalPayments, inr(d.Summary.TotalAmount), d.Summary.FailedCount, d.Summary.PendingCount)
		row(w, "STATUS", "TYPE", "COUNT", "AMOUNT", "AVG")
		for _, b := range d.Breakdown {
			row(w, b.Key.Status, b.Key.Type, b.Count, inr(b.TotalAmount), inr(b.AvgAmount))
		}
		if len(d.FailedPayments) > 0 {
			fmt.Fprintln(w)
			row(w, "FAILED", "TYPE", "AMOUNT", "REASON", "CREATED")
			for _, p := range d.FailedPayments {
				row(w, p.ID, p.Type, inr(p.Amount), orDash(p.FailureReason), p.CreatedAt)
			}
		}
	})
}

// cmdProtectionPool は賃金保護プールの分析を表示する。
func cmdProtectionPool(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("protection-pool")
	r := dateRangeFlags(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	p, err := c.svc.ProtectionPool(ctx, *r)
	if err != nil {
		return err
	}
	return c.emit(p, func(w io.Writer) {
		kv(w, "Health", fmt.Sprintf("%s %s", p.Health.Status, p.Health.Message))
		kv(w, "Balance", model.FormatINRExact(p.Current.Balance))
		kv(w, "Total contributions", model.FormatINRExact(p.Current.TotalContributions))
		kv(w, "Total payouts", model.FormatINRExact(p.Current.TotalPayouts))
		kv(w, "Cap per job", model.FormatINRExact(p.Current.ProtectionCapPerJob))
		kv(w, "Utilization", fmt.Sprintf("%.1f%%", p.Health.UtilizationRate))
		kv(w, "Jobs covered", p.Coverage.JobsCoveredCount)
		kv(w, "Unpaid employer debt", model.FormatINRExact(p.Coverage.TotalUnpaidDebt))
		fmt.Fprintln(w)
		row(w, "DATE", "CONTRIBUTIONS", "PAYOUTS", "NET")
		for _, d := range p.DailyTracking {
			row(w, d.Date, inr(d.Contributions), inr(d.Payouts), inr(d.NetChange))
		}
	})
}
