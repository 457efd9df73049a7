// Package dashboard は分析ダッシュボードの一括取得と定期リフレッシュを提供する。
package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hirearn/admin-console/internal/model"
)

// AnalyticsSource は6種類の分析データの取得元。
// admin.Serviceがこのインターフェースを満たす。
type AnalyticsSource interface {
	Overview(ctx context.Context) (*model.OverviewAnalytics, error)
	PaymentsHealth(ctx context.Context) (*model.PaymentsHealthAnalytics, error)
	WalletHealth(ctx context.Context) (*model.WalletHealthAnalytics, error)
	JobExecution(ctx context.Context) (*model.JobExecutionAnalytics, error)
	Settlements(ctx context.Context) (*model.SettlementsAnalytics, error)
	Incidents(ctx context.Context) (*model.IncidentsAnalytics, error)
}

// Snapshot は分析ダッシュボードの各セクションの最新値。
// 未取得のセクションはnil。
type Snapshot struct {
	Overview       *model.OverviewAnalytics       `json:"overview"`
	PaymentsHealth *model.PaymentsHealthAnalytics `json:"paymentsHealth"`
	WalletHealth   *model.WalletHealthAnalytics   `json:"walletHealth"`
	JobExecution   *model.JobExecutionAnalytics   `json:"jobExecution"`
	Settlements    *model.SettlementsAnalytics    `json:"settlements"`
	Incidents      *model.IncidentsAnalytics      `json:"incidents"`
	// RefreshedAt は6セクション全ての取得に成功した最後の時刻。
	RefreshedAt time.Time `json:"refreshedAt"`
	// Error は直近のサイクルが失敗した場合のメッセージ。
	Error string `json:"error,omitempty"`
}

// Complete は全セクションが取得済みかを返す。
func (s Snapshot) Complete() bool {
	return s.Overview != nil && s.PaymentsHealth != nil && s.WalletHealth != nil &&
		s.JobExecution != nil && s.Settlements != nil && s.Incidents != nil
}

// Commit はセクションの値をSnapshotに書き込む関数を受け取る。
// 各セクションの取得が完了した時点で呼ばれる。
type Commit func(apply func(*Snapshot))

// Loader は6種類の分析データを並行して取得する。
type Loader struct {
	source AnalyticsSource
	now    func() time.Time
}

// NewLoader はLoaderの新しいインスタンスを生成する。
func NewLoader(source AnalyticsSource) *Loader {
	return &Loader{source: source, now: time.Now}
}

// Load は6つの分析APIを同時に呼び出し、全ての完了を待つ。
// 1つが失敗しても他の呼び出しは取り消さない。取得できたセクションは
// 完了順にcommitへ渡され、戻り値のエラーは最初に発生したもの。
// RefreshedAtは全て成功した場合のみ設定される。
func (l *Loader) Load(ctx context.Context, commit Commit) (*Snapshot, error) {
	snap := &Snapshot{}
	var mu sync.Mutex
	set := func(apply func(*Snapshot)) {
		mu.Lock()
		apply(snap)
		mu.Unlock()
		if commit != nil {
			commit(apply)
		}
	}

	var g errgroup.Group
	section(ctx, &g, l.source.Overview, set, func(s *Snapshot, v *model.OverviewAnalytics) { s.Overview = v })
	section(ctx, &g, l.source.PaymentsHealth, set, func(s *Snapshot, v *model.PaymentsHealthAnalytics) { s.PaymentsHealth = v })
	section(ctx, &g, l.source.WalletHealth, set, func(s *Snapshot, v *model.WalletHealthAnalytics) { s.WalletHealth = v })
	section(ctx, &g, l.source.JobExecution, set, func(s *Snapshot, v *model.JobExecutionAnalytics) { s.JobExecution = v })
	section(ctx, &g, l.source.Settlements, set, func(s *Snapshot, v *model.SettlementsAnalytics) { s.Settlements = v })
	section(ctx, &g, l.source.Incidents, set, func(s *Snapshot, v *model.IncidentsAnalytics) { s.Incidents = v })

	if err := g.Wait(); err != nil {
		return snap, err
	}
	snap.RefreshedAt = l.now()
	return snap, nil
}

// section は1セクションの取得をerrgroupに登録する。
func section[T any](
	ctx context.Context,
	g *errgroup.Group,
	fetch func(context.Context) (*T, error),
	set func(func(*Snapshot)),
	assign func(*Snapshot, *T),
) {
	g.Go(func() error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		set(func(s *Snapshot) { assign(s, v) })
		return nil
	})
}
