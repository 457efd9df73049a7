package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/metrics"
)

// DefaultInterval は分析ダッシュボードの既定のリフレッシュ間隔。
const DefaultInterval = 5 * time.Minute

// Refresher は分析ダッシュボードを定期的に再取得する。
// 各ティックのサイクルは独立したgoroutineで実行され、重複実行は防止しない。
// 同時に実行中のサイクルがある場合、各セクションは後から完了した値で上書きされる。
type Refresher struct {
	loader  *Loader
	logger  *slog.Logger
	metrics metrics.MetricsCollector
	onCycle func(Snapshot, error)

	mu      sync.RWMutex
	current Snapshot

	wg sync.WaitGroup
}

// NewRefresher はRefresherの新しいインスタンスを生成する。
// onCycleは各サイクルの完了時に呼ばれる（nil可）。
func NewRefresher(loader *Loader, logger *slog.Logger, m metrics.MetricsCollector, onCycle func(Snapshot, error)) *Refresher {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Refresher{
		loader:  loader,
		logger:  logger,
		metrics: m,
		onCycle: onCycle,
	}
}

// Start は起動直後に1回、その後はintervalごとにリフレッシュを実行する。
// コンテキストがキャンセルされるまで実行を継続し、実行中のサイクルの完了を待って戻る。
func (r *Refresher) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("分析ダッシュボードの自動リフレッシュを開始しました",
		slog.Duration("interval", interval),
	)

	r.launch(ctx)

	for {
		select {
		case <-ctx.Done():
			r.wg.Wait()
			r.logger.Info("分析ダッシュボードの自動リフレッシュを停止しました")
			return
		case <-ticker.C:
			r.launch(ctx)
		}
	}
}

// launch はサイクルを新しいgoroutineで開始する。
func (r *Refresher) launch(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.RunOnce(ctx)
	}()
}

// RunOnce は1回のリフレッシュサイクルを同期的に実行する。
// サイクル開始時にエラー表示をクリアし、失敗した場合はメッセージを記録する。
func (r *Refresher) RunOnce(ctx context.Context) error {
	start := time.Now()

	r.mu.Lock()
	r.current.Error = ""
	r.mu.Unlock()

	snap, err := r.loader.Load(ctx, r.commit)

	r.mu.Lock()
	if err != nil {
		r.current.Error = api.Message(err)
	} else {
		r.current.RefreshedAt = snap.RefreshedAt
	}
	current := r.current
	r.mu.Unlock()

	if err != nil {
		r.metrics.RecordRefreshFailure()
		r.logger.Error("分析データのリフレッシュに失敗しました",
			slog.String("error", err.Error()),
		)
	} else {
		r.metrics.RecordRefreshSuccess()
		r.logger.Info("分析データをリフレッシュしました",
			slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
		)
	}

	if r.onCycle != nil {
		r.onCycle(current, err)
	}
	return err
}

// commit は取得できたセクションを現在値に反映する。
func (r *Refresher) commit(apply func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(&r.current)
}

// Current は現在のスナップショットのコピーを返す。
func (r *Refresher) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
