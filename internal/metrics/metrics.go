// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// リクエストクライアントとダッシュボードのリフレッシャーから利用する。
type MetricsCollector interface {
	RecordBackendRequest(method string, statusCode int, duration time.Duration)
	RecordNetworkError()
	RecordSessionExpired()
	RecordRefreshSuccess()
	RecordRefreshFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  prometheus.Histogram
	networkErrors   prometheus.Counter
	sessionExpired  prometheus.Counter
	refreshSuccess  prometheus.Counter
	refreshFail     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hirearn_admin_backend_requests_total",
			Help: "バックエンドAPI呼び出しのメソッド・ステータスコード別の合計数",
		}, []string{"method", "status_code"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hirearn_admin_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		networkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hirearn_admin_backend_network_errors_total",
			Help: "バックエンドに接続できなかった呼び出しの合計数",
		}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hirearn_admin_session_expired_total",
			Help: "401応答によりセッションを破棄した回数",
		}),
		refreshSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hirearn_admin_analytics_refresh_success_total",
			Help: "分析ダッシュボードのリフレッシュ成功の合計数",
		}),
		refreshFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hirearn_admin_analytics_refresh_fail_total",
			Help: "分析ダッシュボードのリフレッシュ失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.networkErrors,
		c.sessionExpired,
		c.refreshSuccess,
		c.refreshFail,
	)

	return c
}

// RecordBackendRequest はバックエンドAPI呼び出しの結果とレイテンシを記録する。
func (c *Collector) RecordBackendRequest(method string, statusCode int, duration time.Duration) {
	c.backendRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.Observe(duration.Seconds())
}

// RecordNetworkError はネットワークエラーを記録する。
func (c *Collector) RecordNetworkError() {
	c.networkErrors.Inc()
}

// RecordSessionExpired はセッション失効を記録する。
func (c *Collector) RecordSessionExpired() {
	c.sessionExpired.Inc()
}

// RecordRefreshSuccess はリフレッシュ成功を記録する。
func (c *Collector) RecordRefreshSuccess() {
	c.refreshSuccess.Inc()
}

// RecordRefreshFailure はリフレッシュ失敗を記録する。
func (c *Collector) RecordRefreshFailure() {
	c.refreshFail.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop は何も記録しないMetricsCollector。CLI実行時に使用する。
type Noop struct{}

func (Noop) RecordBackendRequest(string, int, time.Duration) {}
func (Noop) RecordNetworkError()                             {}
func (Noop) RecordSessionExpired()                           {}
func (Noop) RecordRefreshSuccess()                           {}
func (Noop) RecordRefreshFailure()                           {}
