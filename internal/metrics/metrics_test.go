package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	if c := NewCollector(prometheus.NewRegistry()); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestCollector_ImplementsInterface はCollectorとNoopがMetricsCollectorを満たすことを検証する。
func TestCollector_ImplementsInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
	var _ MetricsCollector = Noop{}
}

// TestRecordBackendRequest_LabelsByMethodAndStatus はメソッドとステータスでラベル付けされることを検証する。
func TestRecordBackendRequest_LabelsByMethodAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendRequest("GET", 200, 10*time.Millisecond)
	c.RecordBackendRequest("GET", 200, 20*time.Millisecond)
	c.RecordBackendRequest("PUT", 401, 5*time.Millisecond)

	mf := gather(t, reg, "hirearn_admin_backend_requests_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}

	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		var method, status string
		for _, lp := range m.GetLabel() {
			switch lp.GetName() {
			case "method":
				method = lp.GetValue()
			case "status_code":
				status = lp.GetValue()
			}
		}
		counts[method+" "+status] = m.GetCounter().GetValue()
	}
	if counts["GET 200"] != 2 {
		t.Errorf("GET 200 = %v, want 2", counts["GET 200"])
	}
	if counts["PUT 401"] != 1 {
		t.Errorf("PUT 401 = %v, want 1", counts["PUT 401"])
	}

	latency := gather(t, reg, "hirearn_admin_backend_latency_seconds")
	if got := latency.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("latency sample count = %d, want 3", got)
	}
}

// TestCounters_Increment は単純カウンタが増加することを検証する。
func TestCounters_Increment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNetworkError()
	c.RecordSessionExpired()
	c.RecordSessionExpired()
	c.RecordRefreshSuccess()
	c.RecordRefreshFailure()

	cases := map[string]float64{
		"hirearn_admin_backend_network_errors_total":    1,
		"hirearn_admin_session_expired_total":           2,
		"hirearn_admin_analytics_refresh_success_total": 1,
		"hirearn_admin_analytics_refresh_fail_total":    1,
	}
	for name, want := range cases {
		got := gather(t, reg, name).GetMetric()[0].GetCounter().GetValue()
		if got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

// TestHandler_ServesMetrics はスクレイプでメトリクスが返ることを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordNetworkError()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "hirearn_admin_backend_network_errors_total") {
		t.Error("response should contain hirearn_admin_backend_network_errors_total metric")
	}
}
