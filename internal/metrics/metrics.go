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
// モックAPI、開発サーバー、APIクライアントから利用する。
type MetricsCollector interface {
	RecordStubRequest(route string, statusCode int)
	RecordStubLatency(route string, duration time.Duration)
	RecordLogin(success bool)
	RecordClientFailure(statusCode int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	stubRequests   *prometheus.CounterVec
	stubLatency    *prometheus.HistogramVec
	loginAttempts  *prometheus.CounterVec
	clientFailures *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		stubRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_stub_requests_total",
			Help: "モックAPIが応答したリクエスト数",
		}, []string{"route", "status_code"}),
		stubLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrms_stub_latency_seconds",
			Help:    "モックAPIの応答時間（人工遅延を含む、秒）",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5},
		}, []string{"route"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_login_attempts_total",
			Help: "ログイン試行数（結果別）",
		}, []string{"outcome"}),
		clientFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_client_failures_total",
			Help: "APIクライアントで観測した失敗レスポンス数",
		}, []string{"status_code"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_http_status_total",
			Help: "開発サーバーのHTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.stubRequests,
		c.stubLatency,
		c.loginAttempts,
		c.clientFailures,
		c.httpStatus,
	)

	return c
}

// RecordStubRequest はモックAPIの応答を記録する。
func (c *Collector) RecordStubRequest(route string, statusCode int) {
	c.stubRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// RecordStubLatency はモックAPIの応答時間を記録する。
func (c *Collector) RecordStubLatency(route string, duration time.Duration) {
	c.stubLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordClientFailure はクライアント側で観測した失敗を記録する。0はネットワークエラー。
func (c *Collector) RecordClientFailure(statusCode int) {
	c.clientFailures.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないMetricsCollector。CLIの単発実行やテストで使う。
type Nop struct{}

func (Nop) RecordStubRequest(string, int) {}
func (Nop) RecordStubLatency(string, time.Duration) {}
func (Nop) RecordLogin(bool) {}
func (Nop) RecordClientFailure(int) {}
func (Nop) RecordHTTPStatus(int) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
