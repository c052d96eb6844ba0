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
// サービス層から利用する。
type MetricsCollector interface {
	RecordMenuCreated()
	RecordListGenerated()
	RecordItemsAggregated(count int)
	RecordDuplicatesSkipped(count int)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	menusCreated      prometheus.Counter
	listsGenerated    prometheus.Counter
	itemsAggregated   prometheus.Counter
	duplicatesSkipped prometheus.Counter
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		menusCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealplan_menus_created_total",
			Help: "作成された週間メニューの合計数",
		}),
		listsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealplan_lists_generated_total",
			Help: "メニューから生成された買い物リストの合計数",
		}),
		itemsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealplan_list_items_aggregated_total",
			Help: "買い物リスト生成時に集約された食材の合計数",
		}),
		duplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealplan_list_duplicates_skipped_total",
			Help: "買い物リスト生成時に重複除去された食材の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealplan_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealplan_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.menusCreated,
		c.listsGenerated,
		c.itemsAggregated,
		c.duplicatesSkipped,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordMenuCreated はメニュー作成を記録する。
func (c *Collector) RecordMenuCreated() {
	c.menusCreated.Inc()
}

// RecordListGenerated は買い物リスト生成を記録する。
func (c *Collector) RecordListGenerated() {
	c.listsGenerated.Inc()
}

// RecordItemsAggregated は集約された食材数を記録する。
func (c *Collector) RecordItemsAggregated(count int) {
	c.itemsAggregated.Add(float64(count))
}

// RecordDuplicatesSkipped は重複除去された食材数を記録する。
func (c *Collector) RecordDuplicatesSkipped(count int) {
	c.duplicatesSkipped.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

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
