// Package metrics 基于Prometheus的指标收集
//
// 指标在InitMetrics中注册到默认Registry，/metrics端点通过promhttp暴露。
// 业务代码使用Record*辅助函数，未显式初始化时会自动初始化。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 图书目录
	CatalogChangesTotal *prometheus.CounterVec

	// 折扣批处理
	BooksDiscountedTotal *prometheus.CounterVec
	DiscountRunsTotal    *prometheus.CounterVec
	DiscountRunDuration  prometheus.Histogram

	// 熔断器
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列
	MessagesPublishedTotal    *prometheus.CounterVec
	MessagesConsumedTotal     *prometheus.CounterVec
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标（幂等）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		CatalogChangesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_changes_total",
				Help: "目录数据变更次数",
			},
			[]string{"entity", "action"}, // entity: book/author/genre，action: create/update/delete
		)

		BooksDiscountedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "books_discounted_total",
				Help: "折扣批处理逐条处理结果",
			},
			[]string{"result"}, // updated/skipped/failed
		)

		DiscountRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discount_runs_total",
				Help: "折扣批处理执行次数",
			},
			[]string{"result"}, // success/failure
		)

		DiscountRunDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discount_run_duration_seconds",
				Help:    "折扣批处理耗时（秒）",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120},
			},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"}, // success/failure/rejected/canceled
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"}, // success/failure
		)

		MessageProcessingDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_processing_duration_seconds",
				Help:    "消息处理耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
		)
	})
}

// =========================================
// 业务辅助函数
// =========================================

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, path, status string, seconds float64) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordCatalogChange 记录目录数据变更
func RecordCatalogChange(entity, action string) {
	InitMetrics()
	CatalogChangesTotal.WithLabelValues(entity, action).Inc()
}

// RecordDiscountResult 记录单条图书的折扣处理结果
func RecordDiscountResult(result string) {
	InitMetrics()
	BooksDiscountedTotal.WithLabelValues(result).Inc()
}

// RecordDiscountRun 记录一次折扣批处理
func RecordDiscountRun(result string, seconds float64) {
	InitMetrics()
	DiscountRunsTotal.WithLabelValues(result).Inc()
	DiscountRunDuration.Observe(seconds)
}

// RecordCircuitBreaker 记录熔断器请求结果
func RecordCircuitBreaker(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetCircuitBreakerState 更新熔断器状态
func SetCircuitBreakerState(name string, state float64) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordMessagePublished 记录消息发布
func RecordMessagePublished(exchange, routingKey string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// RecordMessageConsumed 记录消息消费结果与耗时
func RecordMessageConsumed(queue, result string, seconds float64) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(seconds)
}

// =========================================
// 通用辅助函数
// =========================================

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}
