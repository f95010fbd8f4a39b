// Package metrics 提供基于Prometheus的指标采集
//
// # 指标类型
//
//   - Counter：只增不减，如请求数、注册数、登录失败数
//   - Gauge：可增可减，如正在处理的请求数、熔断器状态
//   - Histogram：分布统计，如请求耗时
//
// # 使用示例
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.LoginAttemptsTotal, map[string]string{"result": "success"})
//
// # 注意事项
//
// 标签值要有界：path标签使用路由模板（/api/books/:id），不要用真实URL，
// 否则每个ID都会产生一条新的时间序列。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// UsersRegisteredTotal 注册成功的用户数
	UsersRegisteredTotal prometheus.Counter

	// LoginAttemptsTotal 登录次数
	// 标签：result（success/invalid_credentials/inactive）
	LoginAttemptsTotal *prometheus.CounterVec

	// TokensRevokedTotal 注销的Token数
	// 标签：type（access/refresh）
	TokensRevokedTotal *prometheus.CounterVec

	// BooksCreatedTotal 新增图书数
	BooksCreatedTotal prometheus.Counter

	// RateLimitedTotal 被限流拒绝的请求数
	// 标签：path
	RateLimitedTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
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

	UsersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_users_registered_total",
			Help: "注册成功的用户数",
		},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_login_attempts_total",
			Help: "登录次数（按结果区分）",
		},
		[]string{"result"},
	)

	TokensRevokedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_tokens_revoked_total",
			Help: "注销的Token数",
		},
		[]string{"type"},
	)

	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_books_created_total",
			Help: "新增图书数",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_rate_limited_total",
			Help: "被限流拒绝的请求数",
		},
		[]string{"path"},
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
		[]string{"name", "result"},
	)
}

// 以下辅助函数对nil指标为空操作，未调用InitMetrics的单元测试也能安全执行

func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
