package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 认证结果标签
const (
	AuthOK            = "ok"
	AuthMissingHeader = "missing_header"
	AuthBadScheme     = "bad_scheme"
	AuthUnknownToken  = "unknown_token"
	AuthExpired       = "expired"
	AuthError         = "error"
)

var (
	// RequestDuration 记录请求耗时
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal 记录请求总数
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthAttempts 按结果统计 Bearer 认证
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Bearer token authentication attempts by outcome",
		},
		[]string{"result"},
	)

	// TokenSweeps 统计过期令牌清理的执行情况
	TokenSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_sweeps_total",
			Help: "Expired token sweeps by outcome",
		},
		[]string{"result"},
	)

	// OptimisticConflicts counts updates rejected because of a stale version.
	OptimisticConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimistic_lock_conflicts_total",
			Help: "Updates rejected by optimistic concurrency control",
		},
		[]string{"resource"},
	)
)

// Collectors lists every collector owned by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestDuration,
		RequestTotal,
		AuthAttempts,
		TokenSweeps,
		OptimisticConflicts,
	}
}

func init() {
	prometheus.MustRegister(Collectors()...)
}
