// Package metrics 定义 Prometheus 指标，/metrics 由 promhttp 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按路由与状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumni_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthzDeniedTotal 鉴权拒绝次数，stage 为 authn / role / scope / ownership / membership
	AuthzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_authz_denied_total",
			Help: "Total number of denied authentication or authorization checks",
		},
		[]string{"stage", "role"},
	)

	// GraduationPromotionsTotal 毕业晋升（student → alumni）人数
	GraduationPromotionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alumni_graduation_promotions_total",
			Help: "Total number of students promoted to alumni after their batch ended",
		},
	)

	// GraduationRunsTotal 毕业任务执行次数，result 为 ok / error / skipped
	GraduationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumni_graduation_runs_total",
			Help: "Total number of graduation reconciliation runs",
		},
		[]string{"result"},
	)
)

// RecordDenied 记录一次拒绝
func RecordDenied(stage, role string) {
	if role == "" {
		role = "anonymous"
	}
	AuthzDeniedTotal.WithLabelValues(stage, role).Inc()
}
