package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, matched route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youvshr_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by matched route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "youvshr_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// CommentsSubmitted counts comments entering the moderation queue, edits included.
	CommentsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youvshr_comments_submitted_total",
		Help: "Total number of comments submitted for moderation",
	})

	// CommentsApproved counts comments moved from pending to approved.
	CommentsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youvshr_comments_approved_total",
		Help: "Total number of comments approved",
	})

	// AuthzDenied counts rejected mutations by resource kind.
	AuthzDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youvshr_authz_denied_total",
		Help: "Total number of forbidden mutation attempts",
	}, []string{"resource"})
)

// Handler 返回默认注册表的抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
