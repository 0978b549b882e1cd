// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OAuthExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_oauth_code_exchanges_total",
		Help: "Authorization-code exchanges by platform and result.",
	}, []string{"platform", "result"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_oauth_token_refreshes_total",
		Help: "Refresh-token exchanges by platform and result.",
	}, []string{"platform", "result"})

	ContentFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_external_content_fetches_total",
		Help: "Recent-content lookups by platform and outcome.",
	}, []string{"platform", "outcome"})

	MemoryTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_memory_tasks_total",
		Help: "Semantic memory tasks by result.",
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "journal_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
