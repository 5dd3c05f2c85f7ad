// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timebank"

// Mutation results.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Ledger mutations by operation and result.",
}, []string{"op", "result"})

var LedgerMutationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "mutation_duration_seconds",
	Help:      "Time spent in a ledger mutation including re-allocation.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

var LedgerInvariantViolations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "invariant_violations_total",
	Help:      "Allocations rejected by reconciliation.",
})

var InvoicesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "invoice",
	Name:      "generated_total",
	Help:      "Invoice generation attempts by result.",
}, []string{"result"})

var ImportedRows = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "importer",
	Name:      "rows_parsed_total",
	Help:      "Timesheet rows parsed into expenditures.",
})

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// ObserveMutation records one finished ledger mutation.
func ObserveMutation(op, result string, start time.Time) {
	LedgerMutations.WithLabelValues(op, result).Inc()
	LedgerMutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode the label space.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
