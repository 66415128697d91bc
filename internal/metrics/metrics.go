package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "tokens_issued_total",
		Help:      "Session tokens minted (login and refresh).",
	})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the login rate limiter.",
	})

	// Domain metrics

	InvoicesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "invoices_created_total",
		Help:      "Invoices submitted by businesses.",
	})

	InvoicesMarkedOverdue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "invoices_marked_overdue_total",
		Help:      "Invoices flipped to overdue by the sweep.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "invoicefin",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicefin",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginsTotal,
		TokensIssuedTotal,
		RateLimitedTotal,
		InvoicesCreatedTotal,
		InvoicesMarkedOverdue,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// Handler is mounted by the metrics server alongside the health endpoints.
func Handler() http.Handler {
	return promhttp.Handler()
}
