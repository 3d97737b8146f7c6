package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "classroom"

var (
	// Auth metrics

	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	TokenVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Token verifications, by outcome (ok, expired, invalid, unknown).",
	}, []string{"outcome"})

	// Domain metrics

	UsersRegisteredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Users created, by role.",
	}, []string{"role"})

	UsersByRole = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users",
		Help:      "Registered users, by role. Refreshed by the stats collector.",
	}, []string{"role"})

	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Requests rejected with field errors, by operation.",
	}, []string{"operation"})

	UnexpectedErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unexpected_errors_total",
		Help:      "Unexpected errors published on the error bus, by source.",
	}, []string{"source"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginAttemptsTotal,
		TokenVerificationsTotal,
		UsersRegisteredTotal,
		UsersByRole,
		ValidationFailuresTotal,
		UnexpectedErrorsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus any extra routes (health probes).
func NewServer(addr string, extra map[string]http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	for path, h := range extra {
		mux.Handle(path, h)
	}
	return &http.Server{Addr: addr, Handler: mux}
}
