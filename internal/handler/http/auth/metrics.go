package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Token requests by role and result",
		},
		[]string{"role", "result"},
	)

	// Dominated by bcrypt.
	tokenRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token request duration by role",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"role"},
	)

	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_check_duration_seconds",
			Help:    "Bearer token verification and permission check duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Requests refused by role permissions, by role and method",
		},
		[]string{"role", "method"},
	)

	accountEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_events_total",
			Help: "Registrations and password reset steps by result",
		},
		[]string{"event", "result"}, // event: register | reset_request | reset_confirm
	)
)

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordTokenRequest records the outcome and latency of POST /auth/token.
// role is "unknown" when the credentials did not resolve to a user.
func RecordTokenRequest(role string, ok bool, elapsed time.Duration) {
	tokenRequestsTotal.WithLabelValues(role, result(ok)).Inc()
	tokenRequestDuration.WithLabelValues(role).Observe(elapsed.Seconds())
}

func RecordAuthzCheck(elapsed time.Duration) {
	authzCheckDuration.Observe(elapsed.Seconds())
}

func RecordForbiddenAttempt(role, method string) {
	forbiddenAttempts.WithLabelValues(role, method).Inc()
}

// RecordAccountEvent records a registration or password reset step.
func RecordAccountEvent(event string, ok bool) {
	accountEventsTotal.WithLabelValues(event, result(ok)).Inc()
}
