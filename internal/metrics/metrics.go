package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
)

// Metrics holds the security counters exposed on /metrics.
type Metrics struct {
	LoginAttempts *prometheus.CounterVec
	Lockouts      prometheus.Counter
	RateLimited   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clinic",
				Subsystem: "auth",
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		Lockouts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "clinic",
				Subsystem: "auth",
				Name:      "account_lockouts_total",
				Help:      "Total number of accounts transitioned to locked",
			},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "clinic",
				Subsystem: "http",
				Name:      "rate_limited_requests_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
	}
}
