package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpiredTotal,
		reconcileAttemptsTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions demoted by the expiry sweep.",
		},
	)

	reconcileAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_reconcile_attempts_total",
			Help: "Stale references re-verified by the reconciler, by outcome.",
		},
		[]string{"outcome"},
	)
)

func IncSubscriptionsExpired(n int) {
	subscriptionsExpiredTotal.Add(float64(n))
}

func IncReconcileAttempt(outcome string) {
	reconcileAttemptsTotal.WithLabelValues(norm(outcome)).Inc()
}
