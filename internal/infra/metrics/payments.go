package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		paymentsDuplicateTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Processed payment events by type and status.",
		},
		[]string{"type", "status"},
	)

	paymentsRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of successful payments, in the minor currency unit.",
		},
	)

	paymentsDuplicateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_duplicate_total",
			Help: "Payment events skipped because their reference was already processed.",
		},
	)
)

func IncPayment(typ, status string) {
	paymentsTotal.WithLabelValues(norm(typ), norm(status)).Inc()
}

func AddPaymentRevenue(amount int64) {
	paymentsRevenueTotal.Add(float64(amount))
}

func IncPaymentDuplicate() {
	paymentsDuplicateTotal.Inc()
}
