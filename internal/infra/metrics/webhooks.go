package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhooksTotal,
		webhookDegradedTotal,
	)
}

var (
	webhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhooks_total",
			Help: "Webhook deliveries by outcome (accepted/invalid_signature/malformed/config_error).",
		},
		[]string{"outcome"},
	)

	webhookDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_degraded_total",
			Help: "Webhook deliveries processed synchronously because the worker queue was saturated.",
		},
	)
)

func IncWebhook(outcome string) {
	webhooksTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncWebhookDegraded() {
	webhookDegradedTotal.Inc()
}
