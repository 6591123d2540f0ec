package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		downloadTokensIssued,
		downloadRedemptions,
		entitlementConsumes,
	)
}

var (
	downloadTokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "download_tokens_issued_total",
			Help: "Download tokens issued.",
		},
	)

	downloadRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "download_redemptions_total",
			Help: "Token redemption attempts by outcome (ok/not_found/expired/exhausted/bad_index).",
		},
		[]string{"outcome"},
	)

	entitlementConsumes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_consumes_total",
			Help: "Entitlement consume attempts by outcome (ok/purchase_required/exhausted/expired).",
		},
		[]string{"outcome"},
	)
)

func IncTokenIssued() {
	downloadTokensIssued.Inc()
}

func IncRedemption(outcome string) {
	downloadRedemptions.WithLabelValues(norm(outcome)).Inc()
}

func IncEntitlementConsume(outcome string) {
	entitlementConsumes.WithLabelValues(norm(outcome)).Inc()
}
