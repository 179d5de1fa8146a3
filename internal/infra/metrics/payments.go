package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutsTotal,
		reconcilesTotal,
		grantsTotal,
		paymentsRevenueTotal,
	)
}

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_checkouts_total",
			Help: "Checkout sessions opened, labeled by provider.",
		},
		[]string{"provider"},
	)

	reconcilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_reconciles_total",
			Help: "Reconciliation attempts by normalized status (approved/rejected/pending).",
		},
		[]string{"status"},
	)

	grantsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_grants_total",
			Help: "First-time entitlement grants (duplicate approvals excluded).",
		},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of granted payments, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncCheckout(provider string) {
	checkoutsTotal.WithLabelValues(norm(provider)).Inc()
}

func IncReconcile(status string) {
	reconcilesTotal.WithLabelValues(norm(status)).Inc()
}

func IncGrant() {
	grantsTotal.Inc()
}

func AddPaymentRevenue(currency string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}
