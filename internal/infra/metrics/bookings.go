package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(bookingsTotal)
}

var bookingsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "class_bookings_total",
		Help: "Lessons booked (credit consumed, meeting created).",
	},
)

func IncBooking() {
	bookingsTotal.Inc()
}
