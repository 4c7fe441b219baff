package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_checkouts_started_total",
		Help: "The total number of checkout sessions started",
	})
	bookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_bookings_confirmed_total",
		Help: "The total number of bookings confirmed",
	})
	paymentsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_payments_declined_total",
		Help: "The total number of payments declined by the gateway",
	})
	paymentValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_payment_validation_errors_total",
		Help: "The total number of payment submissions rejected before processing",
	})
	paymentTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_payment_timeouts_total",
		Help: "The total number of payment attempts that exceeded the timeout",
	})
)
