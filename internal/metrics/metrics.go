package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifications_total",
			Help: "Webhook notifications by processing outcome",
		},
		[]string{"outcome"},
	)

	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_seconds",
			Help:    "Time taken to process a webhook notification",
			Buckets: prometheus.DefBuckets,
		},
	)

	TicketsEmailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_emailed_total",
			Help: "Confirmation emails successfully dispatched",
		},
	)

	PaymentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "Payments created through the payment gateway",
		},
	)
)

// Значения метки outcome
const (
	OutcomeProcessed   = "processed"
	OutcomeIgnored     = "ignored"
	OutcomeDuplicate   = "duplicate"
	OutcomeInvalid     = "invalid"
	OutcomeRenderErr   = "render_error"
	OutcomeDeliveryErr = "delivery_error"
)
