package services

import "github.com/prometheus/client_golang/prometheus"

var (
	webhookNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_webhook_notifications_total",
			Help: "Verified gateway notifications by outcome.",
		},
		[]string{"outcome"},
	)
	entitlementsGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_entitlements_granted_total",
			Help: "Entitlements created (repeat grants are not counted).",
		},
	)
	shipmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_shipments_created_total",
			Help: "Shipments created by the splitter.",
		},
	)
)

func init() {
	prometheus.MustRegister(webhookNotifications, entitlementsGranted, shipmentsCreated)
}
