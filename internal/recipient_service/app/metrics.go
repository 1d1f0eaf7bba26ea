package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sendRequestsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "send_requests_total",
			Help:      "Total number of send requests handed to a dispatcher.",
		},
		[]string{"status"}, // e.g., "success", "insufficient_balance", "no_recipients", "dispatch_error"
	)

	sentSegmentsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "sent_segments_total",
			Help:      "Total number of segments accepted by dispatchers.",
		},
	)

	exportJobsProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "export_jobs_processed_total",
			Help:      "Total number of export jobs processed.",
		},
		[]string{"export_type", "status"}, // e.g., export_type="entries_csv", status="success"
	)

	exportedRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "rows_exported_total",
			Help:      "Total number of rows exported.",
		},
		[]string{"export_type"},
	)
)
