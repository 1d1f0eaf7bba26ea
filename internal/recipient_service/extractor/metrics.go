package extractor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importFilesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "import_files_total",
			Help:      "Total structured import files processed.",
		},
		[]string{"kind", "outcome"}, // outcome: "accepted", "structural_error", "unreadable"
	)

	importRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "import_rows_total",
			Help:      "Total data rows seen by structured imports.",
		},
		[]string{"kind", "outcome"}, // outcome: "accepted", "rejected"
	)
)
