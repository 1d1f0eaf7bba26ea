package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesAddedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "registry_entries_added_total",
			Help:      "Total phone entries added to registries.",
		},
		[]string{"source"}, // e.g., "free_text", "paste", "external", "import", "prefill"
	)

	duplicatesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "registry_duplicates_total",
			Help:      "Total numbers reported as already present.",
		},
		[]string{"source"},
	)

	rejectedTokensCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "registry_rejected_tokens_total",
			Help:      "Total input tokens that failed the phone shape filter.",
		},
		[]string{"source"},
	)

	skippedRecordsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "registry_skipped_records_total",
			Help:      "Total external records skipped as duplicate or malformed.",
		},
		[]string{"source"},
	)

	dedupeRemovedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipient_intake",
			Name:      "registry_dedupe_removed_total",
			Help:      "Total entries removed by dedupe sweeps.",
		},
	)
)
