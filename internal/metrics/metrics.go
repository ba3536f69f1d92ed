package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mappingRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keymap_mapping_runs_total",
		Help: "Mapping passes by outcome (ok, bad_input, parse_error).",
	}, []string{"outcome"})

	recordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keymap_records_processed_total",
		Help: "Description records pushed through the mapping engine.",
	})

	parseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keymap_parse_failures_total",
		Help: "Upload parse failures by file role (description, keyword, preview).",
	}, []string{"role"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keymap_upload_cache_lookups_total",
		Help: "Parsed-upload cache lookups by result (hit, miss).",
	}, []string{"result"})

	mappingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "keymap_mapping_duration_seconds",
		Help:    "Wall time of a full mapping pass.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
)

func RecordRun(outcome string) { mappingRuns.WithLabelValues(outcome).Inc() }

func RecordRecords(n int) { recordsProcessed.Add(float64(n)) }

func RecordParseFailure(role string) { parseFailures.WithLabelValues(role).Inc() }

func RecordCacheLookup(result string) { cacheLookups.WithLabelValues(result).Inc() }

func ObserveMapping(seconds float64) { mappingDuration.Observe(seconds) }
