// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors for a livesort run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_runs_total",
		Help: "Pipeline runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	runFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_run_failures_total",
		Help: "Fatal run failures by stage",
	}, []string{"stage"}) // stage=preflight|fetch|parse|validate|emit

	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "livesort_run_duration_seconds",
		Help:    "Wall time of a complete pipeline run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	})

	stageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "livesort_stage_duration_seconds",
		Help:    "Wall time per pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	lastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livesort_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})

	directoryLines = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "livesort_directory_lines",
		Help: "Parsed directory lines by kind (last run)",
	}, []string{"kind"}) // kind=header|channel|malformed|skipped

	groupsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "livesort_groups",
		Help: "Groups by liveness state (last run)",
	}, []string{"state"}) // state=parsed|live|dead

	channelsEmitted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livesort_channels_emitted",
		Help: "Channels written after dedupe (last run)",
	})

	duplicatesDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livesort_duplicates_dropped",
		Help: "Channel records dropped as duplicates (last run)",
	})

	categoryChannels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "livesort_category_channels",
		Help: "Channels per category (last run)",
	}, []string{"category"})

	normalizeMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_normalize_matches_total",
		Help: "Name normalizations by match kind",
	}, []string{"kind"}) // kind=exact|fuzzy|none

	categorizeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_categorize_total",
		Help: "Categorizations by decision path",
	}, []string{"via"}) // via=table|keyword|fallback

	outputWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_output_write_errors_total",
		Help: "Output file write failures",
	}, []string{"file"})
)

func IncRunFailure(stage string) {
	runsTotal.WithLabelValues("failure").Inc()
	runFailuresTotal.WithLabelValues(stage).Inc()
}

func AddNormalizeMatches(kind string, n int) { normalizeMatchesTotal.WithLabelValues(kind).Add(float64(n)) }
func AddCategorized(via string, n int)       { categorizeTotal.WithLabelValues(via).Add(float64(n)) }
func IncOutputWriteError(file string)        { outputWriteErrors.WithLabelValues(file).Inc() }

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, d time.Duration) {
	stageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRunSuccess marks a completed run.
func RecordRunSuccess(d time.Duration, at time.Time) {
	runsTotal.WithLabelValues("success").Inc()
	runDurationSeconds.Observe(d.Seconds())
	lastSuccessTimestamp.Set(float64(at.Unix()))
}

func RecordDirectory(headers, channels, malformed, skipped int) {
	directoryLines.WithLabelValues("header").Set(float64(headers))
	directoryLines.WithLabelValues("channel").Set(float64(channels))
	directoryLines.WithLabelValues("malformed").Set(float64(malformed))
	directoryLines.WithLabelValues("skipped").Set(float64(skipped))
}

func RecordGroups(parsed, live int) {
	groupsTotal.WithLabelValues("parsed").Set(float64(parsed))
	groupsTotal.WithLabelValues("live").Set(float64(live))
	groupsTotal.WithLabelValues("dead").Set(float64(parsed - live))
}

func RecordChannels(emitted, duplicates int) {
	channelsEmitted.Set(float64(emitted))
	duplicatesDropped.Set(float64(duplicates))
}

// RecordCategories replaces the per-category gauge with the latest counts.
func RecordCategories(counts map[string]int) {
	categoryChannels.Reset()
	for name, n := range counts {
		categoryChannels.WithLabelValues(name).Set(float64(n))
	}
}
