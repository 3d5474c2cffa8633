// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_runs_total",
			Help: "Total number of matching runs by outcome",
		},
		[]string{"status"},
	)

	MatchCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_candidates_total",
			Help: "Total number of match candidates produced by recommendation tier",
		},
		[]string{"tier"},
	)

	LinksApproved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "links_approved_total",
			Help: "Total number of approved links persisted",
		},
		[]string{"mode"}, // bulk or manual
	)

	DirectoryFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "directory_fetch_duration_seconds",
			Help: "Duration of full directory fetches in seconds",
		},
		[]string{"cache"}, // hit or miss
	)
)
