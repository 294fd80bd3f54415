// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	registerOnce sync.Once

	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reading_report",
		Name:      "cover_lookups_total",
		Help:      "Total number of external cover lookups by source and outcome",
	}, []string{"source", "outcome"})
	lookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reading_report",
		Name:      "cover_lookup_duration_seconds",
		Help:      "Histogram of external cover lookup durations in seconds by source",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several seconds
	}, []string{"source"})
	coversResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reading_report",
		Name:      "covers_resolved_total",
		Help:      "Total number of books whose cover was resolved, by winning source",
	}, []string{"source"})
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_report",
		Name:      "cover_cache_hits_total",
		Help:      "Total number of cover resolutions served from the run cache",
	})
	renderSubstitutions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_report",
		Name:      "render_substitutions_total",
		Help:      "Total number of thumbnails replaced by a placeholder at render time",
	})

	booksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reading_report",
		Name:      "books_total",
		Help:      "Number of books in the last loaded export",
	})
	missingCoversGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reading_report",
		Name:      "missing_covers",
		Help:      "Number of books without real cover art in the last run",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(lookupsTotal, lookupDuration, coversResolved, cacheHits,
			renderSubstitutions, booksGauge, missingCoversGauge)
	})
}

// Lookup helpers
func IncLookup(source, outcome string) { lookupsTotal.WithLabelValues(source, outcome).Inc() }
func ObserveLookupDuration(source string, d time.Duration) {
	lookupDuration.WithLabelValues(source).Observe(d.Seconds())
}
func IncResolved(source string) { coversResolved.WithLabelValues(source).Inc() }
func IncCacheHit()              { cacheHits.Inc() }
func IncRenderSubstitution()    { renderSubstitutions.Inc() }

// Gauges
func SetBooks(n int)         { booksGauge.Set(float64(n)) }
func SetMissingCovers(n int) { missingCoversGauge.Set(float64(n)) }

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return os.Chmod(path, 0644)
}
