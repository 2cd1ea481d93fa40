// Package metrics — Prometheus metrics for the Pentagram cognitive core.
//
// Endpoint: GET /metrics on the configured bind address.
// Format: Prometheus text exposition format (OpenMetrics compatible).
//
// Metric naming convention: pentagram_<subsystem>_<name>_<unit>
//
// All metrics are registered on a dedicated prometheus.Registry (not the
// default global registry) to avoid collisions with other instrumented
// libraries in the same process.
//
// Cardinality control:
//   - vertex and dimension labels are drawn from closed enumerations
//     (5 vertices, a fixed set of tension dimensions).
//   - no per-experience or per-user label is ever attached to a metric.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// Sink receives cycle-level telemetry. Implementations must be safe for
// concurrent use.
type Sink interface {
	ObserveCycle(result pentagram.PentagramResult)
	ObserveDevelopmentLevel(level float64)
	ObserveDrift(report pentagram.DriftReport)
	ObserveIdentityChange(result pentagram.ValidationResult)
}

// Metrics holds all Prometheus metric descriptors for the Pentagram core and
// implements Sink.
type Metrics struct {
	registry *prometheus.Registry

	// ─── Cycles ───────────────────────────────────────────────────────────────

	// CyclesTotal counts completed Pentagram cycles. Labels: status (success, partial, error).
	CyclesTotal *prometheus.CounterVec

	// CycleDuration records total cycle wall-clock duration in seconds.
	CycleDuration prometheus.Histogram

	// ─── Vertices ─────────────────────────────────────────────────────────────

	// VertexVotesTotal counts votes produced per vertex. Labels: vertex, status.
	VertexVotesTotal *prometheus.CounterVec

	// VertexScore records the distribution of vote scores. Labels: vertex.
	VertexScore *prometheus.HistogramVec

	// ─── Tensions ─────────────────────────────────────────────────────────────

	// TensionsTotal counts detected tensions. Labels: dimension.
	TensionsTotal *prometheus.CounterVec

	// TensionMagnitude records the distribution of tension magnitudes.
	TensionMagnitude prometheus.Histogram

	// ─── Development ──────────────────────────────────────────────────────────

	// DevelopmentLevel records the bounded development level over time.
	DevelopmentLevel prometheus.Histogram

	// ─── Identity ─────────────────────────────────────────────────────────────

	// DriftDeviationScore is the most recently computed drift deviation score.
	DriftDeviationScore prometheus.Gauge

	// IdentityChangesTotal counts identity change decisions. Labels: status.
	IdentityChangesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Pentagram Prometheus metrics on a
// dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pentagram",
			Subsystem: "cycles",
			Name:      "total",
			Help:      "Total Pentagram cycles processed, by outcome status.",
		}, []string{"status"}),

		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pentagram",
			Subsystem: "cycles",
			Name:      "duration_seconds",
			Help:      "Total wall-clock duration of one Pentagram cycle.",
			Buckets:   prometheus.DefBuckets,
		}),

		VertexVotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pentagram",
			Subsystem: "vertex",
			Name:      "votes_total",
			Help:      "Total votes produced, by vertex and outcome status.",
		}, []string{"vertex", "status"}),

		VertexScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pentagram",
			Subsystem: "vertex",
			Name:      "score",
			Help:      "Distribution of vote scores, by vertex.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}, []string{"vertex"}),

		TensionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pentagram",
			Subsystem: "tension",
			Name:      "total",
			Help:      "Total tensions detected, by dimension.",
		}, []string{"dimension"}),

		TensionMagnitude: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pentagram",
			Subsystem: "tension",
			Name:      "magnitude",
			Help:      "Distribution of tension magnitudes.",
			Buckets:   []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}),

		DevelopmentLevel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pentagram",
			Subsystem: "development",
			Name:      "level",
			Help:      "Distribution of the bounded development level over time.",
			Buckets:   []float64{0.05, 0.06, 0.08, 0.10, 0.12, 0.13, 0.14, 0.15},
		}),

		DriftDeviationScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pentagram",
			Subsystem: "identity",
			Name:      "drift_deviation_score",
			Help:      "Most recently computed identity drift deviation score.",
		}),

		IdentityChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pentagram",
			Subsystem: "identity",
			Name:      "changes_total",
			Help:      "Total proposed identity changes, by validation status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.VertexVotesTotal,
		m.VertexScore,
		m.TensionsTotal,
		m.TensionMagnitude,
		m.DevelopmentLevel,
		m.DriftDeviationScore,
		m.IdentityChangesTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCycle records every metric derivable from one completed cycle, in
// the order: cycle outcome, cycle duration, per-vertex vote outcome/score,
// per-tension dimension/magnitude.
//
// Cycle status is bucketed success (a synthesis was produced and at least
// four of the five vertices voted successfully), partial (some votes
// succeeded), or error (none did).
func (m *Metrics) ObserveCycle(result pentagram.PentagramResult) {
	successfulVotes := result.SuccessfulVotes()
	status := "error"
	switch {
	case result.HasSynthesis() && successfulVotes >= 4:
		status = "success"
	case successfulVotes > 0:
		status = "partial"
	}
	m.CyclesTotal.WithLabelValues(status).Inc()
	m.CycleDuration.Observe(result.TotalDuration())

	for name, vote := range result.Votes {
		voteStatus := "ok"
		if vote.IsError() {
			voteStatus = "error"
		} else {
			m.VertexScore.WithLabelValues(string(name)).Observe(vote.Score)
		}
		m.VertexVotesTotal.WithLabelValues(string(name), voteStatus).Inc()
	}

	for _, t := range result.Tensions {
		m.TensionsTotal.WithLabelValues(t.Dimension).Inc()
		m.TensionMagnitude.Observe(t.Magnitude)
	}
}

// ObserveDevelopmentLevel records one development-level reading.
func (m *Metrics) ObserveDevelopmentLevel(level float64) {
	m.DevelopmentLevel.Observe(level)
}

// ObserveDrift records the most recent drift deviation score.
func (m *Metrics) ObserveDrift(report pentagram.DriftReport) {
	m.DriftDeviationScore.Set(report.DeviationScore)
}

// ObserveIdentityChange records one identity change validation outcome.
func (m *Metrics) ObserveIdentityChange(result pentagram.ValidationResult) {
	m.IdentityChangesTotal.WithLabelValues(string(result.Status)).Inc()
}

// ServeMetrics starts the Prometheus HTTP metrics server on addr. Blocks
// until ctx is cancelled or the server fails.
func (m *Metrics) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}

// NoopSink discards every observation. Used in tests and in any codepath
// that runs without a configured metrics registry.
type NoopSink struct{}

func (NoopSink) ObserveCycle(pentagram.PentagramResult)           {}
func (NoopSink) ObserveDevelopmentLevel(float64)                  {}
func (NoopSink) ObserveDrift(pentagram.DriftReport)               {}
func (NoopSink) ObserveIdentityChange(pentagram.ValidationResult) {}
