// Package observability exposes the engine's Prometheus metrics. The API
// server serves them on /metrics; the CLI registers them too so a daemonized
// run and a one-shot run count the same way.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine Metrics ─────────────────────────────────────────────────────────

// AuditRuns counts completed engine runs by outcome.
var AuditRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contaudit",
	Subsystem: "engine",
	Name:      "runs_total",
	Help:      "Total audit runs, labeled by outcome (ok, partial, failed).",
}, []string{"outcome"})

// AuditFindings counts emitted findings by severity.
var AuditFindings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contaudit",
	Subsystem: "engine",
	Name:      "findings_total",
	Help:      "Total findings emitted, labeled by severity.",
}, []string{"severity"})

// AuditDuration observes wall-clock run duration.
var AuditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "contaudit",
	Subsystem: "engine",
	Name:      "run_duration_seconds",
	Help:      "Wall-clock duration of audit runs.",
	Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
})

// ValidatorFailures counts validator execution failures by module.
var ValidatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contaudit",
	Subsystem: "engine",
	Name:      "validator_failures_total",
	Help:      "Total validator execution failures, labeled by module.",
}, []string{"module"})

// ─── Recording Helpers ──────────────────────────────────────────────────────

// ObserveRun records one completed run: outcome, duration, and the severity
// breakdown of its findings.
func ObserveRun(outcome string, duration time.Duration, bySeverity map[string]int) {
	AuditRuns.WithLabelValues(outcome).Inc()
	AuditDuration.Observe(duration.Seconds())
	for severity, n := range bySeverity {
		AuditFindings.WithLabelValues(severity).Add(float64(n))
	}
}
