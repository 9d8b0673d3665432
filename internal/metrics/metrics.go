package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_verdicts_total",
			Help: "Total number of verdicts produced",
		},
		[]string{"language", "mode", "verdict"}, // mode: "single", "failfast", "batch"
	)

	ExecDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judge_exec_duration_ms",
			Help:    "Duration of a single exec inside a sandbox in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"language", "phase"}, // phase: "compile", "run"
	)

	SandboxProvisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judge_sandbox_provision_ms",
			Help:    "Time to create and start a sandbox, compile step included",
			Buckets: []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000},
		},
		[]string{"language"},
	)

	SandboxCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "judge_sandbox_cleanup_failures_total",
			Help: "Total number of sandbox teardown steps that failed",
		},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "judge_jobs_in_flight",
			Help: "Number of submissions currently being judged",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "judge_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiter",
		},
	)
)
