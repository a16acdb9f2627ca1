// Package metrics exposes prometheus instrumentation for the job
// lifecycle. Collectors register themselves on the default registry;
// the server mounts the exposition handler at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsSubmitted counts accepted transcription requests.
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcription_jobs_submitted_total",
		Help: "Number of transcription jobs accepted.",
	})

	// JobTransitions counts lifecycle transitions by target status.
	JobTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcription_job_transitions_total",
		Help: "Number of job status transitions by target status.",
	}, []string{"to"})

	// InvalidTransitions counts rejected transition attempts.
	InvalidTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcription_job_invalid_transitions_total",
		Help: "Number of transition attempts rejected by the lifecycle guard.",
	})

	// TranscribeDuration observes wall time of the full transcription
	// pipeline (download + speech-to-text).
	TranscribeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcription_pipeline_duration_seconds",
		Help:    "Duration of the download and transcription pipeline.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
