package worker

import (
	"context"
	"log/slog"
	"time"

	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/api/v1/services"
	"youtube-transcriber/internal/app/transcriber"
)

// Config controls the polling worker.
type Config struct {
	// PollInterval is how long the worker sleeps after draining the
	// queue before looking for new pending jobs.
	PollInterval time.Duration

	// JobTimeout bounds a single download-and-transcribe run. Zero
	// means no limit.
	JobTimeout time.Duration
}

// Worker drains the pending queue in the background. Each cycle claims
// the oldest pending job, runs the pipeline, and records the outcome as
// a completion or a failure.
type Worker struct {
	jobs   services.JobService
	engine transcriber.Transcriber
	config Config
	logger *slog.Logger
}

// New creates a worker over the given job service and pipeline.
func New(jobs services.JobService, engine transcriber.Transcriber, config Config, logger *slog.Logger) *Worker {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	return &Worker{
		jobs:   jobs,
		engine: engine,
		config: config,
		logger: logger,
	}
}

// Run polls until ctx is cancelled. The job in flight when cancellation
// arrives is finished (or failed) before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Worker started",
		"poll_interval", w.config.PollInterval,
		"job_timeout", w.config.JobTimeout,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("Worker stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain claims and processes pending jobs until the queue is empty or
// ctx is cancelled.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		job, err := w.jobs.ClaimNextPending(ctx)
		if err != nil {
			w.logger.Error("Failed to claim pending job", "error", err)
			return
		}
		if job == nil {
			return
		}
		w.process(ctx, job.ID, job.YoutubeURL)
	}
}

func (w *Worker) process(ctx context.Context, jobID, url string) {
	w.logger.Info("Processing job", "job_id", jobID, "url", url)

	runCtx := ctx
	if w.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.config.JobTimeout)
		defer cancel()
	}

	result, err := w.engine.Transcribe(runCtx, url)
	if err != nil {
		w.logger.Error("Transcription failed", "job_id", jobID, "error", err)
		// Record the failure even when ctx is already cancelled.
		if _, failErr := w.jobs.Fail(context.WithoutCancel(ctx), jobID, err.Error()); failErr != nil {
			w.logger.Error("Failed to record job failure", "job_id", jobID, "error", failErr)
		}
		return
	}

	_, err = w.jobs.Complete(context.WithoutCancel(ctx), jobID, &dto.CompleteJobRequest{
		Title:      result.Title,
		Duration:   result.Duration,
		Content:    result.Content,
		Timestamps: dto.SegmentsToWire(result.Segments),
	})
	if err != nil {
		w.logger.Error("Failed to record completion", "job_id", jobID, "error", err)
		return
	}

	w.logger.Info("Job completed", "job_id", jobID, "title", result.Title)
}
