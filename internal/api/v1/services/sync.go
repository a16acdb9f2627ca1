package services

import (
	"context"
	"log/slog"
	"time"

	"youtube-transcriber/internal/api/errors"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/app/transcriber"
)

// SyncTranscriptionService runs the full pipeline inside the request:
// submit, download, transcribe, persist, and return the finished
// transcript. The job record still walks the normal lifecycle so the
// read endpoints stay consistent between the two variants.
type SyncTranscriptionService interface {
	Transcribe(ctx context.Context, url string) (*dto.TranscriptResponse, error)
}

// SyncTranscriptionServiceImpl implements SyncTranscriptionService.
type SyncTranscriptionServiceImpl struct {
	jobs        JobService
	transcripts TranscriptService
	engine      transcriber.Transcriber
	timeout     time.Duration
	logger      *slog.Logger
}

// NewSyncTranscriptionService creates the synchronous-variant service.
func NewSyncTranscriptionService(
	jobs JobService,
	transcripts TranscriptService,
	engine transcriber.Transcriber,
	timeout time.Duration,
	logger *slog.Logger,
) *SyncTranscriptionServiceImpl {
	return &SyncTranscriptionServiceImpl{
		jobs:        jobs,
		transcripts: transcripts,
		engine:      engine,
		timeout:     timeout,
		logger:      logger,
	}
}

func (s *SyncTranscriptionServiceImpl) Transcribe(ctx context.Context, url string) (*dto.TranscriptResponse, error) {
	submitted, err := s.jobs.Submit(ctx, url)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.engine.Transcribe(runCtx, url)
	if err != nil {
		s.logger.Error("Synchronous transcription failed",
			"job_id", submitted.JobID,
			"url", url,
			"error", err,
		)
		if _, failErr := s.jobs.Fail(ctx, submitted.JobID, err.Error()); failErr != nil {
			s.logger.Error("Failed to record job failure",
				"job_id", submitted.JobID,
				"error", failErr,
			)
		}
		return nil, errors.WrapError(err, errors.KindInternal, "Transcription failed: "+err.Error())
	}

	completed, err := s.jobs.Complete(ctx, submitted.JobID, &dto.CompleteJobRequest{
		Title:      result.Title,
		Duration:   result.Duration,
		Content:    result.Content,
		Timestamps: dto.SegmentsToWire(result.Segments),
	})
	if err != nil {
		return nil, err
	}

	return s.transcripts.GetTranscript(ctx, completed.TranscriptID)
}
