package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"youtube-transcriber/internal/api/errors"
	"youtube-transcriber/internal/api/middleware"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/app/metrics"
	"youtube-transcriber/internal/app/model"
	"youtube-transcriber/internal/app/repository"
)

// claimRetries bounds how often ClaimNextPending retries after losing
// a claim race to another worker.
const claimRetries = 3

// JobService owns the job lifecycle state machine. Every transition is
// a conditional write: the store only flips the status when the job is
// still in a legal source state, so two concurrent attempts on the same
// job cannot both succeed.
type JobService interface {
	Submit(ctx context.Context, url string) (*dto.JobResponse, error)
	MarkProcessing(ctx context.Context, jobID string) (*dto.StatusResponse, error)
	Complete(ctx context.Context, jobID string, req *dto.CompleteJobRequest) (*dto.CompleteJobResponse, error)
	Fail(ctx context.Context, jobID string, message string) (*dto.StatusResponse, error)
	GetStatus(ctx context.Context, jobID string) (*dto.JobResponse, error)
	NextPending(ctx context.Context) ([]dto.PendingJobResponse, error)

	// ClaimNextPending dequeues the oldest pending job by flipping it to
	// processing, retrying when another worker wins the race. Returns
	// nil when no job is pending.
	ClaimNextPending(ctx context.Context) (*model.Job, error)
}

// JobServiceImpl implements JobService over an injected store handle.
type JobServiceImpl struct {
	repo repository.JobDAO
}

// NewJobService creates a new job lifecycle service.
func NewJobService(repo repository.JobDAO) *JobServiceImpl {
	return &JobServiceImpl{repo: repo}
}

// Submit validates the URL and creates a new pending job.
func (s *JobServiceImpl) Submit(ctx context.Context, url string) (*dto.JobResponse, error) {
	if !middleware.IsYouTubeURL(url) {
		return nil, errors.NewValidationError("Validation failed",
			map[string]string{"url": "must be a valid YouTube URL"})
	}

	job := &model.Job{
		ID:         uuid.New().String(),
		YoutubeURL: url,
		Status:     model.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.InsertJob(ctx, job); err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to create job")
	}

	metrics.JobsSubmitted.Inc()

	return &dto.JobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt,
	}, nil
}

// MarkProcessing moves a pending job to processing.
func (s *JobServiceImpl) MarkProcessing(ctx context.Context, jobID string) (*dto.StatusResponse, error) {
	updated, err := s.repo.UpdateJobStatus(ctx, jobID,
		model.TransitionSources(model.StatusProcessing), model.StatusProcessing,
		"", time.Now().UTC())
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to update job")
	}
	if !updated {
		return nil, s.guardFailure(ctx, jobID, "mark job as processing")
	}

	metrics.JobTransitions.WithLabelValues(string(model.StatusProcessing)).Inc()
	return &dto.StatusResponse{Status: string(model.StatusProcessing)}, nil
}

// Complete moves a pending or processing job to completed and creates
// its transcript in the same transaction.
func (s *JobServiceImpl) Complete(ctx context.Context, jobID string, req *dto.CompleteJobRequest) (*dto.CompleteJobResponse, error) {
	transcript := &model.Transcript{
		ID:         uuid.New().String(),
		JobID:      jobID,
		Title:      req.Title,
		Duration:   req.Duration,
		Content:    req.Content,
		Timestamps: dto.SegmentsFromWire(req.Timestamps),
		CreatedAt:  time.Now().UTC(),
	}
	if transcript.Timestamps == nil {
		transcript.Timestamps = []model.Segment{}
	}

	completed, err := s.repo.CompleteJob(ctx, jobID,
		model.TransitionSources(model.StatusCompleted), transcript, time.Now().UTC())
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to complete job")
	}
	if !completed {
		return nil, s.guardFailure(ctx, jobID, "complete job")
	}

	metrics.JobTransitions.WithLabelValues(string(model.StatusCompleted)).Inc()
	return &dto.CompleteJobResponse{
		Status:       string(model.StatusCompleted),
		TranscriptID: transcript.ID,
	}, nil
}

// Fail moves a pending or processing job to failed, recording the
// message verbatim.
func (s *JobServiceImpl) Fail(ctx context.Context, jobID string, message string) (*dto.StatusResponse, error) {
	updated, err := s.repo.UpdateJobStatus(ctx, jobID,
		model.TransitionSources(model.StatusFailed), model.StatusFailed,
		message, time.Now().UTC())
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to update job")
	}
	if !updated {
		return nil, s.guardFailure(ctx, jobID, "fail job")
	}

	metrics.JobTransitions.WithLabelValues(string(model.StatusFailed)).Inc()
	return &dto.StatusResponse{Status: string(model.StatusFailed)}, nil
}

// GetStatus returns the job's current state, with the transcript id
// when completed and the error message when failed.
func (s *JobServiceImpl) GetStatus(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to load job")
	}
	if job == nil {
		return nil, errors.NewNotFoundError("Job")
	}

	resp := &dto.JobResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		ErrorMessage: job.ErrorMessage,
	}

	if job.Status == model.StatusCompleted {
		transcriptID, err := s.repo.TranscriptIDByJob(ctx, job.ID)
		if err != nil {
			return nil, errors.WrapError(err, errors.KindInternal, "Failed to load transcript")
		}
		resp.TranscriptID = transcriptID
	}

	return resp, nil
}

// NextPending returns at most one job: the oldest pending one. It does
// not reserve the job; callers racing each other are stopped by the
// transition guards, not here.
func (s *JobServiceImpl) NextPending(ctx context.Context) ([]dto.PendingJobResponse, error) {
	job, err := s.repo.OldestPendingJob(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to query pending jobs")
	}
	if job == nil {
		return []dto.PendingJobResponse{}, nil
	}

	return []dto.PendingJobResponse{{
		JobID:      job.ID,
		YoutubeURL: job.YoutubeURL,
		CreatedAt:  job.CreatedAt,
	}}, nil
}

// ClaimNextPending implements the worker's dequeue. The pending read
// and the processing flip are separate statements, so losing the flip
// means another worker claimed the job first; retry on the next oldest.
func (s *JobServiceImpl) ClaimNextPending(ctx context.Context) (*model.Job, error) {
	for attempt := 0; attempt <= claimRetries; attempt++ {
		job, err := s.repo.OldestPendingJob(ctx)
		if err != nil {
			return nil, errors.WrapError(err, errors.KindInternal, "Failed to query pending jobs")
		}
		if job == nil {
			return nil, nil
		}

		now := time.Now().UTC()
		claimed, err := s.repo.UpdateJobStatus(ctx, job.ID,
			[]model.JobStatus{model.StatusPending}, model.StatusProcessing, "", now)
		if err != nil {
			return nil, errors.WrapError(err, errors.KindInternal, "Failed to claim job")
		}
		if claimed {
			metrics.JobTransitions.WithLabelValues(string(model.StatusProcessing)).Inc()
			job.Status = model.StatusProcessing
			job.UpdatedAt = &now
			return job, nil
		}
	}
	return nil, nil
}

// guardFailure distinguishes an unknown job from an illegal transition
// after a conditional update touched no rows. The re-read is advisory:
// the guard already held, this only names the current status.
func (s *JobServiceImpl) guardFailure(ctx context.Context, jobID string, action string) error {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return errors.WrapError(err, errors.KindInternal, "Failed to load job")
	}
	if job == nil {
		return errors.NewNotFoundError("Job")
	}

	metrics.InvalidTransitions.Inc()
	return errors.NewInvalidTransitionError(
		fmt.Sprintf("Cannot %s. Current status: %s", action, job.Status))
}
