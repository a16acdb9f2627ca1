package repository

import (
	"context"
	"time"

	"youtube-transcriber/internal/app/model"
)

// JobDAO is the persistence contract for jobs and transcripts. All
// operations are atomic at the single-record level; CompleteJob is a
// compound atomic write (job update + transcript insert in one
// transaction).
type JobDAO interface {
	Close() error

	// Ping verifies the underlying connection is alive.
	Ping(ctx context.Context) error

	InsertJob(ctx context.Context, job *model.Job) error

	// GetJob returns the job or nil when the id is unknown.
	GetJob(ctx context.Context, id string) (*model.Job, error)

	// OldestPendingJob returns the pending job with the smallest
	// created_at, or nil when no job is pending.
	OldestPendingJob(ctx context.Context) (*model.Job, error)

	// UpdateJobStatus moves a job to the given status only if its
	// current status is one of from (compare-and-swap). errorMessage is
	// persisted alongside the flip and is only non-empty for failed.
	// Returns false when the row was not updated because the job does
	// not exist or its status had already changed.
	UpdateJobStatus(ctx context.Context, id string, from []model.JobStatus,
		to model.JobStatus, errorMessage string, updatedAt time.Time) (bool, error)

	// CompleteJob flips the job to completed and inserts its transcript
	// in a single transaction, guarded like UpdateJobStatus. Either both
	// writes become visible or neither does.
	CompleteJob(ctx context.Context, jobID string, from []model.JobStatus,
		transcript *model.Transcript, updatedAt time.Time) (bool, error)

	// GetTranscript returns the transcript or nil when the id is unknown.
	GetTranscript(ctx context.Context, id string) (*model.Transcript, error)

	// TranscriptIDByJob returns the id of the transcript owned by the
	// job, or "" when the job has none.
	TranscriptIDByJob(ctx context.Context, jobID string) (string, error)

	// AllTranscripts returns every transcript, newest first.
	AllTranscripts(ctx context.Context) ([]model.Transcript, error)
}
