package dto

import (
	"time"
)

// TranscribeRequest is the body of POST /api/transcribe.
type TranscribeRequest struct {
	URL string `json:"url" binding:"required,youtube_url"`
}

// JobResponse describes a job's current lifecycle state.
type JobResponse struct {
	JobID        string     `json:"job_id"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	TranscriptID string     `json:"transcript_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// PendingJobResponse is one entry of GET /api/jobs/pending.
type PendingJobResponse struct {
	JobID      string    `json:"job_id"`
	YoutubeURL string    `json:"youtube_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TimestampSegment is one timed slice of a transcript as exchanged on
// the wire.
type TimestampSegment struct {
	Start float64 `json:"start" binding:"gte=0"`
	End   float64 `json:"end" binding:"gtefield=Start"`
	Text  string  `json:"text"`
}

// CompleteJobRequest is the body of PUT /api/jobs/:id/complete.
type CompleteJobRequest struct {
	Title      string             `json:"title" binding:"required"`
	Duration   float64            `json:"duration" binding:"gte=0"`
	Content    string             `json:"content" binding:"required"`
	Timestamps []TimestampSegment `json:"timestamps" binding:"dive"`
}

// FailJobRequest is the body of PUT /api/jobs/:id/fail.
type FailJobRequest struct {
	Error string `json:"error" binding:"required"`
}

// StatusResponse reports the status a transition produced.
type StatusResponse struct {
	Status string `json:"status"`
}

// CompleteJobResponse reports a completion together with the id of the
// transcript it created.
type CompleteJobResponse struct {
	Status       string `json:"status"`
	TranscriptID string `json:"transcript_id"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}
