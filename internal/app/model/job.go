package model

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a transcription job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

var allStatuses = []JobStatus{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// ParseJobStatus converts a stored string into a JobStatus, rejecting
// anything outside the closed set.
func ParseJobStatus(s string) (JobStatus, error) {
	for _, status := range allStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed:
		return true
	case StatusPending, StatusProcessing:
		return false
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. The graph only moves forward:
// pending -> processing|completed|failed, processing -> completed|failed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCompleted || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return false
	}
	return false
}

// TransitionSources returns the statuses from which a job may legally
// move to target. Used by the store to build conditional updates.
func TransitionSources(target JobStatus) []JobStatus {
	var from []JobStatus
	for _, status := range allStatuses {
		if status.CanTransitionTo(target) {
			from = append(from, status)
		}
	}
	return from
}

// Job represents one requested transcription tracked through its
// lifecycle. ID and YoutubeURL are immutable after creation.
type Job struct {
	ID           string     `json:"id" db:"id"`
	YoutubeURL   string     `json:"youtube_url" db:"youtube_url"`
	Status       JobStatus  `json:"status" db:"status"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TableName returns the table name for Job.
func (Job) TableName() string {
	return "jobs"
}
