package model

import (
	"time"
)

// Segment is one timed slice of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the immutable output of a completed job. It is created
// exactly once, by the completion transition, and never updated.
type Transcript struct {
	ID         string    `json:"id" db:"id"`
	JobID      string    `json:"job_id" db:"job_id"`
	Title      string    `json:"title" db:"title"`
	Duration   float64   `json:"duration" db:"duration"` // seconds
	Content    string    `json:"content" db:"content"`
	Timestamps []Segment `json:"timestamps" db:"timestamps"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for Transcript.
func (Transcript) TableName() string {
	return "transcripts"
}
