package dto

import (
	"time"

	"github.com/samber/lo"
	"youtube-transcriber/internal/app/model"
)

// TranscriptResponse is the full transcript record returned by
// GET /api/transcripts/:id.
type TranscriptResponse struct {
	TranscriptID string             `json:"transcript_id"`
	JobID        string             `json:"job_id"`
	Title        string             `json:"title"`
	Duration     float64            `json:"duration"`
	Content      string             `json:"content"`
	Timestamps   []TimestampSegment `json:"timestamps"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewTranscriptResponse converts a stored transcript into its wire shape.
func NewTranscriptResponse(t *model.Transcript) *TranscriptResponse {
	return &TranscriptResponse{
		TranscriptID: t.ID,
		JobID:        t.JobID,
		Title:        t.Title,
		Duration:     t.Duration,
		Content:      t.Content,
		Timestamps:   SegmentsToWire(t.Timestamps),
		CreatedAt:    t.CreatedAt,
	}
}

// SegmentsToWire converts stored segments into their wire shape.
func SegmentsToWire(segments []model.Segment) []TimestampSegment {
	return lo.Map(segments, func(s model.Segment, _ int) TimestampSegment {
		return TimestampSegment{Start: s.Start, End: s.End, Text: s.Text}
	})
}

// SegmentsFromWire converts wire segments into their stored shape.
func SegmentsFromWire(segments []TimestampSegment) []model.Segment {
	return lo.Map(segments, func(s TimestampSegment, _ int) model.Segment {
		return model.Segment{Start: s.Start, End: s.End, Text: s.Text}
	})
}
