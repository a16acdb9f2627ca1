package services

import (
	"context"

	"youtube-transcriber/internal/api/errors"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/app/repository"
)

// TranscriptService reads immutable transcript records.
type TranscriptService interface {
	GetTranscript(ctx context.Context, transcriptID string) (*dto.TranscriptResponse, error)
}

// TranscriptServiceImpl implements TranscriptService.
type TranscriptServiceImpl struct {
	repo repository.JobDAO
}

// NewTranscriptService creates a new transcript service.
func NewTranscriptService(repo repository.JobDAO) *TranscriptServiceImpl {
	return &TranscriptServiceImpl{repo: repo}
}

func (s *TranscriptServiceImpl) GetTranscript(ctx context.Context, transcriptID string) (*dto.TranscriptResponse, error) {
	transcript, err := s.repo.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to load transcript")
	}
	if transcript == nil {
		return nil, errors.NewNotFoundError("Transcript")
	}
	return dto.NewTranscriptResponse(transcript), nil
}
