// Package whisper transcribes audio through the OpenAI Whisper API.
package whisper

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"youtube-transcriber/internal/app/model"
	"youtube-transcriber/internal/app/transcriber"
)

// RemoteSpeechToText implements speech-to-text using the OpenAI API.
type RemoteSpeechToText struct {
	client *openai.Client
}

// NewRemoteSpeechToText creates a new RemoteSpeechToText instance.
func NewRemoteSpeechToText(client *openai.Client) *RemoteSpeechToText {
	return &RemoteSpeechToText{client: client}
}

// Transcribe sends the audio file to Whisper and returns the text with
// segment-level timestamps.
func (rt *RemoteSpeechToText) Transcribe(ctx context.Context, audioPath string) (*transcriber.Speech, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, model.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	return &transcriber.Speech{
		Content:  resp.Text,
		Segments: segments,
	}, nil
}
