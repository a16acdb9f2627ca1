package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"youtube-transcriber/internal/app/metrics"
)

// Pipeline composes an AudioDownloader and a SpeechToText backend into
// a Transcriber. Downloaded media is removed whichever way the call
// exits.
type Pipeline struct {
	downloader AudioDownloader
	stt        SpeechToText
	logger     *slog.Logger
}

// NewPipeline creates a transcription pipeline.
func NewPipeline(downloader AudioDownloader, stt SpeechToText, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		downloader: downloader,
		stt:        stt,
		logger:     logger,
	}
}

// Transcribe downloads the audio behind url and transcribes it.
func (p *Pipeline) Transcribe(ctx context.Context, url string) (*Result, error) {
	started := time.Now()
	defer func() {
		metrics.TranscribeDuration.Observe(time.Since(started).Seconds())
	}()

	p.logger.Info("Starting audio download", "url", url)
	download, err := p.downloader.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer download.Cleanup()

	p.logger.Info("Audio downloaded, starting transcription",
		"url", url,
		"title", download.Title,
		"audio_path", download.AudioPath,
	)
	speech, err := p.stt.Transcribe(ctx, download.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}

	p.logger.Info("Transcription finished",
		"url", url,
		"segments", len(speech.Segments),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)

	return &Result{
		Title:    download.Title,
		Duration: download.Duration,
		Content:  speech.Content,
		Segments: speech.Segments,
	}, nil
}
