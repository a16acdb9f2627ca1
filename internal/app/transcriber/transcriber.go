// Package transcriber turns a YouTube URL into text with timed
// segments. The pipeline downloads the audio with yt-dlp, sends it to
// a speech-to-text backend and removes the downloaded media on every
// exit path.
package transcriber

import (
	"context"

	"youtube-transcriber/internal/app/model"
)

// Result is the output of a successful transcription.
type Result struct {
	Title    string
	Duration float64 // seconds
	Content  string
	Segments []model.Segment
}

// Transcriber converts the media behind a URL into a transcription
// result, or fails.
type Transcriber interface {
	Transcribe(ctx context.Context, url string) (*Result, error)
}

// Download describes audio fetched to local disk. Cleanup removes the
// temporary files and is safe to call more than once.
type Download struct {
	AudioPath string
	Title     string
	Duration  float64
	Cleanup   func()
}

// AudioDownloader fetches the audio track behind a URL to local disk.
type AudioDownloader interface {
	Download(ctx context.Context, url string) (*Download, error)
}

// Speech is the raw speech-to-text output for one audio file.
type Speech struct {
	Content  string
	Segments []model.Segment
}

// SpeechToText transcribes one local audio file.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (*Speech, error)
}
