// Package ytdlp downloads YouTube audio through the yt-dlp binary.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"youtube-transcriber/internal/app/transcriber"
)

// Downloader shells out to yt-dlp to fetch the best audio track as mp3
// into a fresh temporary directory.
type Downloader struct {
	binaryPath string
	logger     *slog.Logger
}

// NewDownloader creates a Downloader using the given yt-dlp binary.
func NewDownloader(binaryPath string, logger *slog.Logger) *Downloader {
	return &Downloader{binaryPath: binaryPath, logger: logger}
}

// videoInfo is the slice of yt-dlp's JSON output we care about.
type videoInfo struct {
	Title              string  `json:"title"`
	Duration           float64 `json:"duration"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

// Download fetches the audio behind url. The returned Cleanup removes
// the temporary directory holding the file.
func (d *Downloader) Download(ctx context.Context, url string) (*transcriber.Download, error) {
	tempDir, err := os.MkdirTemp("", "ytt-audio-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--print-json",
		"--no-warnings",
		"--quiet",
		"--output", filepath.Join(tempDir, "%(id)s.%(ext)s"),
		url,
	}

	command := exec.CommandContext(ctx, d.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	d.logger.Info("Downloading audio", "url", url, "command", d.binaryPath+" "+strings.Join(args, " "))

	if err := command.Run(); err != nil {
		cleanup()
		return nil, fmt.Errorf("yt-dlp failed: %v, stderr: %s", err, stderr.String())
	}

	var info videoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		cleanup()
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	audioPath := ""
	if len(info.RequestedDownloads) > 0 {
		audioPath = info.RequestedDownloads[0].Filepath
	}
	if audioPath == "" {
		// Older yt-dlp builds omit the filepath; fall back to a scan.
		audioPath = findAudioFile(tempDir)
	}
	if audioPath == "" {
		cleanup()
		return nil, fmt.Errorf("yt-dlp produced no audio file")
	}

	title := info.Title
	if title == "" {
		title = "Unknown Title"
	}

	return &transcriber.Download{
		AudioPath: audioPath,
		Title:     title,
		Duration:  info.Duration,
		Cleanup:   cleanup,
	}, nil
}

func findAudioFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".mp3" {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
