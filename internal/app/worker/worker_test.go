package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"youtube-transcriber/internal/api/v1/services"
	"youtube-transcriber/internal/app/model"
	"youtube-transcriber/internal/app/repository/sqlite"
	"youtube-transcriber/internal/app/transcriber"
)

type scriptedEngine struct {
	results map[string]*transcriber.Result
	errs    map[string]error
}

func (e *scriptedEngine) Transcribe(ctx context.Context, url string) (*transcriber.Result, error) {
	if err, ok := e.errs[url]; ok {
		return nil, err
	}
	if result, ok := e.results[url]; ok {
		return result, nil
	}
	return nil, errors.New("unexpected url: " + url)
}

func newWorkerFixture(t *testing.T, engine transcriber.Transcriber) (*Worker, services.JobService) {
	t.Helper()

	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	jobs := services.NewJobService(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(jobs, engine, Config{
		PollInterval: 10 * time.Millisecond,
		JobTimeout:   time.Second,
	}, logger)
	return w, jobs
}

func TestWorker_ProcessesQueue(t *testing.T) {
	goodURL := "https://youtu.be/good"
	badURL := "https://youtu.be/bad"
	engine := &scriptedEngine{
		results: map[string]*transcriber.Result{
			goodURL: {
				Title:    "Good",
				Duration: 10,
				Content:  "ok",
				Segments: []model.Segment{{Start: 0, End: 10, Text: "ok"}},
			},
		},
		errs: map[string]error{
			badURL: errors.New("video unavailable"),
		},
	}
	w, jobs := newWorkerFixture(t, engine)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := jobs.Submit(ctx, goodURL)
	require.NoError(t, err)
	bad, err := jobs.Submit(ctx, badURL)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		goodStatus, err := jobs.GetStatus(ctx, good.JobID)
		if err != nil {
			return false
		}
		badStatus, err := jobs.GetStatus(ctx, bad.JobID)
		if err != nil {
			return false
		}
		return goodStatus.Status == "completed" && badStatus.Status == "failed"
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	goodStatus, err := jobs.GetStatus(context.Background(), good.JobID)
	require.NoError(t, err)
	assert.NotEmpty(t, goodStatus.TranscriptID)

	badStatus, err := jobs.GetStatus(context.Background(), bad.JobID)
	require.NoError(t, err)
	assert.Equal(t, "video unavailable", badStatus.ErrorMessage)
	assert.Empty(t, badStatus.TranscriptID)
}

func TestWorker_StopsWhenIdle(t *testing.T) {
	w, _ := newWorkerFixture(t, &scriptedEngine{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
