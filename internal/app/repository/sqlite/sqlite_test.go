package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"youtube-transcriber/internal/app/model"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newPendingJob(createdAt time.Time) *model.Job {
	return &model.Job{
		ID:         uuid.New().String(),
		YoutubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Status:     model.StatusPending,
		CreatedAt:  createdAt,
	}
}

func TestSQLiteDB_InsertAndGetJob(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := newPendingJob(time.Now().UTC())
	require.NoError(t, db.InsertJob(ctx, job))

	got, err := db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.YoutubeURL, got.YoutubeURL)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Empty(t, got.ErrorMessage)
	assert.Nil(t, got.UpdatedAt)
}

func TestSQLiteDB_GetJob_Unknown(t *testing.T) {
	db := newTestDB(t)

	got, err := db.GetJob(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteDB_OldestPendingJob(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("empty set", func(t *testing.T) {
		got, err := db.OldestPendingJob(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	base := time.Now().UTC()
	oldest := newPendingJob(base.Add(-2 * time.Hour))
	middle := newPendingJob(base.Add(-1 * time.Hour))
	newest := newPendingJob(base)
	for _, job := range []*model.Job{newest, oldest, middle} {
		require.NoError(t, db.InsertJob(ctx, job))
	}

	t.Run("fifo order", func(t *testing.T) {
		got, err := db.OldestPendingJob(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, oldest.ID, got.ID)
	})

	t.Run("terminal jobs are skipped", func(t *testing.T) {
		updated, err := db.UpdateJobStatus(ctx, oldest.ID,
			[]model.JobStatus{model.StatusPending}, model.StatusFailed,
			"download failed", time.Now().UTC())
		require.NoError(t, err)
		require.True(t, updated)

		got, err := db.OldestPendingJob(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, middle.ID, got.ID)
	})
}

func TestSQLiteDB_UpdateJobStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := newPendingJob(time.Now().UTC())
	require.NoError(t, db.InsertJob(ctx, job))

	updated, err := db.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.StatusPending}, model.StatusProcessing, "", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
	require.NotNil(t, got.UpdatedAt)

	// Second flip from pending must lose: status already changed.
	updated, err = db.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.StatusPending}, model.StatusProcessing, "", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, updated)

	got, err = db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
}

func TestSQLiteDB_UpdateJobStatus_UnknownJob(t *testing.T) {
	db := newTestDB(t)

	updated, err := db.UpdateJobStatus(context.Background(), uuid.New().String(),
		[]model.JobStatus{model.StatusPending}, model.StatusProcessing, "", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestSQLiteDB_UpdateJobStatus_RecordsError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := newPendingJob(time.Now().UTC())
	require.NoError(t, db.InsertJob(ctx, job))

	updated, err := db.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		model.StatusFailed, "download failed", time.Now().UTC())
	require.NoError(t, err)
	require.True(t, updated)

	got, err := db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, "download failed", got.ErrorMessage)
}

func TestSQLiteDB_CompleteJob(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := newPendingJob(time.Now().UTC())
	require.NoError(t, db.InsertJob(ctx, job))

	transcript := &model.Transcript{
		ID:       uuid.New().String(),
		JobID:    job.ID,
		Title:    "T",
		Duration: 300,
		Content:  "hello",
		Timestamps: []model.Segment{
			{Start: 0.0, End: 5.0, Text: "hello"},
		},
		CreatedAt: time.Now().UTC(),
	}

	completed, err := db.CompleteJob(ctx, job.ID,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		transcript, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, completed)

	got, err := db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	stored, err := db.GetTranscript(ctx, transcript.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "T", stored.Title)
	assert.Equal(t, "hello", stored.Content)
	assert.Equal(t, transcript.Timestamps, stored.Timestamps)

	id, err := db.TranscriptIDByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, transcript.ID, id)
}

func TestSQLiteDB_CompleteJob_GuardHolds(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	job := newPendingJob(time.Now().UTC())
	require.NoError(t, db.InsertJob(ctx, job))

	updated, err := db.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		model.StatusFailed, "download failed", time.Now().UTC())
	require.NoError(t, err)
	require.True(t, updated)

	transcript := &model.Transcript{
		ID:         uuid.New().String(),
		JobID:      job.ID,
		Title:      "T",
		Duration:   300,
		Content:    "hello",
		Timestamps: []model.Segment{},
		CreatedAt:  time.Now().UTC(),
	}

	// Completing a failed job must not create a transcript.
	completed, err := db.CompleteJob(ctx, job.ID,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		transcript, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, completed)

	stored, err := db.GetTranscript(ctx, transcript.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	id, err := db.TranscriptIDByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSQLiteDB_AllTranscripts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	transcripts, err := db.AllTranscripts(ctx)
	require.NoError(t, err)
	assert.Empty(t, transcripts)

	base := time.Now().UTC()
	for i, title := range []string{"first", "second"} {
		job := newPendingJob(base)
		require.NoError(t, db.InsertJob(ctx, job))
		completed, err := db.CompleteJob(ctx, job.ID,
			[]model.JobStatus{model.StatusPending},
			&model.Transcript{
				ID:         uuid.New().String(),
				JobID:      job.ID,
				Title:      title,
				Duration:   10,
				Content:    title,
				Timestamps: []model.Segment{},
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			}, base)
		require.NoError(t, err)
		require.True(t, completed)
	}

	transcripts, err = db.AllTranscripts(ctx)
	require.NoError(t, err)
	require.Len(t, transcripts, 2)
	// Newest first.
	assert.Equal(t, "second", transcripts[0].Title)
	assert.Equal(t, "first", transcripts[1].Title)
}
