package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "youtube-transcriber/internal/api/errors"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/app/model"
)

// fakeDAO is an in-memory JobDAO with the same conditional-update
// semantics as the SQL stores. Guarded by a mutex so the concurrency
// tests exercise the compare-and-swap contract.
type fakeDAO struct {
	mu          sync.Mutex
	jobs        map[string]*model.Job
	transcripts map[string]*model.Transcript
}

func newFakeDAO() *fakeDAO {
	return &fakeDAO{
		jobs:        make(map[string]*model.Job),
		transcripts: make(map[string]*model.Transcript),
	}
}

func (f *fakeDAO) Close() error                   { return nil }
func (f *fakeDAO) Ping(ctx context.Context) error { return nil }

func (f *fakeDAO) InsertJob(ctx context.Context, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeDAO) GetJob(ctx context.Context, id string) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (f *fakeDAO) OldestPendingJob(ctx context.Context) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var oldest *model.Job
	for _, job := range f.jobs {
		if job.Status != model.StatusPending {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copied := *oldest
	return &copied, nil
}

func (f *fakeDAO) UpdateJobStatus(ctx context.Context, id string, from []model.JobStatus,
	to model.JobStatus, errorMessage string, updatedAt time.Time) (bool, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.casLocked(id, from, to, errorMessage, updatedAt), nil
}

func (f *fakeDAO) CompleteJob(ctx context.Context, jobID string, from []model.JobStatus,
	transcript *model.Transcript, updatedAt time.Time) (bool, error) {

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.casLocked(jobID, from, model.StatusCompleted, "", updatedAt) {
		return false, nil
	}
	copied := *transcript
	f.transcripts[transcript.ID] = &copied
	return true, nil
}

func (f *fakeDAO) casLocked(id string, from []model.JobStatus, to model.JobStatus,
	errorMessage string, updatedAt time.Time) bool {

	job, ok := f.jobs[id]
	if !ok {
		return false
	}
	matched := false
	for _, status := range from {
		if job.Status == status {
			matched = true
		}
	}
	if !matched {
		return false
	}
	job.Status = to
	job.ErrorMessage = errorMessage
	job.UpdatedAt = &updatedAt
	return true
}

func (f *fakeDAO) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	transcript, ok := f.transcripts[id]
	if !ok {
		return nil, nil
	}
	copied := *transcript
	return &copied, nil
}

func (f *fakeDAO) TranscriptIDByJob(ctx context.Context, jobID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, transcript := range f.transcripts {
		if transcript.JobID == jobID {
			return transcript.ID, nil
		}
	}
	return "", nil
}

func (f *fakeDAO) AllTranscripts(ctx context.Context) ([]model.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]model.Transcript, 0, len(f.transcripts))
	for _, transcript := range f.transcripts {
		all = append(all, *transcript)
	}
	return all, nil
}

func errorKind(t *testing.T, err error) apierrors.ErrorKind {
	t.Helper()
	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok, "expected *APIError, got %T: %v", err, err)
	return apiErr.Kind
}

func completeRequest() *dto.CompleteJobRequest {
	return &dto.CompleteJobRequest{
		Title:    "T",
		Duration: 300,
		Content:  "hello",
		Timestamps: []dto.TimestampSegment{
			{Start: 0.0, End: 5.0, Text: "hello"},
		},
	}
}

func TestJobService_Submit(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{name: "youtube.com watch URL", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", ok: true},
		{name: "youtu.be short URL", url: "https://youtu.be/dQw4w9WgXcQ", ok: true},
		{name: "nocookie host", url: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", ok: true},
		{name: "no scheme", url: "www.youtube.com/watch?v=dQw4w9WgXcQ", ok: true},
		{name: "other host", url: "https://example.com/video", ok: false},
		{name: "vimeo", url: "https://vimeo.com/12345", ok: false},
		{name: "empty", url: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Submit(ctx, tt.url)
			if !tt.ok {
				require.Error(t, err)
				assert.Equal(t, apierrors.KindValidation, errorKind(t, err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.JobID)
			assert.Equal(t, "pending", resp.Status)
			assert.False(t, resp.CreatedAt.IsZero())

			job, err := repo.GetJob(ctx, resp.JobID)
			require.NoError(t, err)
			require.NotNil(t, job)
			assert.Equal(t, tt.url, job.YoutubeURL)
		})
	}
}

func TestJobService_Submit_InvalidURLCreatesNothing(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)

	_, err := service.Submit(context.Background(), "https://example.com/video")
	require.Error(t, err)
	assert.Empty(t, repo.jobs)
}

func TestJobService_MarkProcessing(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	resp, err := service.MarkProcessing(ctx, submitted.JobID)
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)

	// Second call must fail: the job is no longer pending.
	_, err = service.MarkProcessing(ctx, submitted.JobID)
	require.Error(t, err)
	assert.Equal(t, apierrors.KindInvalidTransition, errorKind(t, err))
	assert.Contains(t, err.Error(), "Current status: processing")
}

func TestJobService_MarkProcessing_NotFound(t *testing.T) {
	service := NewJobService(newFakeDAO())

	_, err := service.MarkProcessing(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, errorKind(t, err))
}

func TestJobService_Complete(t *testing.T) {
	tests := []struct {
		name           string
		markProcessing bool
	}{
		{name: "from pending"},
		{name: "from processing", markProcessing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeDAO()
			service := NewJobService(repo)
			ctx := context.Background()

			submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
			require.NoError(t, err)
			if tt.markProcessing {
				_, err = service.MarkProcessing(ctx, submitted.JobID)
				require.NoError(t, err)
			}

			resp, err := service.Complete(ctx, submitted.JobID, completeRequest())
			require.NoError(t, err)
			assert.Equal(t, "completed", resp.Status)
			require.NotEmpty(t, resp.TranscriptID)

			transcript, err := repo.GetTranscript(ctx, resp.TranscriptID)
			require.NoError(t, err)
			require.NotNil(t, transcript)
			assert.Equal(t, "T", transcript.Title)
			assert.Equal(t, "hello", transcript.Content)
			assert.Equal(t, submitted.JobID, transcript.JobID)

			status, err := service.GetStatus(ctx, submitted.JobID)
			require.NoError(t, err)
			assert.Equal(t, "completed", status.Status)
			assert.Equal(t, resp.TranscriptID, status.TranscriptID)
			assert.Empty(t, status.ErrorMessage)
		})
	}
}

func TestJobService_Complete_TerminalJobRejected(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	_, err = service.Fail(ctx, submitted.JobID, "download failed")
	require.NoError(t, err)

	_, err = service.Complete(ctx, submitted.JobID, completeRequest())
	require.Error(t, err)
	assert.Equal(t, apierrors.KindInvalidTransition, errorKind(t, err))
	assert.Contains(t, err.Error(), "Current status: failed")
	assert.Empty(t, repo.transcripts, "rejected completion must not create a transcript")
}

func TestJobService_Fail(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	resp, err := service.Fail(ctx, submitted.JobID, "download failed")
	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Status)

	status, err := service.GetStatus(ctx, submitted.JobID)
	require.NoError(t, err)
	assert.Equal(t, "failed", status.Status)
	assert.Equal(t, "download failed", status.ErrorMessage)
	assert.Empty(t, status.TranscriptID)
}

func TestJobService_GetStatus_NotFound(t *testing.T) {
	service := NewJobService(newFakeDAO())

	_, err := service.GetStatus(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, errorKind(t, err))
}

func TestJobService_NextPending(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		pending, err := service.NextPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	first, err := service.Submit(ctx, "https://youtu.be/first")
	require.NoError(t, err)
	// Force distinct created_at for a deterministic FIFO order.
	repo.jobs[first.JobID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err = service.Submit(ctx, "https://youtu.be/second")
	require.NoError(t, err)

	t.Run("returns only the oldest", func(t *testing.T) {
		pending, err := service.NextPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, first.JobID, pending[0].JobID)
		assert.Equal(t, "https://youtu.be/first", pending[0].YoutubeURL)
	})

	t.Run("terminal jobs never show up", func(t *testing.T) {
		_, err := service.Fail(ctx, first.JobID, "boom")
		require.NoError(t, err)
		pending, err := service.NextPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.NotEqual(t, first.JobID, pending[0].JobID)
	})
}

func TestJobService_ClaimNextPending(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	claimed, err := service.ClaimNextPending(ctx)
	require.NoError(t, err)
	assert.Nil(t, claimed)

	submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	claimed, err = service.ClaimNextPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, submitted.JobID, claimed.ID)
	assert.Equal(t, model.StatusProcessing, claimed.Status)

	// The claim reserved the job: nothing is pending anymore.
	again, err := service.ClaimNextPending(ctx)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestJobService_ConcurrentComplete(t *testing.T) {
	repo := newFakeDAO()
	service := NewJobService(repo)
	ctx := context.Background()

	submitted, err := service.Submit(ctx, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	_, err = service.MarkProcessing(ctx, submitted.JobID)
	require.NoError(t, err)

	const attempts = 2
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := service.Complete(ctx, submitted.JobID, completeRequest())
			results <- err
		}()
	}
	start.Done()

	var succeeded, rejected int
	for i := 0; i < attempts; i++ {
		err := <-results
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apierrors.KindInvalidTransition, errorKind(t, err))
		rejected++
	}

	assert.Equal(t, 1, succeeded, "exactly one completion must win")
	assert.Equal(t, 1, rejected, "the loser must see an invalid transition")
	assert.Len(t, repo.transcripts, 1, "exactly one transcript must exist")
}
