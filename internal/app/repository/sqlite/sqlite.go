package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"youtube-transcriber/internal/app/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id            TEXT PRIMARY KEY,
    youtube_url   TEXT NOT NULL,
    status        TEXT NOT NULL,
    error_message TEXT,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_jobs_status_created_at ON jobs (status, created_at);

CREATE TABLE IF NOT EXISTS transcripts (
    id         TEXT PRIMARY KEY,
    job_id     TEXT NOT NULL REFERENCES jobs (id),
    title      TEXT NOT NULL,
    duration   REAL NOT NULL,
    content    TEXT NOT NULL,
    timestamps TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcripts_job_id ON transcripts (job_id);
`

// SQLiteDB stores jobs and transcripts in a local SQLite database.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (and if necessary creates) the database at
// dbFilePath and ensures the schema exists.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) Ping(ctx context.Context) error {
	return sdb.db.PingContext(ctx)
}

func (sdb *SQLiteDB) InsertJob(ctx context.Context, job *model.Job) error {
	insertSQL := `INSERT INTO jobs (id, youtube_url, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := sdb.db.ExecContext(ctx, insertSQL,
		job.ID, job.YoutubeURL, string(job.Status), nullableString(job.ErrorMessage),
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetJob(ctx context.Context, id string) (*model.Job, error) {
	query := `SELECT id, youtube_url, status, error_message, created_at, updated_at
		FROM jobs WHERE id = ?`
	return scanJob(sdb.db.QueryRowContext(ctx, query, id))
}

func (sdb *SQLiteDB) OldestPendingJob(ctx context.Context) (*model.Job, error) {
	query := `SELECT id, youtube_url, status, error_message, created_at, updated_at
		FROM jobs WHERE status = ? ORDER BY created_at, id LIMIT 1`
	return scanJob(sdb.db.QueryRowContext(ctx, query, string(model.StatusPending)))
}

func (sdb *SQLiteDB) UpdateJobStatus(ctx context.Context, id string, from []model.JobStatus,
	to model.JobStatus, errorMessage string, updatedAt time.Time) (bool, error) {

	query := `UPDATE jobs SET status = ?, error_message = ?, updated_at = ?
		WHERE id = ? AND status IN (` + statusPlaceholders(len(from)) + `)`
	res, err := sdb.db.ExecContext(ctx, query,
		statusArgs(to, errorMessage, updatedAt, id, from)...)
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	return affected > 0, nil
}

func (sdb *SQLiteDB) CompleteJob(ctx context.Context, jobID string, from []model.JobStatus,
	transcript *model.Transcript, updatedAt time.Time) (bool, error) {

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE jobs SET status = ?, error_message = NULL, updated_at = ?
		WHERE id = ? AND status IN (` + statusPlaceholders(len(from)) + `)`
	args := []any{string(model.StatusCompleted), updatedAt, jobID}
	for _, status := range from {
		args = append(args, string(status))
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	timestamps, err := json.Marshal(transcript.Timestamps)
	if err != nil {
		return false, fmt.Errorf("marshal timestamps: %w", err)
	}
	insertSQL := `INSERT INTO transcripts (id, job_id, title, duration, content, timestamps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertSQL,
		transcript.ID, transcript.JobID, transcript.Title, transcript.Duration,
		transcript.Content, string(timestamps), transcript.CreatedAt); err != nil {
		return false, fmt.Errorf("insert transcript: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func (sdb *SQLiteDB) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	query := `SELECT id, job_id, title, duration, content, timestamps, created_at
		FROM transcripts WHERE id = ?`
	return scanTranscriptRow(sdb.db.QueryRowContext(ctx, query, id))
}

func (sdb *SQLiteDB) TranscriptIDByJob(ctx context.Context, jobID string) (string, error) {
	var id string
	err := sdb.db.QueryRowContext(ctx,
		`SELECT id FROM transcripts WHERE job_id = ?`, jobID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query transcript by job: %w", err)
	}
	return id, nil
}

func (sdb *SQLiteDB) AllTranscripts(ctx context.Context) ([]model.Transcript, error) {
	query := `SELECT id, job_id, title, duration, content, timestamps, created_at
		FROM transcripts ORDER BY created_at DESC`
	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := make([]model.Transcript, 0)
	for rows.Next() {
		transcript, err := scanTranscriptRow(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, *transcript)
	}
	return transcripts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job          model.Job
		status       string
		errorMessage sql.NullString
		updatedAt    sql.NullTime
	)
	err := row.Scan(&job.ID, &job.YoutubeURL, &status, &errorMessage, &job.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}

	job.Status, err = model.ParseJobStatus(status)
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.ErrorMessage = errorMessage.String
	if updatedAt.Valid {
		t := updatedAt.Time
		job.UpdatedAt = &t
	}
	return &job, nil
}

func scanTranscriptRow(row rowScanner) (*model.Transcript, error) {
	var (
		transcript model.Transcript
		timestamps string
	)
	err := row.Scan(&transcript.ID, &transcript.JobID, &transcript.Title,
		&transcript.Duration, &transcript.Content, &timestamps, &transcript.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	if err := json.Unmarshal([]byte(timestamps), &transcript.Timestamps); err != nil {
		return nil, fmt.Errorf("unmarshal timestamps: %w", err)
	}
	return &transcript, nil
}

func statusPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func statusArgs(to model.JobStatus, errorMessage string, updatedAt time.Time,
	id string, from []model.JobStatus) []any {

	args := []any{string(to), nullableString(errorMessage), updatedAt, id}
	for _, status := range from {
		args = append(args, string(status))
	}
	return args
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
