package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"youtube-transcriber/internal/app/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id            UUID PRIMARY KEY,
    youtube_url   TEXT NOT NULL,
    status        TEXT NOT NULL,
    error_message TEXT,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_status_created_at ON jobs (status, created_at);

CREATE TABLE IF NOT EXISTS transcripts (
    id         UUID PRIMARY KEY,
    job_id     UUID NOT NULL REFERENCES jobs (id),
    title      TEXT NOT NULL,
    duration   DOUBLE PRECISION NOT NULL,
    content    TEXT NOT NULL,
    timestamps JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcripts_job_id ON transcripts (job_id);
`

// PostgresDB stores jobs and transcripts in PostgreSQL.
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB connects with the given connection string and ensures
// the schema exists.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// NewPostgresDBWithConn wraps an existing connection without touching
// the schema. Used by tests.
func NewPostgresDBWithConn(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) Ping(ctx context.Context) error {
	return pdb.db.PingContext(ctx)
}

func (pdb *PostgresDB) InsertJob(ctx context.Context, job *model.Job) error {
	insertSQL := `INSERT INTO jobs (id, youtube_url, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := pdb.db.ExecContext(ctx, insertSQL,
		job.ID, job.YoutubeURL, string(job.Status), nullableString(job.ErrorMessage),
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (pdb *PostgresDB) GetJob(ctx context.Context, id string) (*model.Job, error) {
	query := `SELECT id, youtube_url, status, error_message, created_at, updated_at
		FROM jobs WHERE id = $1`
	return scanJob(pdb.db.QueryRowContext(ctx, query, id))
}

func (pdb *PostgresDB) OldestPendingJob(ctx context.Context) (*model.Job, error) {
	query := `SELECT id, youtube_url, status, error_message, created_at, updated_at
		FROM jobs WHERE status = $1 ORDER BY created_at, id LIMIT 1`
	return scanJob(pdb.db.QueryRowContext(ctx, query, string(model.StatusPending)))
}

func (pdb *PostgresDB) UpdateJobStatus(ctx context.Context, id string, from []model.JobStatus,
	to model.JobStatus, errorMessage string, updatedAt time.Time) (bool, error) {

	query := `UPDATE jobs SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4 AND status = ANY($5)`
	res, err := pdb.db.ExecContext(ctx, query,
		string(to), nullableString(errorMessage), updatedAt, id, statusArray(from))
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	return affected > 0, nil
}

func (pdb *PostgresDB) CompleteJob(ctx context.Context, jobID string, from []model.JobStatus,
	transcript *model.Transcript, updatedAt time.Time) (bool, error) {

	tx, err := pdb.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE jobs SET status = $1, error_message = NULL, updated_at = $2
		WHERE id = $3 AND status = ANY($4)`
	res, err := tx.ExecContext(ctx, query,
		string(model.StatusCompleted), updatedAt, jobID, statusArray(from))
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
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

func (pdb *PostgresDB) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	query := `SELECT id, job_id, title, duration, content, timestamps, created_at
		FROM transcripts WHERE id = $1`
	return scanTranscript(pdb.db.QueryRowContext(ctx, query, id))
}

func (pdb *PostgresDB) TranscriptIDByJob(ctx context.Context, jobID string) (string, error) {
	var id string
	err := pdb.db.QueryRowContext(ctx,
		`SELECT id FROM transcripts WHERE job_id = $1`, jobID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query transcript by job: %w", err)
	}
	return id, nil
}

func (pdb *PostgresDB) AllTranscripts(ctx context.Context) ([]model.Transcript, error) {
	query := `SELECT id, job_id, title, duration, content, timestamps, created_at
		FROM transcripts ORDER BY created_at DESC`
	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := make([]model.Transcript, 0)
	for rows.Next() {
		transcript, err := scanTranscript(rows)
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

func scanTranscript(row rowScanner) (*model.Transcript, error) {
	var (
		transcript model.Transcript
		timestamps []byte
	)
	err := row.Scan(&transcript.ID, &transcript.JobID, &transcript.Title,
		&transcript.Duration, &transcript.Content, &timestamps, &transcript.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	if err := json.Unmarshal(timestamps, &transcript.Timestamps); err != nil {
		return nil, fmt.Errorf("unmarshal timestamps: %w", err)
	}
	return &transcript, nil
}

func statusArray(from []model.JobStatus) any {
	statuses := make([]string, len(from))
	for i, status := range from {
		statuses[i] = string(status)
	}
	return pq.Array(statuses)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
