package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
	"youtube-transcriber/internal/api/server"
	"youtube-transcriber/internal/api/v1/services"
	"youtube-transcriber/internal/app/repository"
	"youtube-transcriber/internal/app/repository/pg"
	"youtube-transcriber/internal/app/repository/sqlite"
	"youtube-transcriber/internal/app/transcriber"
	"youtube-transcriber/internal/app/transcriber/whisper"
	"youtube-transcriber/internal/app/transcriber/ytdlp"
	"youtube-transcriber/internal/app/worker"
	"youtube-transcriber/internal/config"
)

// ProvideDAO opens the store selected by DB_DRIVER. The cleanup closes
// the underlying connection pool.
func ProvideDAO(cfg *config.Config) (repository.JobDAO, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := pg.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return db, func() { db.Close() }, nil
	default:
		db, err := sqlite.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, func() { db.Close() }, nil
	}
}

// ProvideJobService provides the job lifecycle service.
func ProvideJobService(dao repository.JobDAO) services.JobService {
	return services.NewJobService(dao)
}

// ProvideTranscriptService provides the transcript read service.
func ProvideTranscriptService(dao repository.JobDAO) services.TranscriptService {
	return services.NewTranscriptService(dao)
}

// ProvideTranscriber assembles the yt-dlp plus Whisper pipeline.
func ProvideTranscriber(cfg *config.Config, logger *slog.Logger) (transcriber.Transcriber, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set to run the transcription pipeline")
	}

	downloader := ytdlp.NewDownloader(cfg.YtdlpBinary, logger)
	stt := whisper.NewRemoteSpeechToText(openai.NewClient(cfg.OpenAIAPIKey))
	return transcriber.NewPipeline(downloader, stt, logger), nil
}

// ProvideSyncService provides the synchronous transcription service, or
// nil when the server runs in async mode.
func ProvideSyncService(
	cfg *config.Config,
	jobs services.JobService,
	transcripts services.TranscriptService,
	logger *slog.Logger,
) (services.SyncTranscriptionService, error) {
	if cfg.TranscribeMode != config.ModeSync {
		return nil, nil
	}

	engine, err := ProvideTranscriber(cfg, logger)
	if err != nil {
		return nil, err
	}
	return services.NewSyncTranscriptionService(jobs, transcripts, engine, cfg.TranscribeTimeout, logger), nil
}

// ProvideServerConfig maps runtime configuration to the server's.
func ProvideServerConfig(cfg *config.Config) server.Config {
	// Synchronous mode holds the response open for the whole pipeline
	// run, so the write timeout must outlast it.
	writeTimeout := 30 * time.Second
	if cfg.TranscribeMode == config.ModeSync {
		writeTimeout = cfg.TranscribeTimeout + 30*time.Second
	}

	return server.Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		Environment:  cfg.Environment,
	}
}

// ProvideWorkerConfig maps runtime configuration to the worker's.
func ProvideWorkerConfig(cfg *config.Config) worker.Config {
	return worker.Config{
		PollInterval: cfg.WorkerPollInterval,
		JobTimeout:   cfg.TranscribeTimeout,
	}
}
