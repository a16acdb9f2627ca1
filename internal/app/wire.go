//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"
	"youtube-transcriber/internal/api/server"
	"youtube-transcriber/internal/app/repository"
	"youtube-transcriber/internal/app/worker"
	"youtube-transcriber/internal/config"
)

// InitializeServer builds the API server with its full service graph.
func InitializeServer(cfg *config.Config, logger *slog.Logger) (*server.Server, func(), error) {
	wire.Build(
		ProvideDAO,
		ProvideJobService,
		ProvideTranscriptService,
		ProvideSyncService,
		ProvideServerConfig,
		server.NewServer,
	)
	return nil, nil, nil
}

// InitializeWorker builds the background polling worker.
func InitializeWorker(cfg *config.Config, logger *slog.Logger) (*worker.Worker, func(), error) {
	wire.Build(
		ProvideDAO,
		ProvideJobService,
		ProvideTranscriber,
		ProvideWorkerConfig,
		worker.New,
	)
	return nil, nil, nil
}

// InitializeDAO builds just the store handle, for one-shot commands.
func InitializeDAO(cfg *config.Config) (repository.JobDAO, func(), error) {
	wire.Build(ProvideDAO)
	return nil, nil, nil
}
