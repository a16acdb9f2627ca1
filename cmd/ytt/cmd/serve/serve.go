package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"youtube-transcriber/internal/app"
	"youtube-transcriber/internal/config"
)

var withWorker bool

func init() {
	Cmd.Flags().BoolVar(&withWorker, "with-worker", false,
		"also run the polling worker inside this process")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription job API server",
	Long: `Run the transcription job API server.

In async mode (the default) POST /api/transcribe queues a job that a
worker picks up later. Start the worker in the same process with
--with-worker, or separately with the worker subcommand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger := app.NewLogger(cfg)

		server, cleanup, err := app.InitializeServer(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if withWorker {
			w, workerCleanup, err := app.InitializeWorker(cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize worker: %w", err)
			}
			defer workerCleanup()
			go w.Run(ctx)
		}

		if err := server.Start(); err != nil {
			return err
		}

		<-ctx.Done()
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
