package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"youtube-transcriber/internal/app"
	"youtube-transcriber/internal/config"
)

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the transcription worker",
	Long: `Run the transcription worker.

The worker polls for pending jobs, downloads the audio with yt-dlp,
transcribes it with Whisper and records the result. Stop it with an
interrupt; the job in flight is finished first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger := app.NewLogger(cfg)

		w, cleanup, err := app.InitializeWorker(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
