package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"youtube-transcriber/cmd/ytt/cmd/export"
	"youtube-transcriber/cmd/ytt/cmd/serve"
	"youtube-transcriber/cmd/ytt/cmd/version"
	"youtube-transcriber/cmd/ytt/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytt",
	Short: "An API and worker for transcribing YouTube videos",
	Long: `An API and worker for transcribing YouTube videos.
- serve exposes the job lifecycle over HTTP
- worker drains pending jobs through yt-dlp and Whisper
- export dumps stored transcripts to an excel workbook`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
