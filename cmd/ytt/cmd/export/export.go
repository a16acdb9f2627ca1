package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"youtube-transcriber/internal/app"
	appexport "youtube-transcriber/internal/app/export"
	"youtube-transcriber/internal/config"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored transcripts to excel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		dao, cleanup, err := app.InitializeDAO(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := appexport.AllToExcel(context.Background(), dao, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
