package export

import (
	"context"
	"fmt"
	"time"

	"github.com/tealeg/xlsx"
	"youtube-transcriber/internal/app/model"
	"youtube-transcriber/internal/app/repository"
)

// ToExcel writes transcripts to an xlsx workbook at outputFilePath.
func ToExcel(transcripts []model.Transcript, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Transcript ID"
	headerRow.AddCell().Value = "Job ID"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Duration"
	headerRow.AddCell().Value = "Content"
	headerRow.AddCell().Value = "Segments"
	headerRow.AddCell().Value = "Created At"

	for _, t := range transcripts {
		row := sheet.AddRow()
		row.AddCell().Value = t.ID
		row.AddCell().Value = t.JobID
		row.AddCell().Value = t.Title
		row.AddCell().Value = fmt.Sprintf("%.2f", t.Duration)
		row.AddCell().Value = t.Content
		row.AddCell().Value = fmt.Sprint(len(t.Timestamps))
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// AllToExcel exports every stored transcript, newest first.
func AllToExcel(ctx context.Context, repo repository.JobDAO, outputFilePath string) error {
	transcripts, err := repo.AllTranscripts(ctx)
	if err != nil {
		return fmt.Errorf("load transcripts: %w", err)
	}
	return ToExcel(transcripts, outputFilePath)
}
