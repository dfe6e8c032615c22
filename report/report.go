// Package report aggregates per-file transcription outcomes into a
// spreadsheet report.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Statuses recorded in the report.
const (
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

// sheetName is the worksheet transcription rows are written to.
const sheetName = "Transcriptions"

// TimeFormat is the layout for the Completion_Time column.
const TimeFormat = "2006-01-02 15:04:05"

// maxColumnWidth caps auto-sized column widths.
const maxColumnWidth = 50

// Row is one file's outcome. Column set and order are fixed.
type Row struct {
	// Filename is the sanitized audio file name.
	Filename string
	// FilePath is the local path the audio was read from.
	FilePath string
	// Transcription is the transcript text, or "Error: ..." on failure.
	Transcription string
	// Status is Completed or Failed.
	Status string
	// LanguageCode is the transcription language.
	LanguageCode string
	// CompletionTime is when processing of this file finished.
	CompletionTime string
}

// header is the fixed column order.
var header = []string{"Filename", "File_Path", "Transcription", "Status", "Language_Code", "Completion_Time"}

func (r Row) values() []string {
	return []string{r.Filename, r.FilePath, r.Transcription, r.Status, r.LanguageCode, r.CompletionTime}
}

// WriteWorkbook writes rows to an xlsx workbook at path, creating parent
// directories as needed. Column widths are sized to content, capped.
func WriteWorkbook(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	widths := make([]int, len(header))
	writeRow := func(rowNum int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
			// Widths count characters, not bytes.
			if n := utf8.RuneCountInString(v); n > widths[col] {
				widths[col] = n
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row.values()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for col := range header {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		width := widths[col] + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheetName, name, name, float64(width)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes rows with the same columns to a CSV file at path.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row.values()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Summary counts completed and failed rows.
func Summary(rows []Row) (completed, failed int) {
	for _, r := range rows {
		switch r.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}
	return completed, failed
}
