// Package links extracts YouTube watch URLs from tabular input and
// persists them as a JSON link list.
package links

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// youtubeURLPattern matches YouTube watch URLs, optionally carrying a
// trailing &pp= tracking parameter.
var youtubeURLPattern = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[^\s&]+(?:&pp=[^\s]+)?`)

// ExtractFromWorkbook scans every cell of every sheet in an xlsx workbook
// and returns the YouTube links found, in encounter order.
func ExtractFromWorkbook(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	var found []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			for _, cell := range row {
				found = append(found, youtubeURLPattern.FindAllString(cell, -1)...)
			}
		}
	}
	return found, nil
}

// ExtractFromCSV scans every field of a CSV file for YouTube links.
func ExtractFromCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // arbitrary columns

	var found []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		for _, field := range record {
			found = append(found, youtubeURLPattern.FindAllString(field, -1)...)
		}
	}
	return found, nil
}

// ExtractFromReader scans free-form text line by line for YouTube links.
func ExtractFromReader(r io.Reader) ([]string, error) {
	var found []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		found = append(found, youtubeURLPattern.FindAllString(scanner.Text(), -1)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return found, nil
}

// Extract dispatches on the input file's extension: .xlsx workbooks and
// .csv files are scanned cell by cell, anything else as plain text.
func Extract(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ExtractFromWorkbook(path)
	case ".csv":
		return ExtractFromCSV(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ExtractFromReader(f)
	}
}
