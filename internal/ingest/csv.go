// Package ingest parses bulk CSV uploads into validated candidate rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/internal/youtube"
)

// DefaultMaxRows is the ceiling on data rows per upload.
const DefaultMaxRows = 5000

// FileTooLargeError is returned before any row processing when an upload
// exceeds the row ceiling.
type FileTooLargeError struct {
	Rows    int
	MaxRows int
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d rows exceeds the maximum of %d", e.Rows, e.MaxRows)
}

// EmptyFileError is returned when an upload contains no rows at all.
type EmptyFileError struct{}

func (e *EmptyFileError) Error() string {
	return "file is empty"
}

// Ingester parses delimited uploads with header auto-detection.
type Ingester struct {
	maxRows int
}

// New creates an Ingester. maxRows <= 0 selects DefaultMaxRows.
func New(maxRows int) *Ingester {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Ingester{maxRows: maxRows}
}

// Parse reads the whole upload and classifies every data row as valid,
// duplicate, or invalid. Duplicate rows stay in the output so callers can
// report exactly how many exist and why. Structural failures (too large,
// empty, unreadable) abort before any row is emitted.
func (ing *Ingester) Parse(r io.Reader) (*models.ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if isEmptyRecord(record) {
			continue
		}
		records = append(records, record)
	}

	if len(records) > ing.maxRows {
		return nil, &FileTooLargeError{Rows: len(records), MaxRows: ing.maxRows}
	}
	if len(records) == 0 {
		return nil, &EmptyFileError{}
	}

	urlIndex, titleIndex, folderIndex, hasHeader := detectHeader(records[0])

	dataRows := records
	if hasHeader {
		dataRows = records[1:]
	}

	result := &models.ParseResult{
		RawCount: len(dataRows),
		Rows:     make([]models.ParsedCSVRow, 0, len(dataRows)),
	}
	seen := make(map[string]bool)

	for i, record := range dataRows {
		// 1-based row numbering continues across the consumed header line.
		rowIndex := i + 1
		if hasHeader {
			rowIndex = i + 2
		}

		rawURL := cellAt(record, urlIndex)
		if rawURL == "" {
			continue
		}

		row := models.ParsedCSVRow{
			RowIndex: rowIndex,
			RawURL:   rawURL,
			Title:    cellAt(record, titleIndex),
			Folder:   cellAt(record, folderIndex),
		}

		videoID, ok := youtube.ExtractVideoID(rawURL)
		switch {
		case !ok:
			row.Status = models.RowStatusInvalid
			row.Error = "could not extract a valid video ID"
			result.InvalidCount++
		case seen[videoID]:
			row.VideoID = videoID
			row.Status = models.RowStatusDuplicate
			row.Error = "duplicate video ID"
			result.DuplicatesRemoved++
		default:
			seen[videoID] = true
			row.VideoID = videoID
			row.Status = models.RowStatusValid
			result.ValidCount++
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// detectHeader inspects the first record for well-known column names.
// Without a recognizable URL column the whole file is treated as headerless
// data with the URL in column zero.
func detectHeader(first []string) (urlIndex, titleIndex, folderIndex int, hasHeader bool) {
	urlIndex, titleIndex, folderIndex = 0, -1, -1

	for i, cell := range first {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "url", "link", "video", "id":
			if !hasHeader {
				urlIndex = i
				hasHeader = true
			}
		}
	}
	if !hasHeader {
		return urlIndex, titleIndex, folderIndex, false
	}

	for i, cell := range first {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "title", "name":
			if titleIndex == -1 {
				titleIndex = i
			}
		case "folder", "category":
			if folderIndex == -1 {
				folderIndex = i
			}
		}
	}
	return urlIndex, titleIndex, folderIndex, true
}

func cellAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
