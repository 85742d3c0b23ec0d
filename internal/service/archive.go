package service

import (
	"archive/zip"
	"bytes"
	"context"
	"regexp"
	"sync"

	"github.com/thumbgrab/thumbnail-service-go/internal/metrics"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// DefaultPackagingBatchSize bounds concurrent in-flight CDN fetches during
// bulk packaging. Batches run strictly in sequence; the next batch starts
// only after the previous one fully completes.
const DefaultPackagingBatchSize = 5

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Progress reports packaging advancement after every row attempt. Percent is
// computed against the valid-row total, so it reaches 100 even when some
// rows fail.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// ProgressFunc receives packaging progress. May be nil.
type ProgressFunc func(Progress)

// Packager assembles fetched thumbnails into a ZIP archive.
type Packager struct {
	fetcher   imageFetcher
	batchSize int
}

// imageFetcher is the slice of Fetcher the packager needs.
type imageFetcher interface {
	FetchImageWithFallback(ctx context.Context, videoID string) (*FetchedImage, error)
}

// NewPackager creates a Packager on top of the given fetcher.
// batchSize <= 0 selects DefaultPackagingBatchSize.
func NewPackager(fetcher imageFetcher, batchSize int) *Packager {
	if batchSize <= 0 {
		batchSize = DefaultPackagingBatchSize
	}
	return &Packager{fetcher: fetcher, batchSize: batchSize}
}

// BuildArchive fetches the thumbnail for every valid row and packages the
// results into a single ZIP. Rows whose full fallback chain fails are logged
// and excluded; packaging failure is per-row, never global, so a batch with
// zero successes still yields a valid (near-empty) archive.
func (p *Packager) BuildArchive(ctx context.Context, rows []models.ParsedCSVRow, onProgress ProgressFunc) ([]byte, error) {
	validRows := make([]models.ParsedCSVRow, 0, len(rows))
	for _, row := range rows {
		if row.Status == models.RowStatusValid && row.VideoID != "" {
			validRows = append(validRows, row)
		}
	}

	total := len(validRows)
	images := make([]*FetchedImage, total)

	var mu sync.Mutex
	completed := 0

	for start := 0; start < total; start += p.batchSize {
		end := start + p.batchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				img, err := p.fetcher.FetchImageWithFallback(ctx, validRows[i].VideoID)
				if err != nil {
					metrics.ArchiveRowFailures.Inc()
					logger.Log.Warn("Row excluded from archive",
						zap.String("videoId", validRows[i].VideoID),
						zap.Int("rowIndex", validRows[i].RowIndex),
						zap.Error(err),
					)
				} else {
					images[i] = img
				}

				mu.Lock()
				completed++
				current := completed
				mu.Unlock()

				if onProgress != nil {
					onProgress(Progress{
						Current: current,
						Total:   total,
						Percent: percentOf(current, total),
					})
				}
			}(i)
		}
		wg.Wait()
	}

	// Entries are written in row order after all fetches settle, so archive
	// layout is independent of completion order.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, row := range validRows {
		if images[i] == nil {
			continue
		}

		name := archiveFilename(row)
		w, err := zw.Create(name)
		if err != nil {
			_ = zw.Close()
			return nil, &ProcessingError{Message: "failed to create archive entry", Cause: err}
		}
		if _, err := w.Write(images[i].Data); err != nil {
			_ = zw.Close()
			return nil, &ProcessingError{Message: "failed to write archive entry", Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &ProcessingError{Message: "failed to finalize archive", Cause: err}
	}

	metrics.ArchiveBuilds.Inc()
	return buf.Bytes(), nil
}

// archiveFilename derives the entry name for one row. The video ID suffix
// guarantees uniqueness even under title collisions; a folder label places
// the entry inside that directory.
func archiveFilename(row models.ParsedCSVRow) string {
	var name string
	if row.Title != "" {
		name = unsafeFilenameChars.ReplaceAllString(row.Title, "_") + "-" + row.VideoID + ".jpg"
	} else {
		name = row.VideoID + ".jpg"
	}

	if row.Folder != "" {
		return unsafeFilenameChars.ReplaceAllString(row.Folder, "_") + "/" + name
	}
	return name
}

func percentOf(current, total int) int {
	if total == 0 {
		return 100
	}
	return current * 100 / total
}
