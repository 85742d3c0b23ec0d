// Package service provides the batch fetch, packaging, and event publishing
// logic of the thumbnail service.
package service

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/thumbgrab/thumbnail-service-go/internal/metrics"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/internal/youtube"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// FetchedImage is one downloaded thumbnail and the quality tier that served it.
type FetchedImage struct {
	Data    []byte
	Quality models.ThumbnailQuality
}

// Fetcher resolves video metadata and downloads thumbnail images from the CDN.
type Fetcher struct {
	cdnBaseURL string
	titles     *youtube.TitleClient
	httpClient *http.Client
}

// NewFetcher creates a Fetcher. An empty cdnBaseURL selects the real CDN; a
// nil httpClient gets a default with a sane timeout.
func NewFetcher(cdnBaseURL string, titles *youtube.TitleClient, httpClient *http.Client) *Fetcher {
	if cdnBaseURL == "" {
		cdnBaseURL = youtube.DefaultCDNBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		cdnBaseURL: cdnBaseURL,
		titles:     titles,
		httpClient: httpClient,
	}
}

// CDNBaseURL returns the configured CDN host.
func (f *Fetcher) CDNBaseURL() string {
	return f.cdnBaseURL
}

// ResolveMetadata expands each input URL into its full quality ladder with a
// best-effort title. Inputs with no extractable video ID are dropped and
// counted in Failed. Title lookups run concurrently; output order is the
// stable subsequence of successful inputs, not completion order.
func (f *Fetcher) ResolveMetadata(ctx context.Context, urls []string) *models.ResolveResponseDTO {
	type candidate struct {
		videoID string
	}

	candidates := make([]candidate, 0, len(urls))
	failed := 0
	for _, raw := range urls {
		videoID, ok := youtube.ExtractVideoID(raw)
		if !ok {
			failed++
			metrics.RejectedURLs.Inc()
			logger.Log.Debug("Dropped input with no extractable video ID",
				zap.String("input", raw),
			)
			continue
		}
		candidates = append(candidates, candidate{videoID: videoID})
	}

	// Index-addressed so concurrent completion cannot reorder the output.
	results := make([]models.ThumbnailResponse, len(candidates))
	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, videoID string) {
			defer wg.Done()

			title := youtube.PlaceholderTitle
			if f.titles != nil {
				title = f.titles.LookupTitle(ctx, youtube.WatchURL(videoID))
			}

			thumbnails := youtube.AllThumbnails(f.cdnBaseURL, videoID)
			results[i] = models.ThumbnailResponse{
				VideoID:    videoID,
				VideoTitle: title,
				Thumbnails: thumbnails,
				Total:      len(thumbnails),
			}
			metrics.ResolvedVideos.Inc()
		}(i, cand.videoID)
	}
	wg.Wait()

	return &models.ResolveResponseDTO{
		Results: results,
		Failed:  failed,
	}
}

// FetchImageWithFallback downloads the thumbnail for one video, walking the
// reduced quality chain (maxres, hq, mq) and accepting the first
// transport-successful, non-empty response. The CDN serves placeholders and
// 404s interchangeably for missing tiers; a non-zero body is the only signal
// available.
func (f *Fetcher) FetchImageWithFallback(ctx context.Context, videoID string) (*FetchedImage, error) {
	for _, quality := range youtube.FallbackChain {
		data, err := f.fetchOne(ctx, videoID, quality)
		if err != nil {
			metrics.ImageFetches.WithLabelValues(string(quality), "failure").Inc()
			logger.Log.Debug("Thumbnail fetch attempt failed",
				zap.String("videoId", videoID),
				zap.String("quality", string(quality)),
				zap.Error(err),
			)
			continue
		}
		metrics.ImageFetches.WithLabelValues(string(quality), "success").Inc()
		return &FetchedImage{Data: data, Quality: quality}, nil
	}

	return nil, &FetchFailedError{VideoID: videoID}
}

// FetchImage downloads one specific quality tier with no fallback. A miss is
// an upstream outcome, reported the same way as an exhausted fallback chain.
func (f *Fetcher) FetchImage(ctx context.Context, videoID string, quality models.ThumbnailQuality) (*FetchedImage, error) {
	data, err := f.fetchOne(ctx, videoID, quality)
	if err != nil {
		metrics.ImageFetches.WithLabelValues(string(quality), "failure").Inc()
		logger.Log.Debug("Thumbnail fetch failed",
			zap.String("videoId", videoID),
			zap.String("quality", string(quality)),
			zap.Error(err),
		)
		return nil, &FetchFailedError{VideoID: videoID, Quality: quality}
	}
	metrics.ImageFetches.WithLabelValues(string(quality), "success").Inc()
	return &FetchedImage{Data: data, Quality: quality}, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, videoID string, quality models.ThumbnailQuality) ([]byte, error) {
	url := youtube.BuildThumbnailURL(f.cdnBaseURL, videoID, quality)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to build fetch request", Cause: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &ProcessingError{Message: "thumbnail fetch failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProcessingError{Message: "thumbnail fetch returned status " + resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to read thumbnail body", Cause: err}
	}
	if len(data) == 0 {
		return nil, &ProcessingError{Message: "thumbnail response was empty"}
	}

	return data, nil
}
