package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/metrics"
	"github.com/thumbgrab/thumbnail-service-go/internal/middleware"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/internal/quota"
	"github.com/thumbgrab/thumbnail-service-go/internal/service"
	"github.com/thumbgrab/thumbnail-service-go/internal/youtube"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// ThumbnailHandler serves thumbnail resolution, single downloads, bulk
// archives, and saved downloads.
type ThumbnailHandler struct {
	fetcher   *service.Fetcher
	packager  *service.Packager
	counter   *quota.Counter
	gw        gateway.HistoryFolderGateway
	publisher *service.EventPublisher
}

// NewThumbnailHandler creates a ThumbnailHandler. gw may be nil when no
// persistence database is configured; publisher may be nil when no broker is
// configured.
func NewThumbnailHandler(
	fetcher *service.Fetcher,
	packager *service.Packager,
	counter *quota.Counter,
	gw gateway.HistoryFolderGateway,
	publisher *service.EventPublisher,
) *ThumbnailHandler {
	return &ThumbnailHandler{
		fetcher:   fetcher,
		packager:  packager,
		counter:   counter,
		gw:        gw,
		publisher: publisher,
	}
}

// Resolve expands pasted URLs into their thumbnail quality ladders.
func (h *ThumbnailHandler) Resolve(c *gin.Context) {
	var req models.ResolveRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	resp := h.fetcher.ResolveMetadata(c.Request.Context(), req.URLs)

	if userID, ok := middleware.UserID(c); ok && len(resp.Results) > 0 {
		h.recordHistory(userID, resp.Results)
		h.publisher.PublishAsync(&service.DownloadEvent{
			ID:         uuid.New(),
			UserID:     userID,
			Kind:       service.EventKindResolve,
			VideoCount: len(resp.Results),
			OccurredAt: time.Now(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadImage streams one thumbnail. Without a quality parameter the
// packaging fallback chain picks the best available tier.
func (h *ThumbnailHandler) DownloadImage(c *gin.Context) {
	videoID := c.Param("videoId")
	if !youtube.IsValidVideoID(videoID) {
		handleServiceError(c, &service.ValidationError{Message: "invalid video ID"})
		return
	}

	if !h.consumeQuota(c) {
		return
	}

	img, err := h.fetchRequested(c, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if userID, ok := middleware.UserID(c); ok {
		h.recordHistory(userID, []models.ThumbnailResponse{{
			VideoID:    videoID,
			VideoTitle: youtube.PlaceholderTitle,
		}})
		h.publisher.PublishAsync(&service.DownloadEvent{
			ID:         uuid.New(),
			UserID:     userID,
			VideoID:    videoID,
			Quality:    string(img.Quality),
			Kind:       service.EventKindDownload,
			VideoCount: 1,
			OccurredAt: time.Now(),
		})
	}

	c.Header("X-Thumbnail-Quality", string(img.Quality))
	c.Data(http.StatusOK, "image/jpeg", img.Data)
}

// BuildArchive packages the valid rows of a bulk upload into one ZIP.
func (h *ThumbnailHandler) BuildArchive(c *gin.Context) {
	var req models.ArchiveRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	if !h.consumeQuota(c) {
		return
	}

	data, err := h.packager.BuildArchive(c.Request.Context(), req.Rows, func(p service.Progress) {
		logger.Log.Debug("Archive progress",
			zap.Int("current", p.Current),
			zap.Int("total", p.Total),
			zap.Int("percent", p.Percent),
		)
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if userID, ok := middleware.UserID(c); ok {
		var packaged []models.ThumbnailResponse
		for _, row := range req.Rows {
			if row.Status == models.RowStatusValid {
				packaged = append(packaged, models.ThumbnailResponse{
					VideoID:    row.VideoID,
					VideoTitle: row.Title,
				})
			}
		}
		h.recordHistory(userID, packaged)
		h.publisher.PublishAsync(&service.DownloadEvent{
			ID:         uuid.New(),
			UserID:     userID,
			Kind:       service.EventKindArchive,
			VideoCount: len(packaged),
			OccurredAt: time.Now(),
		})
	}

	c.Header("Content-Disposition", `attachment; filename="thumbnails.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}

// Save fetches one thumbnail and persists it to the user's storage along
// with a history entry. Auth required at the route level.
func (h *ThumbnailHandler) Save(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Sign in to save thumbnails")
		return
	}
	if h.gw == nil {
		sendError(c, http.StatusServiceUnavailable, "Service Unavailable", "Persistence is not configured")
		return
	}

	videoID := c.Param("videoId")
	if !youtube.IsValidVideoID(videoID) {
		handleServiceError(c, &service.ValidationError{Message: "invalid video ID"})
		return
	}

	img, err := h.fetchRequested(c, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path := fmt.Sprintf("%s/%s/%s.jpg", userID, videoID, img.Quality)
	if err := h.gw.UploadThumbnail(c.Request.Context(), userID, path, img.Data); err != nil {
		handleServiceError(c, err)
		return
	}

	// History recording is best-effort; a miss degrades to a soft warning.
	warning := ""
	if err := h.gw.InsertHistory(c.Request.Context(), []gateway.HistoryInsert{{
		UserID:     userID,
		VideoID:    videoID,
		VideoURL:   youtube.WatchURL(videoID),
		VideoTitle: c.Query("title"),
	}}); err != nil {
		logger.Log.Warn("Failed to record save history",
			zap.Error(err),
			zap.String("videoId", videoID),
		)
		warning = "saved, but history could not be recorded"
	}

	h.publisher.PublishAsync(&service.DownloadEvent{
		ID:         uuid.New(),
		UserID:     userID,
		VideoID:    videoID,
		Quality:    string(img.Quality),
		Kind:       service.EventKindSave,
		VideoCount: 1,
		OccurredAt: time.Now(),
	})

	resp := gin.H{
		"videoId": videoID,
		"quality": img.Quality,
		"path":    path,
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// Quota reports the caller's remaining guest allowance.
func (h *ThumbnailHandler) Quota(c *gin.Context) {
	_, loggedIn := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{
		"remaining": h.counter.Remaining(loggedIn),
	})
}

// fetchRequested honors an explicit quality query parameter, otherwise runs
// the fallback chain.
func (h *ThumbnailHandler) fetchRequested(c *gin.Context, videoID string) (*service.FetchedImage, error) {
	if q := c.Query("quality"); q != "" {
		return h.fetcher.FetchImage(c.Request.Context(), videoID, models.ThumbnailQuality(q))
	}
	return h.fetcher.FetchImageWithFallback(c.Request.Context(), videoID)
}

// consumeQuota enforces the guest ceiling. Returns false after writing the
// 429 response.
func (h *ThumbnailHandler) consumeQuota(c *gin.Context) bool {
	_, loggedIn := middleware.UserID(c)
	if h.counter.TryConsume(loggedIn) {
		return true
	}
	metrics.QuotaRejections.Inc()
	sendError(c, http.StatusTooManyRequests, "Too Many Requests",
		"Daily guest limit reached. Sign in for unlimited downloads.")
	return false
}

// recordHistory persists history rows off the request path. Failures are
// logged, never surfaced.
func (h *ThumbnailHandler) recordHistory(userID string, results []models.ThumbnailResponse) {
	if h.gw == nil {
		return
	}

	entries := make([]gateway.HistoryInsert, 0, len(results))
	for _, r := range results {
		entries = append(entries, gateway.HistoryInsert{
			UserID:     userID,
			VideoID:    r.VideoID,
			VideoURL:   youtube.WatchURL(r.VideoID),
			VideoTitle: r.VideoTitle,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.gw.InsertHistory(ctx, entries); err != nil {
			logger.Log.Warn("Failed to record history",
				zap.Error(err),
				zap.String("userId", userID),
				zap.Int("entries", len(entries)),
			)
		}
	}()
}
