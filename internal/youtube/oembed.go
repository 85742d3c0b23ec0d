package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// PlaceholderTitle is used whenever the title lookup fails.
const PlaceholderTitle = "Unknown Video"

// TitleClient resolves human-readable video titles through an oEmbed-style
// endpoint. All failures degrade to PlaceholderTitle; it never returns an
// error to callers.
type TitleClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTitleClient creates a TitleClient against the given oEmbed base URL.
// A nil httpClient gets a default with a sane timeout.
func NewTitleClient(baseURL string, httpClient *http.Client) *TitleClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TitleClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// LookupTitle fetches the title for a video URL, best-effort.
func (tc *TitleClient) LookupTitle(ctx context.Context, videoURL string) string {
	endpoint := tc.baseURL + "/embed?url=" + url.QueryEscape(videoURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Log.Debug("Failed to build title lookup request",
			zap.Error(err),
			zap.String("videoUrl", videoURL),
		)
		return PlaceholderTitle
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		logger.Log.Debug("Title lookup request failed",
			zap.Error(err),
			zap.String("videoUrl", videoURL),
		)
		return PlaceholderTitle
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Debug("Title lookup returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("videoUrl", videoURL),
		)
		return PlaceholderTitle
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Log.Debug("Failed to decode title lookup response",
			zap.Error(err),
			zap.String("videoUrl", videoURL),
		)
		return PlaceholderTitle
	}

	if payload.Title == "" {
		return PlaceholderTitle
	}
	return payload.Title
}
