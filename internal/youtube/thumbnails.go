package youtube

import (
	"fmt"

	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// DefaultCDNBaseURL is the thumbnail CDN host. Overridable for tests.
const DefaultCDNBaseURL = "https://i.ytimg.com"

// QualityLadder lists every quality tier, highest first.
var QualityLadder = []models.ThumbnailQuality{
	models.QualityMaxres,
	models.QualitySD,
	models.QualityHQ,
	models.QualityMQ,
	models.QualityDefault,
}

// FallbackChain is the reduced ladder used for bulk packaging.
var FallbackChain = []models.ThumbnailQuality{
	models.QualityMaxres,
	models.QualityHQ,
	models.QualityMQ,
}

// qualitySpec maps a quality tag to its CDN filename and nominal size. The
// dimensions are what the CDN usually serves at that tier, not a guarantee.
type qualitySpec struct {
	suffix string
	width  int
	height int
}

var qualitySpecs = map[models.ThumbnailQuality]qualitySpec{
	models.QualityMaxres:  {suffix: "maxresdefault", width: 1280, height: 720},
	models.QualitySD:      {suffix: "sddefault", width: 640, height: 480},
	models.QualityHQ:      {suffix: "hqdefault", width: 480, height: 360},
	models.QualityMQ:      {suffix: "mqdefault", width: 320, height: 180},
	models.QualityDefault: {suffix: "default", width: 120, height: 90},
}

// BuildThumbnailURL returns the deterministic CDN URL for a video ID and
// quality tag. Pure string templating; existence of the image at that tier
// is only discovered by fetching it.
func BuildThumbnailURL(baseURL, videoID string, quality models.ThumbnailQuality) string {
	spec, ok := qualitySpecs[quality]
	if !ok {
		spec = qualitySpecs[models.QualityDefault]
	}
	return fmt.Sprintf("%s/vi/%s/%s.jpg", baseURL, videoID, spec.suffix)
}

// AllThumbnails expands a video ID into the full ladder, highest quality
// first.
func AllThumbnails(baseURL, videoID string) []models.Thumbnail {
	thumbnails := make([]models.Thumbnail, 0, len(QualityLadder))
	for _, q := range QualityLadder {
		spec := qualitySpecs[q]
		thumbnails = append(thumbnails, models.Thumbnail{
			Quality:    q,
			URL:        BuildThumbnailURL(baseURL, videoID, q),
			Dimensions: fmt.Sprintf("%dx%d", spec.width, spec.height),
			Width:      spec.width,
			Height:     spec.height,
		})
	}
	return thumbnails
}
