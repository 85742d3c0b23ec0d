package youtube

import (
	"strings"
	"testing"

	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

func TestBuildThumbnailURL(t *testing.T) {
	tests := []struct {
		quality models.ThumbnailQuality
		want    string
	}{
		{models.QualityMaxres, "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		{models.QualitySD, "https://i.ytimg.com/vi/dQw4w9WgXcQ/sddefault.jpg"},
		{models.QualityHQ, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		{models.QualityMQ, "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg"},
		{models.QualityDefault, "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg"},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			got := BuildThumbnailURL(DefaultCDNBaseURL, testID, tt.quality)
			if got != tt.want {
				t.Errorf("BuildThumbnailURL() = %q, want %q", got, tt.want)
			}
			// Pure and deterministic.
			if again := BuildThumbnailURL(DefaultCDNBaseURL, testID, tt.quality); again != got {
				t.Errorf("BuildThumbnailURL() not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestBuildThumbnailURLUnknownQualityFallsBack(t *testing.T) {
	got := BuildThumbnailURL(DefaultCDNBaseURL, testID, models.ThumbnailQuality("4k"))
	want := "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg"
	if got != want {
		t.Errorf("BuildThumbnailURL(unknown) = %q, want %q", got, want)
	}
}

func TestAllThumbnails(t *testing.T) {
	thumbs := AllThumbnails(DefaultCDNBaseURL, testID)

	if len(thumbs) != 5 {
		t.Fatalf("AllThumbnails() returned %d entries, want 5", len(thumbs))
	}

	wantOrder := []models.ThumbnailQuality{
		models.QualityMaxres, models.QualitySD, models.QualityHQ,
		models.QualityMQ, models.QualityDefault,
	}
	for i, q := range wantOrder {
		if thumbs[i].Quality != q {
			t.Errorf("thumbs[%d].Quality = %s, want %s", i, thumbs[i].Quality, q)
		}
	}

	// Every entry shares the host and ID segment and differs only in suffix.
	for _, th := range thumbs {
		if !strings.HasPrefix(th.URL, "https://i.ytimg.com/vi/"+testID+"/") {
			t.Errorf("URL %q does not share the common host/ID prefix", th.URL)
		}
		if th.Dimensions == "" || th.Width == 0 || th.Height == 0 {
			t.Errorf("thumbnail %s missing nominal dimensions", th.Quality)
		}
	}

	if thumbs[0].Width != 1280 || thumbs[0].Height != 720 {
		t.Errorf("maxres dimensions = %dx%d, want 1280x720", thumbs[0].Width, thumbs[0].Height)
	}
}
