// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolvedVideos counts successfully resolved video metadata entries.
	ResolvedVideos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thumbgrab_resolved_videos_total",
		Help: "Number of video URLs successfully resolved to thumbnail metadata.",
	})

	// RejectedURLs counts inputs dropped because no video ID was extractable.
	RejectedURLs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thumbgrab_rejected_urls_total",
		Help: "Number of input URLs rejected during video ID extraction.",
	})

	// ImageFetches counts CDN image fetch attempts by quality and outcome.
	ImageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thumbgrab_image_fetches_total",
		Help: "Thumbnail CDN fetch attempts by quality tier and outcome.",
	}, []string{"quality", "outcome"})

	// ArchiveBuilds counts completed ZIP packaging runs.
	ArchiveBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thumbgrab_archive_builds_total",
		Help: "Number of ZIP archives assembled.",
	})

	// ArchiveRowFailures counts rows excluded from an archive after the full
	// fallback chain failed.
	ArchiveRowFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thumbgrab_archive_row_failures_total",
		Help: "Number of archive rows dropped because every quality tier failed.",
	})

	// QuotaRejections counts anonymous requests blocked by the guest quota.
	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thumbgrab_quota_rejections_total",
		Help: "Number of requests rejected by the guest daily quota.",
	})
)
