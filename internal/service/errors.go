package service

import (
	"fmt"

	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// ValidationError represents a rejected input (malformed request, bad file
// type, oversized upload). It maps to a 4xx response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProcessingError represents a failure inside the service while handling an
// otherwise valid request.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// FetchFailedError reports an upstream thumbnail fetch miss: one explicit
// quality tier, or the whole fallback chain when Quality is empty. It is a
// per-item outcome, never fatal to a batch.
type FetchFailedError struct {
	VideoID string
	Quality models.ThumbnailQuality
}

func (e *FetchFailedError) Error() string {
	if e.Quality != "" {
		return fmt.Sprintf("thumbnail quality %s failed for video %s", e.Quality, e.VideoID)
	}
	return fmt.Sprintf("all thumbnail qualities failed for video %s", e.VideoID)
}
