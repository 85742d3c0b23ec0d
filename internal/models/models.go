// Package models contains the data models and DTOs for the thumbnail service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ThumbnailQuality identifies one rung of the fixed quality ladder.
type ThumbnailQuality string

// Quality ladder, highest first. Ordering defines fallback preference and
// the sort order of every thumbnail listing.
const (
	QualityMaxres  ThumbnailQuality = "maxres"
	QualitySD      ThumbnailQuality = "sd"
	QualityHQ      ThumbnailQuality = "hq"
	QualityMQ      ThumbnailQuality = "mq"
	QualityDefault ThumbnailQuality = "default"
)

// Thumbnail is one quality-tagged CDN image for a video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Thumbnail struct {
	Quality    ThumbnailQuality `json:"quality"`
	URL        string           `json:"url"`
	Dimensions string           `json:"dimensions"`
	Width      int              `json:"width,omitempty"`
	Height     int              `json:"height,omitempty"`
}

// ThumbnailResponse is the full quality ladder for one resolved video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ThumbnailResponse struct {
	VideoID    string      `json:"videoId"`
	VideoTitle string      `json:"videoTitle"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Total      int         `json:"total"`
}

// RowStatus classifies a parsed CSV row.
type RowStatus string

// RowStatus constants define the possible outcomes of parsing one row.
const (
	RowStatusValid     RowStatus = "valid"
	RowStatusInvalid   RowStatus = "invalid"
	RowStatusDuplicate RowStatus = "duplicate"
)

// ParsedCSVRow is one ingested row of a bulk upload. RowIndex is 1-based and
// accounts for a consumed header line.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ParsedCSVRow struct {
	RowIndex int       `json:"rowIndex"`
	RawURL   string    `json:"rawUrl"`
	VideoID  string    `json:"videoId,omitempty"`
	Title    string    `json:"title,omitempty"`
	Folder   string    `json:"folder,omitempty"`
	Status   RowStatus `json:"status"`
	Error    string    `json:"error,omitempty"`
}

// ParseResult summarizes one CSV ingestion.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ParseResult struct {
	RawCount          int            `json:"rawCount"`
	Rows              []ParsedCSVRow `json:"rows"`
	DuplicatesRemoved int            `json:"duplicatesRemoved"`
	ValidCount        int            `json:"validCount"`
	InvalidCount      int            `json:"invalidCount"`
}

// HistoryEntry records one successful search or download by a signed-in user.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type HistoryEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	VideoID    string    `json:"video_id"`
	VideoURL   string    `json:"video_url"`
	VideoTitle string    `json:"video_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// Folder is a user-defined grouping of saved videos.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Folder struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Tag       *string   `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FolderVideo is one video saved into a folder. Unique on (FolderID, VideoID).
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type FolderVideo struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	FolderID   uuid.UUID `json:"folder_id"`
	VideoID    string    `json:"video_id"`
	VideoURL   string    `json:"video_url"`
	VideoTitle *string   `json:"video_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResolveRequestDTO is the bulk metadata resolution request.
type ResolveRequestDTO struct {
	URLs []string `json:"urls" binding:"required,min=1,max=50"`
}

// ResolveResponseDTO is the bulk metadata resolution response. Failed is the
// number of inputs dropped because no video ID could be extracted.
type ResolveResponseDTO struct {
	Results []ThumbnailResponse `json:"results"`
	Failed  int                 `json:"failed"`
}

// ArchiveRequestDTO is the bulk ZIP packaging request.
type ArchiveRequestDTO struct {
	Rows []ParsedCSVRow `json:"rows" binding:"required,min=1"`
}

// FolderRequestDTO creates or renames a folder.
type FolderRequestDTO struct {
	Name string  `json:"name" binding:"required,max=100"`
	Tag  *string `json:"tag"`
}

// FolderVideoRequestDTO adds a video to a folder.
type FolderVideoRequestDTO struct {
	VideoID    string `json:"videoId" binding:"required,max=11"`
	VideoURL   string `json:"videoUrl" binding:"required,max=500"`
	VideoTitle string `json:"videoTitle"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
