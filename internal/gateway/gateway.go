// Package gateway is the boundary to the persistence service holding user
// history, folders, and stored thumbnails.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// HistoryInsert is one history row to record. The gateway assigns ID and
// timestamp.
type HistoryInsert struct {
	UserID     string
	VideoID    string
	VideoURL   string
	VideoTitle string
}

// HistoryFolderGateway is the capability set the core depends on. The batch
// and packaging logic never touches a concrete persistence client directly.
type HistoryFolderGateway interface {
	// InsertHistory records history rows; best-effort from the caller's
	// point of view (failures are logged, not surfaced as blocking errors).
	InsertHistory(ctx context.Context, entries []HistoryInsert) error

	// UploadThumbnail stores image bytes at the conventional path
	// {userId}/{videoId}/{quality}.jpg with upsert semantics.
	UploadThumbnail(ctx context.Context, userID, path string, data []byte) error

	ListFolders(ctx context.Context, userID string) ([]models.Folder, error)
	CreateFolder(ctx context.Context, userID, name string, tag *string) (*models.Folder, error)
	UpdateFolder(ctx context.Context, id uuid.UUID, userID, name string, tag *string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id uuid.UUID, userID string) error

	// AddVideoToFolder inserts a folder/video association. A second insert of
	// the same (folderID, videoID) pair returns ErrAlreadyExists, a
	// recoverable outcome, not a system error.
	AddVideoToFolder(ctx context.Context, folderID uuid.UUID, video *models.FolderVideo) error
	ListFolderVideos(ctx context.Context, folderID uuid.UUID, userID string) ([]models.FolderVideo, error)
	RemoveVideoFromFolder(ctx context.Context, id uuid.UUID, userID string) error

	// ListHistory returns entries newest-first, optionally bounded by a
	// since timestamp.
	ListHistory(ctx context.Context, userID string, since *time.Time) ([]models.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, id uuid.UUID, userID string) error

	Ping(ctx context.Context) error
}
