package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Initialize logger to prevent nil pointer errors
	_ = logger.Init("error", "")
}

// fakeGateway is an in-memory HistoryFolderGateway for handler tests. It is
// not safe for concurrent use; handler tests drive it from one goroutine.
type fakeGateway struct {
	history   []models.HistoryEntry
	folders   []models.Folder
	videos    []models.FolderVideo
	uploads    map[string][]byte
	pingErr    error
	failError  error
	historyErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{uploads: make(map[string][]byte)}
}

func (f *fakeGateway) InsertHistory(_ context.Context, entries []gateway.HistoryInsert) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	if f.failError != nil {
		return f.failError
	}
	for _, e := range entries {
		f.history = append(f.history, models.HistoryEntry{
			ID:         uuid.New(),
			UserID:     e.UserID,
			VideoID:    e.VideoID,
			VideoURL:   e.VideoURL,
			VideoTitle: e.VideoTitle,
			CreatedAt:  time.Now(),
		})
	}
	return nil
}

func (f *fakeGateway) UploadThumbnail(_ context.Context, _, path string, data []byte) error {
	if f.failError != nil {
		return f.failError
	}
	f.uploads[path] = data
	return nil
}

func (f *fakeGateway) ListFolders(_ context.Context, userID string) ([]models.Folder, error) {
	if f.failError != nil {
		return nil, f.failError
	}
	var out []models.Folder
	for _, fo := range f.folders {
		if fo.UserID == userID {
			out = append(out, fo)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateFolder(_ context.Context, userID, name string, tag *string) (*models.Folder, error) {
	if f.failError != nil {
		return nil, f.failError
	}
	folder := models.Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Tag:       tag,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.folders = append(f.folders, folder)
	return &folder, nil
}

func (f *fakeGateway) UpdateFolder(_ context.Context, id uuid.UUID, userID, name string, tag *string) (*models.Folder, error) {
	if f.failError != nil {
		return nil, f.failError
	}
	for i := range f.folders {
		if f.folders[i].ID == id && f.folders[i].UserID == userID {
			f.folders[i].Name = name
			f.folders[i].Tag = tag
			f.folders[i].UpdatedAt = time.Now()
			return &f.folders[i], nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeGateway) DeleteFolder(_ context.Context, id uuid.UUID, userID string) error {
	if f.failError != nil {
		return f.failError
	}
	for i := range f.folders {
		if f.folders[i].ID == id && f.folders[i].UserID == userID {
			f.folders = append(f.folders[:i], f.folders[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f *fakeGateway) AddVideoToFolder(_ context.Context, folderID uuid.UUID, video *models.FolderVideo) error {
	if f.failError != nil {
		return f.failError
	}
	for _, v := range f.videos {
		if v.FolderID == folderID && v.VideoID == video.VideoID {
			return gateway.ErrAlreadyExists
		}
	}
	video.ID = uuid.New()
	video.CreatedAt = time.Now()
	f.videos = append(f.videos, *video)
	return nil
}

func (f *fakeGateway) ListFolderVideos(_ context.Context, folderID uuid.UUID, userID string) ([]models.FolderVideo, error) {
	if f.failError != nil {
		return nil, f.failError
	}
	var out []models.FolderVideo
	for _, v := range f.videos {
		if v.FolderID == folderID && v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeGateway) RemoveVideoFromFolder(_ context.Context, id uuid.UUID, userID string) error {
	if f.failError != nil {
		return f.failError
	}
	for i := range f.videos {
		if f.videos[i].ID == id && f.videos[i].UserID == userID {
			f.videos = append(f.videos[:i], f.videos[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f *fakeGateway) ListHistory(_ context.Context, userID string, since *time.Time) ([]models.HistoryEntry, error) {
	if f.failError != nil {
		return nil, f.failError
	}
	var out []models.HistoryEntry
	for _, e := range f.history {
		if e.UserID != userID {
			continue
		}
		if since != nil && e.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeGateway) DeleteHistoryEntry(_ context.Context, id uuid.UUID, userID string) error {
	if f.failError != nil {
		return f.failError
	}
	for i := range f.history {
		if f.history[i].ID == id && f.history[i].UserID == userID {
			f.history = append(f.history[:i], f.history[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f *fakeGateway) Ping(_ context.Context) error {
	return f.pingErr
}
