package gateway

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// Postgres implements HistoryFolderGateway against the persistence database.
type Postgres struct {
	db *pgxpool.Pool
}

var _ HistoryFolderGateway = (*Postgres)(nil)

// NewPostgres creates a Postgres gateway on the provided connection pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// InsertHistory records all entries in one batch. Partial failure aborts the
// batch; callers treat any error as a soft loss.
func (g *Postgres) InsertHistory(ctx context.Context, entries []HistoryInsert) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_downloads (id, user_id, video_id, video_url, video_title)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, e := range entries {
		if _, err := g.db.Exec(ctx, query,
			uuid.New(), e.UserID, e.VideoID, e.VideoURL, e.VideoTitle,
		); err != nil {
			return wrapError(err, "insert history")
		}
	}
	return nil
}

// UploadThumbnail stores image bytes with upsert semantics, keyed by path.
func (g *Postgres) UploadThumbnail(ctx context.Context, userID, path string, data []byte) error {
	query := `
		INSERT INTO thumbnail_objects (path, user_id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	_, err := g.db.Exec(ctx, query, path, userID, data)
	return wrapError(err, "upload thumbnail")
}

func (g *Postgres) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	query := `
		SELECT id, user_id, name, tag, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := g.db.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapError(err, "list folders")
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		var tag sql.NullString
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &tag, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, wrapError(err, "list folders")
		}
		if tag.Valid {
			f.Tag = &tag.String
		}
		folders = append(folders, f)
	}
	return folders, wrapError(rows.Err(), "list folders")
}

func (g *Postgres) CreateFolder(ctx context.Context, userID, name string, tag *string) (*models.Folder, error) {
	query := `
		INSERT INTO folders (id, user_id, name, tag)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	folder := &models.Folder{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Tag:    tag,
	}
	err := g.db.QueryRow(ctx, query, folder.ID, userID, name, tag).
		Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return nil, wrapError(err, "create folder")
	}
	return folder, nil
}

func (g *Postgres) UpdateFolder(ctx context.Context, id uuid.UUID, userID, name string, tag *string) (*models.Folder, error) {
	query := `
		UPDATE folders
		SET name = $3, tag = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	folder := &models.Folder{
		ID:     id,
		UserID: userID,
		Name:   name,
		Tag:    tag,
	}
	err := g.db.QueryRow(ctx, query, id, userID, name, tag).
		Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return nil, wrapError(err, "update folder")
	}
	return folder, nil
}

func (g *Postgres) DeleteFolder(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := g.db.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError(err, "delete folder")
	}
	if tag.RowsAffected() == 0 {
		return wrapError(ErrNotFound, "delete folder")
	}
	return nil
}

func (g *Postgres) AddVideoToFolder(ctx context.Context, folderID uuid.UUID, video *models.FolderVideo) error {
	query := `
		INSERT INTO folder_videos (id, user_id, folder_id, video_id, video_url, video_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	video.ID = uuid.New()
	video.FolderID = folderID
	err := g.db.QueryRow(ctx, query,
		video.ID, video.UserID, folderID, video.VideoID, video.VideoURL, video.VideoTitle,
	).Scan(&video.CreatedAt)
	return wrapError(err, "add video to folder")
}

func (g *Postgres) ListFolderVideos(ctx context.Context, folderID uuid.UUID, userID string) ([]models.FolderVideo, error) {
	query := `
		SELECT id, user_id, folder_id, video_id, video_url, video_title, created_at
		FROM folder_videos
		WHERE folder_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := g.db.Query(ctx, query, folderID, userID)
	if err != nil {
		return nil, wrapError(err, "list folder videos")
	}
	defer rows.Close()

	var videos []models.FolderVideo
	for rows.Next() {
		var v models.FolderVideo
		var title sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.FolderID, &v.VideoID, &v.VideoURL, &title, &v.CreatedAt); err != nil {
			return nil, wrapError(err, "list folder videos")
		}
		if title.Valid {
			v.VideoTitle = &title.String
		}
		videos = append(videos, v)
	}
	return videos, wrapError(rows.Err(), "list folder videos")
}

func (g *Postgres) RemoveVideoFromFolder(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := g.db.Exec(ctx, `DELETE FROM folder_videos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError(err, "remove video from folder")
	}
	if tag.RowsAffected() == 0 {
		return wrapError(ErrNotFound, "remove video from folder")
	}
	return nil
}

func (g *Postgres) ListHistory(ctx context.Context, userID string, since *time.Time) ([]models.HistoryEntry, error) {
	query := `
		SELECT id, user_id, video_id, video_url, video_title, created_at
		FROM user_downloads
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC
	`
	rows, err := g.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, wrapError(err, "list history")
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.VideoID, &e.VideoURL, &e.VideoTitle, &e.CreatedAt); err != nil {
			return nil, wrapError(err, "list history")
		}
		entries = append(entries, e)
	}
	return entries, wrapError(rows.Err(), "list history")
}

func (g *Postgres) DeleteHistoryEntry(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := g.db.Exec(ctx, `DELETE FROM user_downloads WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError(err, "delete history entry")
	}
	if tag.RowsAffected() == 0 {
		return wrapError(ErrNotFound, "delete history entry")
	}
	return nil
}

// Ping checks database connectivity.
func (g *Postgres) Ping(ctx context.Context) error {
	return g.db.Ping(ctx)
}
