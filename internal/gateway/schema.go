package gateway

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the persistence layout consumed by the Postgres gateway. The
// (folder_id, video_id) uniqueness is server-enforced; the client treats the
// resulting conflict as a normal outcome.
const schema = `
CREATE TABLE IF NOT EXISTS user_downloads (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	video_id    TEXT NOT NULL,
	video_url   TEXT NOT NULL,
	video_title TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_user_downloads_user_created
	ON user_downloads (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS thumbnail_objects (
	path       TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS folders (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	tag        TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_folders_user ON folders (user_id);

CREATE TABLE IF NOT EXISTS folder_videos (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	folder_id   UUID NOT NULL REFERENCES folders (id) ON DELETE CASCADE,
	video_id    TEXT NOT NULL,
	video_url   TEXT NOT NULL,
	video_title TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (folder_id, video_id)
);
`

// EnsureSchema creates the gateway tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
