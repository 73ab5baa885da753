package db

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

func (s *pgStore) CreateMediaItem(
	title, mediaType, url string, duration *int, createdBy int,
) (model.MediaItem, error) {
	var m model.MediaItem
	query := `
	INSERT INTO media_items
	(title, type, url, duration, created_by, created_at)
	VALUES
	($1,    $2,   $3,  $4,       $5,         now())
	RETURNING
	id, title, type, url, duration, created_by, created_at;`

	if err := s.db.Get(&m, query,
		title,
		mediaType,
		url,
		duration,
		createdBy,
	); err != nil {
		log.Error().Err(err).Msg("failed to create media item")
		return model.MediaItem{}, err
	}
	return m, nil
}

func (s *pgStore) GetMediaItemByID(id int) (model.MediaItem, error) {
	var m model.MediaItem
	query := `
	SELECT id, title, type, url, duration, created_by, created_at
	FROM media_items
	WHERE id = $1;`

	err := s.db.Get(&m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MediaItem{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get media item by id")
	}
	return m, err
}

func (s *pgStore) ListMediaItems(ownerID int) ([]model.MediaItem, error) {
	var all []model.MediaItem
	query := `
	SELECT id, title, type, url, duration, created_by, created_at
	FROM media_items
	WHERE created_by = $1
	ORDER BY id;`

	if err := s.db.Select(&all, query, ownerID); err != nil {
		log.Error().Err(err).Msg("failed to list media items")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) UpdateMediaItem(id int, title, url *string, duration *int) error {
	_, err := s.db.Exec(`
		UPDATE media_items
		SET
		title    = COALESCE($2, title),
		url      = COALESCE($3, url),
		duration = COALESCE($4, duration)
		WHERE id = $1;`,
		id, title, url, duration,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to update media item")
	}
	return err
}

// DeleteMediaItem removes the item only. Playlist rows that still point
// at it become dangling references and are dropped at resolve time.
func (s *pgStore) DeleteMediaItem(id int) error {
	_, err := s.db.Exec(`DELETE FROM media_items WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete media item")
	}
	return err
}
