package db

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

func (s *pgStore) CreatePlaylist(name string, createdBy int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
    INSERT INTO playlists (name, created_by, created_at, updated_at)
    VALUES ($1, $2, now(), now())
    RETURNING id, name, created_by, created_at, updated_at;
    `
	if err := s.db.Get(&p, q, name, createdBy); err != nil {
		log.Error().Err(err).Msg("[db] CreatePlaylist: failed to insert playlist")
		return model.Playlist{}, err
	}
	return p, nil
}

func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT id, name, created_by, created_at, updated_at
	FROM playlists
	WHERE id = $1;`
	if err := s.db.Get(&p, q, id); err != nil {
		return model.Playlist{}, err
	}

	items, err := s.ListPlaylistItems(id)
	if err != nil {
		return p, err
	}
	p.Items = items
	return p, nil
}

func (s *pgStore) ListPlaylists(ownerID int) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT id, name, created_by, created_at, updated_at
	FROM playlists
	WHERE created_by = $1
	ORDER BY id;`
	if err := s.db.Select(&out, q, ownerID); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylists: failed to select playlists")
		return nil, err
	}

	for i := range out {
		items, err := s.ListPlaylistItems(out[i].ID)
		if err != nil {
			log.Error().Err(err).Msgf("[db] ListPlaylists: failed to load items for playlist %d", out[i].ID)
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (s *pgStore) UpdatePlaylist(id int, name *string) error {
	_, err := s.db.Exec(`
		UPDATE playlists
		SET
		name       = COALESCE($2, name),
		updated_at = now()
		WHERE id = $1;`,
		id, name,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to update playlist")
	}
	return err
}

func (s *pgStore) DeletePlaylist(id int) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete playlist")
	}
	return err
}

func (s *pgStore) AddPlaylistItem(playlistID, mediaItemID, position int) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	query := `
	INSERT INTO playlist_items
	(playlist_id, media_item_id, position)
	VALUES
	($1,          $2,            $3)
	RETURNING
	id, playlist_id, media_item_id, position;`

	if err := s.db.Get(&it, query, playlistID, mediaItemID, position); err != nil {
		log.Error().Err(err).Msg("failed to add item to playlist")
		return model.PlaylistItem{}, err
	}
	return it, nil
}

// RemovePlaylistItem deletes an item scoped to its playlist, so an id
// belonging to another playlist is never touched. Returns sql.ErrNoRows
// when nothing matched.
func (s *pgStore) RemovePlaylistItem(playlistID, itemID int) error {
	res, err := s.db.Exec(`
		DELETE FROM playlist_items
		WHERE id = $1 AND playlist_id = $2;`, itemID, playlistID)
	if err != nil {
		log.Error().Err(err).Msg("failed to remove playlist item")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	var list []model.PlaylistItem
	const query = `
    SELECT id, playlist_id, media_item_id, position
    FROM playlist_items
    WHERE playlist_id = $1
    ORDER BY position;`

	err := s.db.Select(&list, query, playlistID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list playlist items")
	}
	return list, err
}

// ListScreenIDsUsingPlaylist returns the screens with at least one
// assignment referencing the playlist, used to push refresh hints.
func (s *pgStore) ListScreenIDsUsingPlaylist(playlistID int) ([]int, error) {
	var ids []int
	err := s.db.Select(&ids, `
		SELECT DISTINCT screen_id
		FROM screen_assignments
		WHERE playlist_id = $1;`, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("failed to list screens using playlist")
		return nil, err
	}
	return ids, nil
}

// ReorderPlaylistItems rewrites positions so itemIDs defines the new
// playback order. Positions are shifted out of the way first so the
// unique (playlist_id, position) constraint never trips mid-update.
func (s *pgStore) ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return
			}
		} else {
			if cmErr := tx.Commit(); cmErr != nil {
				return
			}
		}
	}()

	count := len(itemIDs)
	if _, err = tx.Exec(`
        UPDATE playlist_items
           SET position = position + $1
         WHERE playlist_id = $2;
    `, count, playlistID); err != nil {
		return err
	}

	for idx, itemID := range itemIDs {
		newPos := idx + 1
		if _, err = tx.Exec(`
            UPDATE playlist_items
               SET position = $1
             WHERE id = $2
               AND playlist_id = $3;
        `, newPos, itemID, playlistID); err != nil {
			return err
		}
	}

	return nil
}
