package db

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

func (s *pgStore) CreateScreen(name string, createdBy int) (model.Screen, error) {
	var sc model.Screen
	q := `
	INSERT INTO screens (name, created_by, created_at, updated_at)
	VALUES ($1, $2, now(), now())
	RETURNING id, name, created_by, created_at, updated_at;`
	if err := s.db.Get(&sc, q, name, createdBy); err != nil {
		log.Error().Err(err).Msg("failed to create screen")
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *pgStore) GetScreenByID(id int) (model.Screen, error) {
	var sc model.Screen
	err := s.db.Get(&sc, `
		SELECT id, name, created_by, created_at, updated_at
		FROM screens
		WHERE id = $1;`, id)
	if err != nil {
		return model.Screen{}, err
	}

	assignments, err := s.ListAssignments(id)
	if err != nil {
		return sc, err
	}
	sc.Assignments = assignments
	return sc, nil
}

func (s *pgStore) ListScreens(ownerID int) ([]model.Screen, error) {
	var screens []model.Screen
	err := s.db.Select(&screens, `
		SELECT id, name, created_by, created_at, updated_at
		FROM screens
		WHERE created_by = $1
		ORDER BY id;`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list screens")
		return nil, err
	}

	for i := range screens {
		assignments, err := s.ListAssignments(screens[i].ID)
		if err != nil {
			return nil, err
		}
		screens[i].Assignments = assignments
	}
	return screens, nil
}

func (s *pgStore) UpdateScreen(id int, name *string) error {
	_, err := s.db.Exec(`
		UPDATE screens
		SET name = COALESCE($2, name),
		updated_at = now()
		WHERE id = $1;`, id, name)
	if err != nil {
		log.Error().Err(err).Msg("failed to update screen")
	}
	return err
}

func (s *pgStore) DeleteScreen(id int) error {
	_, err := s.db.Exec(`DELETE FROM screens WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete screen")
	}
	return err
}

// ListAssignments returns the screen's assignments in list order. The
// resolver's first-match tie-break depends on this ordering.
func (s *pgStore) ListAssignments(screenID int) ([]model.Assignment, error) {
	var list []model.Assignment
	err := s.db.Select(&list, `
		SELECT id, screen_id, playlist_id, days, start_time, end_time, position
		FROM screen_assignments
		WHERE screen_id = $1
		ORDER BY position, id;`, screenID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list screen assignments")
		return nil, err
	}
	return list, nil
}

func (s *pgStore) AddAssignment(
	screenID, playlistID int, days []int64, startTime, endTime string,
) (model.Assignment, error) {
	var a model.Assignment
	q := `
	INSERT INTO screen_assignments
	(screen_id, playlist_id, days, start_time, end_time, position)
	VALUES
	($1, $2, $3, $4, $5,
	 COALESCE((SELECT MAX(position) + 1 FROM screen_assignments WHERE screen_id = $1), 1))
	RETURNING id, screen_id, playlist_id, days, start_time, end_time, position;`

	if err := s.db.Get(&a, q, screenID, playlistID, pq.Int64Array(days), startTime, endTime); err != nil {
		log.Error().Err(err).Msg("failed to add assignment to screen")
		return model.Assignment{}, err
	}
	return a, nil
}

// RemoveAssignment deletes an assignment scoped to its screen, so an id
// belonging to another screen is never touched. Returns sql.ErrNoRows
// when nothing matched.
func (s *pgStore) RemoveAssignment(screenID, assignmentID int) error {
	res, err := s.db.Exec(`
		DELETE FROM screen_assignments
		WHERE id = $1 AND screen_id = $2;`, assignmentID, screenID)
	if err != nil {
		log.Error().Err(err).Msg("failed to remove assignment")
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

// SetAssignments replaces the screen's entire assignment list, keeping
// the order of the slice as the stored position order.
func (s *pgStore) SetAssignments(screenID int, assignments []model.Assignment) error {
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

	if _, err = tx.Exec(`DELETE FROM screen_assignments WHERE screen_id = $1;`, screenID); err != nil {
		return err
	}

	for idx, a := range assignments {
		if _, err = tx.Exec(`
			INSERT INTO screen_assignments
			(screen_id, playlist_id, days, start_time, end_time, position)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			screenID, a.PlaylistID, a.Days, a.StartTime, a.EndTime, idx+1,
		); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(`UPDATE screens SET updated_at = now() WHERE id = $1;`, screenID); err != nil {
		return err
	}

	return nil
}
