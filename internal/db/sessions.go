package db

import (
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

func (s *pgStore) CreateSession(screenID int, userAgent string) (model.DisplaySession, error) {
	var sess model.DisplaySession
	q := `
	INSERT INTO display_sessions
	(screen_id, status, started_at, updated_at, user_agent)
	VALUES
	($1, 'open', now(), now(), $2)
	RETURNING id, screen_id, status, started_at, updated_at, closed_at, user_agent;`

	if err := s.db.Get(&sess, q, screenID, userAgent); err != nil {
		log.Error().Err(err).Msg("failed to create display session")
		return model.DisplaySession{}, err
	}
	return sess, nil
}

// TouchSession is the heartbeat write: it bumps updated_at and re-asserts
// the open status without touching any other column.
func (s *pgStore) TouchSession(id int) error {
	_, err := s.db.Exec(`
		UPDATE display_sessions
		SET updated_at = now(),
		status = 'open'
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to touch display session")
	}
	return err
}

func (s *pgStore) CloseSession(id int) error {
	_, err := s.db.Exec(`
		UPDATE display_sessions
		SET status = 'closed',
		closed_at = now(),
		updated_at = now()
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to close display session")
	}
	return err
}

func (s *pgStore) GetSessionByID(id int) (model.DisplaySession, error) {
	var sess model.DisplaySession
	err := s.db.Get(&sess, `
		SELECT id, screen_id, status, started_at, updated_at, closed_at, user_agent
		FROM display_sessions
		WHERE id = $1;`, id)
	if err != nil {
		return model.DisplaySession{}, err
	}
	return sess, nil
}

// CountActiveSessions counts open sessions updated within the liveness
// window ending at now. Stale sessions drop out of the count on their
// own; there is no cleanup job.
func (s *pgStore) CountActiveSessions(screenID int, now time.Time) (int, error) {
	threshold := now.Add(-model.LivenessWindow)
	var count int
	err := s.db.Get(&count, `
		SELECT COUNT(*)
		FROM display_sessions
		WHERE screen_id = $1
		  AND status = 'open'
		  AND updated_at >= $2;`, screenID, threshold)
	if err != nil {
		log.Error().Err(err).Msg("failed to count active display sessions")
		return 0, err
	}
	return count, nil
}
