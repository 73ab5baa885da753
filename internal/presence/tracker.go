package presence

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

// DefaultHeartbeatInterval is how often an open display refreshes its
// session. The 45 second liveness window tolerates exactly two missed
// beats before the display drops out of the active count.
const DefaultHeartbeatInterval = 15 * time.Second

// Store is the slice of the database layer the tracker writes through.
type Store interface {
	CreateSession(screenID int, userAgent string) (model.DisplaySession, error)
	TouchSession(id int) error
	CloseSession(id int) error
}

// Tracker announces "this display is alive" for one open display
// instance. Start creates the session record, then a heartbeat loop
// refreshes it; Stop makes a single best-effort close write. Heartbeat
// and close failures are logged and dropped without retry: a session
// that stops being refreshed simply ages out of the active count.
type Tracker struct {
	store     Store
	screenID  int
	userAgent string
	interval  time.Duration

	sessionID int
	started   bool
	stopOnce  sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewTracker(store Store, screenID int, userAgent string, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Tracker{
		store:     store,
		screenID:  screenID,
		userAgent: userAgent,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

// Start creates the session record and begins the heartbeat loop.
func (t *Tracker) Start() error {
	sess, err := t.store.CreateSession(t.screenID, t.userAgent)
	if err != nil {
		return err
	}
	t.sessionID = sess.ID
	t.started = true

	t.wg.Add(1)
	go t.run()
	return nil
}

// SessionID returns the id of the session created by Start.
func (t *Tracker) SessionID() int {
	return t.sessionID
}

// Stop halts the heartbeat and closes the session best-effort. It is
// fire-and-forget: if the close write fails the session stays open with
// a stale updated_at and falls out of the active count within the
// liveness window. Safe to call more than once; only the first call
// closes the session.
func (t *Tracker) Stop() {
	if !t.started {
		return
	}
	t.stopOnce.Do(func() {
		close(t.stop)
		t.wg.Wait()

		if err := t.store.CloseSession(t.sessionID); err != nil {
			log.Error().Err(err).Int("session_id", t.sessionID).Msg("failed to close display session")
		}
	})
}

func (t *Tracker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if err := t.store.TouchSession(t.sessionID); err != nil {
				log.Error().Err(err).Int("session_id", t.sessionID).Msg("heartbeat write failed")
			}
		}
	}
}
