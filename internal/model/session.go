package model

import "time"

const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// LivenessWindow is how far back a session's updated_at may be for the
// session to still count as an active display. At a 15 second heartbeat
// this tolerates exactly two missed beats.
const LivenessWindow = 45 * time.Second

// DisplaySession is an ephemeral presence record for one open display
// page. It is created on display start, touched by the heartbeat, and
// closed best-effort on teardown; sessions that are never closed simply
// age out of the active count after LivenessWindow.
type DisplaySession struct {
	ID        int        `db:"id"         json:"id"`
	ScreenID  int        `db:"screen_id"  json:"screen_id"`
	Status    string     `db:"status"     json:"status"`
	StartedAt time.Time  `db:"started_at" json:"started_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	ClosedAt  *time.Time `db:"closed_at"  json:"closed_at,omitempty"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
}

// ActiveAt reports whether the session counts as a live display at the
// given instant: it must be open and have been updated within
// LivenessWindow. Closed sessions never count, however fresh.
func (s DisplaySession) ActiveAt(now time.Time) bool {
	return s.Status == SessionOpen && now.Sub(s.UpdatedAt) <= LivenessWindow
}
