package model

import (
	"time"

	"github.com/lib/pq"
)

// Screen represents a display target with a weekly schedule of playlist
// assignments.
type Screen struct {
	ID          int          `db:"id"         json:"id"`
	Name        string       `db:"name"       json:"name"`
	CreatedBy   int          `db:"created_by" json:"created_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	Assignments []Assignment `db:"-"          json:"assignments,omitempty"`
}

// Assignment ties a playlist to a screen for a set of weekdays within a
// daily time window. Days use 0=Sunday..6=Saturday. StartTime and EndTime
// are zero-padded "HH:MM" strings; the window is half-open [start, end),
// so an instant exactly at EndTime is not inside it. Overnight windows
// (start >= end) are rejected at the API boundary.
type Assignment struct {
	ID         int           `db:"id"          json:"id"`
	ScreenID   int           `db:"screen_id"   json:"screen_id"`
	PlaylistID int           `db:"playlist_id" json:"playlist_id"`
	Days       pq.Int64Array `db:"days"        json:"days"`
	StartTime  string        `db:"start_time"  json:"start_time"`
	EndTime    string        `db:"end_time"    json:"end_time"`
	Position   int           `db:"position"    json:"position"`
}

// MatchesDay reports whether the assignment covers the given weekday.
func (a Assignment) MatchesDay(day time.Weekday) bool {
	for _, d := range a.Days {
		if int(d) == int(day) {
			return true
		}
	}
	return false
}

// MatchesClock reports whether an "HH:MM" clock value falls inside the
// assignment's window. Zero-padded 24-hour strings compare correctly
// lexicographically, which is exactly how the window is defined.
func (a Assignment) MatchesClock(clock string) bool {
	return clock >= a.StartTime && clock < a.EndTime
}
