package model

import "time"

// DefaultImageDuration is how long an image stays on screen when the
// item does not carry its own duration, in seconds.
const DefaultImageDuration = 5

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type MediaItem struct {
	ID        int       `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Type      string    `db:"type"       json:"type"`
	URL       string    `db:"url"        json:"url"`
	Duration  *int      `db:"duration"   json:"duration,omitempty"`
	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayDuration returns the number of seconds an image item should be
// shown. Only meaningful for image items; videos run to their natural end.
func (m MediaItem) DisplayDuration() int {
	if m.Duration != nil && *m.Duration > 0 {
		return *m.Duration
	}
	return DefaultImageDuration
}
