package model

import "time"

type Playlist struct {
	ID        int            `db:"id"           json:"id"`
	Name      string         `db:"name"         json:"name"`
	CreatedBy int            `db:"created_by"   json:"created_by"`
	CreatedAt time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"   json:"updated_at"`
	Items     []PlaylistItem `db:"-"            json:"items,omitempty"`
}

// PlaylistItem is an ordered reference from a playlist to a media item.
// The referenced item may have been deleted since; dangling references
// are dropped when the playlist is resolved for display, not here.
type PlaylistItem struct {
	ID          int        `db:"id"            json:"id"`
	PlaylistID  int        `db:"playlist_id"   json:"playlist_id"`
	MediaItemID int        `db:"media_item_id" json:"media_item_id"`
	Position    int        `db:"position"      json:"position"`
	Media       *MediaItem `db:"-"             json:"media,omitempty"`
}

// MediaItemIDs returns the ordered media ids referenced by the playlist.
func (p Playlist) MediaItemIDs() []int {
	ids := make([]int, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.MediaItemID)
	}
	return ids
}
