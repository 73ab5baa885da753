package schedule

import (
	"time"

	"github.com/lumacast/lumacast/internal/model"
)

// Clock formats an instant as the zero-padded "HH:MM" string used in
// assignment windows.
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// Resolve selects the media sequence that should be on a screen at the
// given instant.
//
// Assignments whose playlist no longer exists contribute nothing and are
// skipped. Among the rest, the first one in list order whose weekday set
// contains the instant's weekday and whose [start, end) window contains
// the instant's clock time wins; overlapping windows are not
// disambiguated any further. The winner's playlist is expanded into
// media items in playlist order, dropping ids that resolve to nothing
// (deleted media). No match, or a winner that expands to nothing, both
// yield an empty sequence.
func Resolve(
	assignments []model.Assignment,
	playlists []model.Playlist,
	media []model.MediaItem,
	now time.Time,
) []model.MediaItem {
	playlistsByID := make(map[int]model.Playlist, len(playlists))
	for _, p := range playlists {
		playlistsByID[p.ID] = p
	}
	mediaByID := make(map[int]model.MediaItem, len(media))
	for _, m := range media {
		mediaByID[m.ID] = m
	}

	day := now.Weekday()
	clock := Clock(now)

	for _, a := range assignments {
		playlist, ok := playlistsByID[a.PlaylistID]
		if !ok {
			continue
		}
		if !a.MatchesDay(day) || !a.MatchesClock(clock) {
			continue
		}

		out := make([]model.MediaItem, 0, len(playlist.Items))
		for _, id := range playlist.MediaItemIDs() {
			if m, ok := mediaByID[id]; ok {
				out = append(out, m)
			}
		}
		return out
	}

	return nil
}

// SameSequence reports whether two sequences reference the same media
// ids in the same order. The poller uses this to decide whether a
// re-resolution actually changed anything; identical sequences must not
// restart playback.
func SameSequence(a, b []model.MediaItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
