package schedule

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/lumacast/lumacast/internal/model"
)

func mediaFixture() []model.MediaItem {
	return []model.MediaItem{
		{ID: 1, Title: "poster", Type: model.MediaTypeImage, URL: "/m/1.png"},
		{ID: 2, Title: "promo", Type: model.MediaTypeVideo, URL: "/m/2.mp4"},
		{ID: 3, Title: "menu", Type: model.MediaTypeImage, URL: "/m/3.png"},
	}
}

func playlistWith(id int, mediaIDs ...int) model.Playlist {
	p := model.Playlist{ID: id, Name: "playlist"}
	for i, mid := range mediaIDs {
		p.Items = append(p.Items, model.PlaylistItem{
			ID:          id*100 + i,
			PlaylistID:  id,
			MediaItemID: mid,
			Position:    i,
		})
	}
	return p
}

func assignment(playlistID int, days []int64, start, end string) model.Assignment {
	return model.Assignment{
		PlaylistID: playlistID,
		Days:       pq.Int64Array(days),
		StartTime:  start,
		EndTime:    end,
	}
}

// at builds an instant on a fixed week where 2026-08-23 is a Sunday, so
// weekday N lands on August 23+N.
func at(weekday int, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-08-23 "+clock)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, weekday)
}

func TestResolve_MatchesDayAndWindow(t *testing.T) {
	playlists := []model.Playlist{playlistWith(10, 1, 2)}
	assignments := []model.Assignment{
		assignment(10, []int64{1, 2, 3}, "09:00", "17:00"),
	}

	got := Resolve(assignments, playlists, mediaFixture(), at(2, "12:30"))

	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestResolve_WindowIsHalfOpen(t *testing.T) {
	playlists := []model.Playlist{playlistWith(10, 1)}
	assignments := []model.Assignment{
		assignment(10, []int64{1}, "09:00", "17:00"),
	}

	cases := []struct {
		name  string
		clock string
		want  int
	}{
		{"exactly at start", "09:00", 1},
		{"one minute before end", "16:59", 1},
		{"exactly at end", "17:00", 0},
		{"before start", "08:59", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(assignments, playlists, mediaFixture(), at(1, tc.clock))
			assert.Len(t, got, tc.want)
		})
	}
}

func TestResolve_WrongWeekdayDoesNotMatch(t *testing.T) {
	playlists := []model.Playlist{playlistWith(10, 1)}
	// Monday only
	assignments := []model.Assignment{
		assignment(10, []int64{1}, "00:00", "23:59"),
	}

	assert.Len(t, Resolve(assignments, playlists, mediaFixture(), at(1, "12:00")), 1)
	assert.Empty(t, Resolve(assignments, playlists, mediaFixture(), at(2, "12:00")))
}

func TestResolve_FirstMatchingAssignmentWins(t *testing.T) {
	playlists := []model.Playlist{
		playlistWith(10, 1),
		playlistWith(20, 2),
	}
	// both cover Monday noon; list order decides
	assignments := []model.Assignment{
		assignment(10, []int64{1}, "09:00", "17:00"),
		assignment(20, []int64{1}, "08:00", "18:00"),
	}

	got := Resolve(assignments, playlists, mediaFixture(), at(1, "12:00"))
	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestResolve_DanglingPlaylistFallsThrough(t *testing.T) {
	// first assignment points at a deleted playlist; the later, also
	// matching assignment must win instead
	playlists := []model.Playlist{playlistWith(20, 2)}
	assignments := []model.Assignment{
		assignment(99, []int64{1}, "09:00", "17:00"),
		assignment(20, []int64{1}, "09:00", "17:00"),
	}

	got := Resolve(assignments, playlists, mediaFixture(), at(1, "12:00"))
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestResolve_DanglingMediaDroppedFromSequence(t *testing.T) {
	// id 42 no longer exists; the rest keeps playlist order
	playlists := []model.Playlist{playlistWith(10, 1, 42, 3)}
	assignments := []model.Assignment{
		assignment(10, []int64{1}, "09:00", "17:00"),
	}

	got := Resolve(assignments, playlists, mediaFixture(), at(1, "12:00"))
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestResolve_MatchingEmptyPlaylistDoesNotFallThrough(t *testing.T) {
	// the first assignment's playlist exists but is empty; it still wins
	// the time match, so the screen goes dark rather than fall through
	playlists := []model.Playlist{
		playlistWith(10),
		playlistWith(20, 2),
	}
	assignments := []model.Assignment{
		assignment(10, []int64{1}, "09:00", "17:00"),
		assignment(20, []int64{1}, "09:00", "17:00"),
	}

	assert.Empty(t, Resolve(assignments, playlists, mediaFixture(), at(1, "12:00")))
}

func TestResolve_NoAssignments(t *testing.T) {
	assert.Empty(t, Resolve(nil, nil, mediaFixture(), at(1, "12:00")))
}

func TestClock_ZeroPads(t *testing.T) {
	assert.Equal(t, "08:05", Clock(at(1, "08:05")))
	assert.Equal(t, "00:00", Clock(at(1, "00:00")))
}

func TestSameSequence(t *testing.T) {
	a := []model.MediaItem{{ID: 1}, {ID: 2}}

	assert.True(t, SameSequence(a, []model.MediaItem{{ID: 1}, {ID: 2}}))
	assert.True(t, SameSequence(nil, nil))
	assert.False(t, SameSequence(a, []model.MediaItem{{ID: 2}, {ID: 1}}))
	assert.False(t, SameSequence(a, []model.MediaItem{{ID: 1}}))
	assert.False(t, SameSequence(a, nil))
}
