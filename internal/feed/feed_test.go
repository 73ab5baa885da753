package feed

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumacast/lumacast/internal/model"
)

type fakeStore struct {
	mu        sync.Mutex
	screen    model.Screen
	screenErr error
	playlists []model.Playlist
	media     []model.MediaItem
	listErr   error
}

func (f *fakeStore) GetScreenByID(id int) (model.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.screenErr != nil {
		return model.Screen{}, f.screenErr
	}
	return f.screen, nil
}

func (f *fakeStore) ListPlaylists(ownerID int) ([]model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playlists, f.listErr
}

func (f *fakeStore) ListMediaItems(ownerID int) ([]model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media, f.listErr
}

func (f *fakeStore) set(fn func(*fakeStore)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func waitSnapshot(t *testing.T, f *DisplayFeed) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-f.Snapshots():
		require.True(t, ok, "snapshot channel closed early")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return Snapshot{}
	}
}

func TestDisplayFeed_DeliversInitialSnapshot(t *testing.T) {
	store := &fakeStore{
		screen:    model.Screen{ID: 7, Name: "lobby", CreatedBy: 1},
		playlists: []model.Playlist{{ID: 10}},
		media:     []model.MediaItem{{ID: 1}},
	}
	f := NewDisplayFeed(store, 7, time.Hour)
	f.Start()
	defer f.Cancel()

	snap := waitSnapshot(t, f)
	assert.True(t, snap.ScreenFound)
	assert.Equal(t, "lobby", snap.Screen.Name)
	assert.Len(t, snap.Playlists, 1)
	assert.Len(t, snap.Media, 1)
}

func TestDisplayFeed_MissingScreenIsReportedNotSkipped(t *testing.T) {
	store := &fakeStore{screenErr: sql.ErrNoRows}
	f := NewDisplayFeed(store, 7, time.Hour)
	f.Start()
	defer f.Cancel()

	snap := waitSnapshot(t, f)
	assert.False(t, snap.ScreenFound)
}

func TestDisplayFeed_TransientErrorDeliversNothing(t *testing.T) {
	store := &fakeStore{screenErr: errors.New("connection refused")}
	f := NewDisplayFeed(store, 7, 10*time.Millisecond)
	f.Start()
	defer f.Cancel()

	select {
	case snap := <-f.Snapshots():
		t.Fatalf("unexpected snapshot during outage: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}

	// the outage ends; the next poll delivers a full snapshot
	store.set(func(s *fakeStore) {
		s.screenErr = nil
		s.screen = model.Screen{ID: 7, CreatedBy: 1}
	})
	snap := waitSnapshot(t, f)
	assert.True(t, snap.ScreenFound)
}

func TestDisplayFeed_RefreshForcesImmediateRead(t *testing.T) {
	store := &fakeStore{screen: model.Screen{ID: 7, Name: "before"}}
	f := NewDisplayFeed(store, 7, time.Hour)
	f.Start()
	defer f.Cancel()

	waitSnapshot(t, f)

	store.set(func(s *fakeStore) { s.screen.Name = "after" })
	f.Refresh()

	snap := waitSnapshot(t, f)
	assert.Equal(t, "after", snap.Screen.Name)
}

func TestDisplayFeed_LatestSnapshotWins(t *testing.T) {
	store := &fakeStore{screen: model.Screen{ID: 7, Name: "v1"}}
	f := NewDisplayFeed(store, 7, 5*time.Millisecond)
	f.Start()
	defer f.Cancel()

	// let several polls land without consuming, then rename
	time.Sleep(30 * time.Millisecond)
	store.set(func(s *fakeStore) { s.screen.Name = "v2" })
	time.Sleep(30 * time.Millisecond)

	// an undelivered stale snapshot must have been replaced
	snap := waitSnapshot(t, f)
	assert.Equal(t, "v2", snap.Screen.Name)
}

func TestDisplayFeed_CancelIsSynchronous(t *testing.T) {
	store := &fakeStore{screen: model.Screen{ID: 7}}
	f := NewDisplayFeed(store, 7, time.Millisecond)
	f.Start()

	f.Cancel()

	// after Cancel the channel drains and closes; no new deliveries
	for range f.Snapshots() {
	}
}
