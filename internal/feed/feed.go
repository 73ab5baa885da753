package feed

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

// DefaultInterval is how often the feed re-reads its backing queries.
const DefaultInterval = 30 * time.Second

// Store is the slice of the database layer a display feed reads from.
type Store interface {
	GetScreenByID(id int) (model.Screen, error)
	ListPlaylists(ownerID int) ([]model.Playlist, error)
	ListMediaItems(ownerID int) ([]model.MediaItem, error)
}

// Snapshot is one consistent read of everything a display needs: the
// screen document plus the owner's playlists and media items. A snapshot
// is only delivered once all three reads have succeeded, so consumers
// never see a partially loaded state.
type Snapshot struct {
	Screen      model.Screen
	ScreenFound bool
	Playlists   []model.Playlist
	Media       []model.MediaItem
}

// DisplayFeed is the poll-based replacement for the live document
// queries the display view consumes. It periodically reads the screen,
// playlist and media state and pushes snapshots to a channel. Cancel is
// synchronous: once it returns, no further snapshot is delivered.
type DisplayFeed struct {
	store    Store
	screenID int
	interval time.Duration

	out     chan Snapshot
	refresh chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewDisplayFeed(store Store, screenID int, interval time.Duration) *DisplayFeed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &DisplayFeed{
		store:    store,
		screenID: screenID,
		interval: interval,
		out:      make(chan Snapshot, 1),
		refresh:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Snapshots is the delivery channel. It is closed after Cancel returns.
func (f *DisplayFeed) Snapshots() <-chan Snapshot {
	return f.out
}

// Start begins polling. The first snapshot is attempted immediately.
func (f *DisplayFeed) Start() {
	f.wg.Add(1)
	go f.run()
}

// Refresh requests an immediate re-read ahead of the next tick, e.g.
// when a broker push says the screen's content changed. It never blocks.
func (f *DisplayFeed) Refresh() {
	select {
	case f.refresh <- struct{}{}:
	default:
	}
}

// Cancel stops the feed and waits for the polling goroutine to exit, so
// callers are guaranteed no delivery happens afterwards.
func (f *DisplayFeed) Cancel() {
	close(f.stop)
	f.wg.Wait()
	close(f.out)
}

func (f *DisplayFeed) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.poll()
	for {
		select {
		case <-f.stop:
			return
		case <-f.refresh:
			f.poll()
		case <-ticker.C:
			f.poll()
		}
	}
}

// poll reads the three queries and delivers a snapshot. Transient read
// errors are logged and the snapshot is skipped; the consumer just keeps
// whatever state it had, which renders as a loading or stale view.
func (f *DisplayFeed) poll() {
	screen, err := f.store.GetScreenByID(f.screenID)
	if errors.Is(err, sql.ErrNoRows) {
		f.deliver(Snapshot{ScreenFound: false})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("screen_id", f.screenID).Msg("display feed: screen read failed")
		return
	}

	playlists, err := f.store.ListPlaylists(screen.CreatedBy)
	if err != nil {
		log.Error().Err(err).Int("screen_id", f.screenID).Msg("display feed: playlist read failed")
		return
	}

	media, err := f.store.ListMediaItems(screen.CreatedBy)
	if err != nil {
		log.Error().Err(err).Int("screen_id", f.screenID).Msg("display feed: media read failed")
		return
	}

	f.deliver(Snapshot{
		Screen:      screen,
		ScreenFound: true,
		Playlists:   playlists,
		Media:       media,
	})
}

func (f *DisplayFeed) deliver(snap Snapshot) {
	// Only the latest snapshot matters; drop a stale undelivered one.
	select {
	case <-f.out:
	default:
	}
	select {
	case f.out <- snap:
	case <-f.stop:
	}
}
