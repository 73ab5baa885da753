package schedule

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/feed"
	"github.com/lumacast/lumacast/internal/model"
)

// DefaultPollInterval is how often the active assignment is re-checked
// against the wall clock. A schedule boundary is therefore detected up
// to one interval late; this matches the polling nature of the system.
const DefaultPollInterval = 30 * time.Second

// Resolution is one poller output: the sequence that should be playing
// now. ScreenFound is false when the screen document no longer exists,
// which is a terminal "screen not found" state for the display.
type Resolution struct {
	Screen      model.Screen
	ScreenFound bool
	Sequence    []model.MediaItem
}

// Poller re-resolves the active sequence whenever the display feed
// delivers new data and on a fixed wall-clock interval, so time crossing
// into a new window is noticed even when nothing in the database
// changed. It emits only when the resolved id sequence (or the screen's
// existence) actually changes, so no-op ticks never restart playback
// downstream.
type Poller struct {
	snapshots <-chan feed.Snapshot
	interval  time.Duration
	now       func() time.Time

	out  chan Resolution
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewPoller(snapshots <-chan feed.Snapshot, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		snapshots: snapshots,
		interval:  interval,
		now:       time.Now,
		out:       make(chan Resolution, 1),
		stop:      make(chan struct{}),
	}
}

// Resolutions is the output channel. Closed after Stop returns.
func (p *Poller) Resolutions() <-chan Resolution {
	return p.out
}

func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop shuts the poller down and waits for its goroutine; nothing is
// emitted afterwards.
func (p *Poller) Stop() {
	close(p.stop)
	p.wg.Wait()
	close(p.out)
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		snap    feed.Snapshot
		haveAny bool
		last    Resolution
		emitted bool
	)

	for {
		select {
		case <-p.stop:
			return
		case s, ok := <-p.snapshots:
			if !ok {
				return
			}
			snap = s
			haveAny = true
		case <-ticker.C:
			// fall through to re-resolve against the current clock
		}

		// Defer until the feed has delivered at least once.
		if !haveAny {
			continue
		}

		res := Resolution{
			Screen:      snap.Screen,
			ScreenFound: snap.ScreenFound,
		}
		if snap.ScreenFound {
			res.Sequence = Resolve(snap.Screen.Assignments, snap.Playlists, snap.Media, p.now())
		}

		if emitted && res.ScreenFound == last.ScreenFound && SameSequence(res.Sequence, last.Sequence) {
			continue
		}

		log.Debug().
			Int("screen_id", snap.Screen.ID).
			Int("items", len(res.Sequence)).
			Msg("active sequence changed")

		select {
		case p.out <- res:
			last = res
			emitted = true
		case <-p.stop:
			return
		}
	}
}
