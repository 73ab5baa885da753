package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/model"
)

// DefaultFadeDuration is the cross-fade length between items.
const DefaultFadeDuration = 500 * time.Millisecond

// Frame is what a render target draws: the current item and whether the
// view is mid fade-out.
type Frame struct {
	Item   model.MediaItem
	Index  int
	Fading bool
}

// Sequencer drives a cursor over the active media sequence. Images
// advance on a timer after their display duration, videos advance when
// the player reports end-of-media or a load error (handled identically),
// and every advance wraps past the end back to the first item. A
// single-item sequence arms no timer at all.
type Sequencer struct {
	mu       sync.Mutex
	seq      []model.MediaItem
	index    int
	fading   bool
	stopped  bool
	advTimer *time.Timer
	fadeT    *time.Timer

	fade   time.Duration
	frames chan Frame
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		fade:   DefaultFadeDuration,
		frames: make(chan Frame, 16),
	}
}

// SetFadeDuration overrides the cross-fade length. Only meaningful
// before playback starts.
func (s *Sequencer) SetFadeDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fade = d
}

// Frames is the render channel. Closed by Stop.
func (s *Sequencer) Frames() <-chan Frame {
	return s.frames
}

// SetSequence swaps in a newly resolved sequence. If the new sequence
// references the same media ids in the same order, the current position
// is preserved so a no-op schedule tick never visibly restarts playback.
// Otherwise the cursor resets to the first item.
func (s *Sequencer) SetSequence(items []model.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if sameIDs(s.seq, items) {
		s.seq = items
		return
	}

	s.cancelTimersLocked()
	s.seq = items
	s.index = 0
	s.fading = false

	if len(s.seq) == 0 {
		return
	}
	s.emitLocked()
	s.armLocked()
}

// Advance moves to the next item, used by video end-of-playback.
func (s *Sequencer) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
}

// OnMediaError is reported when an item fails to load or play. It is
// handled exactly like a natural end: skip ahead immediately.
func (s *Sequencer) OnMediaError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < len(s.seq) {
		log.Error().Str("url", s.seq[s.index].URL).Msg("media failed to load, skipping")
	}
	s.advanceLocked()
}

// Current returns the cursor position and fade state.
func (s *Sequencer) Current() (model.MediaItem, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.seq) {
		return model.MediaItem{}, 0, false
	}
	return s.seq[s.index], s.index, s.fading
}

// Stop cancels all pending timers and closes the frame channel. No
// frame is emitted after Stop returns.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancelTimersLocked()
	close(s.frames)
}

func (s *Sequencer) advanceLocked() {
	if s.stopped || len(s.seq) <= 1 || s.fading {
		return
	}

	s.cancelTimersLocked()
	s.fading = true
	s.emitLocked()

	s.fadeT = time.AfterFunc(s.fade, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped || len(s.seq) == 0 {
			return
		}
		s.index = (s.index + 1) % len(s.seq)
		s.fading = false
		s.emitLocked()
		s.armLocked()
	})
}

// armLocked schedules the auto-advance for the current item. Only image
// items get a timer; videos advance via Advance/OnMediaError. Sequences
// of one item never re-render.
func (s *Sequencer) armLocked() {
	if len(s.seq) <= 1 || s.index >= len(s.seq) {
		return
	}
	item := s.seq[s.index]
	if item.Type != model.MediaTypeImage {
		return
	}
	d := time.Duration(item.DisplayDuration()) * time.Second
	s.advTimer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.advanceLocked()
	})
}

func (s *Sequencer) cancelTimersLocked() {
	if s.advTimer != nil {
		s.advTimer.Stop()
		s.advTimer = nil
	}
	if s.fadeT != nil {
		s.fadeT.Stop()
		s.fadeT = nil
	}
}

func (s *Sequencer) emitLocked() {
	if s.index >= len(s.seq) {
		return
	}
	frame := Frame{Item: s.seq[s.index], Index: s.index, Fading: s.fading}
	select {
	case s.frames <- frame:
	default:
		// renderer is behind; dropping an intermediate frame is harmless
	}
}

func sameIDs(a, b []model.MediaItem) bool {
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
