package endpoints

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/mqtt"
	"github.com/lumacast/lumacast/internal/redis"
)

// ScreenNotifier fans a content change out to the displays it affects:
// the cached feed ETag is dropped so the next poll returns fresh data,
// and a broker refresh hint is published so players re-pull early.
// Either backend may be absent (nil) in tests; notification is always
// best-effort and never fails the originating request.
type ScreenNotifier struct {
	store  db.Store
	cache  *redis.Cache
	broker *mqtt.Client
}

func NewScreenNotifier(store db.Store, cache *redis.Cache, broker *mqtt.Client) *ScreenNotifier {
	return &ScreenNotifier{store: store, cache: cache, broker: broker}
}

// PlaylistChanged notifies every screen with an assignment referencing
// the playlist.
func (n *ScreenNotifier) PlaylistChanged(playlistID int) {
	screenIDs, err := n.store.ListScreenIDsUsingPlaylist(playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("could not resolve screens for playlist change")
		return
	}
	for _, id := range screenIDs {
		n.ScreenChanged(id)
	}
}

// ScreenChanged notifies a single screen.
func (n *ScreenNotifier) ScreenChanged(screenID int) {
	if n.cache != nil {
		n.cache.InvalidateFeed(context.Background(), screenID)
	}
	if n.broker != nil {
		if err := n.broker.PublishScreenRefresh(screenID); err != nil {
			log.Warn().Err(err).Int("screen_id", screenID).Msg("refresh publish failed")
		}
	}
}
