package endpoints

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/display/packets"
	"github.com/lumacast/lumacast/internal/model"
	"github.com/lumacast/lumacast/internal/redis"
	"github.com/lumacast/lumacast/internal/schedule"
)

type FeedController struct {
	store db.Store
	cache *redis.Cache
	now   func() time.Time
}

// FeedModule mounts the public display feed. No auth: a display only
// needs to know its screen id, mirroring how the public display page
// works.
func FeedModule(store db.Store, cache *redis.Cache) api.Module {
	ctl := &FeedController{store: store, cache: cache, now: time.Now}
	return api.ModuleFunc(func(c *api.Controller) {
		// raw handler: needs ETag / 304 control over the response
		c.Group.GET("/screens/:id/feed", ctl.getFeed)
	})
}

// GET /api/display/screens/:id/feed
func (f *FeedController) getFeed(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	screen, err := f.store.GetScreenByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "screen not found"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not load screen"})
		return
	}

	playlists, err := f.store.ListPlaylists(screen.CreatedBy)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not load playlists"})
		return
	}
	media, err := f.store.ListMediaItems(screen.CreatedBy)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not load media"})
		return
	}

	now := f.now()
	sequence := schedule.Resolve(screen.Assignments, playlists, media, now)

	etag := sequenceETag(screen.ID, sequence)
	if match := ctx.GetHeader("If-None-Match"); match != "" && match == etag {
		ctx.Status(http.StatusNotModified)
		return
	}
	ctx.Header("ETag", etag)
	if f.cache != nil {
		f.cache.SetFeedETag(ctx.Request.Context(), screen.ID, etag)
	}

	items := make([]packets.FeedItemResponse, 0, len(sequence))
	for _, m := range sequence {
		items = append(items, packets.FeedItemResponse{
			ID:       m.ID,
			Title:    m.Title,
			Type:     m.Type,
			URL:      m.URL,
			Duration: m.DisplayDuration(),
		})
	}

	log.Debug().Int("screen_id", screen.ID).Int("items", len(items)).Msg("display feed resolved")

	ctx.JSON(http.StatusOK, packets.FeedResponse{
		ScreenID:   screen.ID,
		ScreenName: screen.Name,
		ResolvedAt: now.Format(time.RFC3339),
		Items:      items,
	})
}

// sequenceETag derives a weak validator from the ordered media ids, the
// same identity the schedule poller uses for change detection.
func sequenceETag(screenID int, sequence []model.MediaItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", screenID)
	for _, m := range sequence {
		fmt.Fprintf(&b, "%d,", m.ID)
	}
	sum := sha1.Sum([]byte(b.String()))
	return fmt.Sprintf(`W/"%x"`, sum)
}
