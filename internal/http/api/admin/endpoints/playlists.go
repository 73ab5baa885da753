package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/admin/packets"
	"github.com/lumacast/lumacast/internal/model"
)

type PlaylistController struct {
	store    db.Store
	notifier *ScreenNotifier
}

// PlaylistModule mounts playlist CRUD and item management endpoints.
func PlaylistModule(store db.Store, notifier *ScreenNotifier) api.Module {
	ctl := &PlaylistController{store: store, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", ctl.listPlaylists)
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PUT("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)

		c.POST("/playlists/:id/items", ctl.addItem)
		c.DELETE("/playlists/:id/items/:item_id", ctl.removeItem)
		c.PUT("/playlists/:id/items", ctl.reorderItems)
	})
}

// requirePlaylist loads the playlist and checks ownership.
func (p *PlaylistController) requirePlaylist(ctx *gin.Context, user *model.User) (model.Playlist, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Playlist{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	pl, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return model.Playlist{}, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if pl.CreatedBy != user.ID {
		return model.Playlist{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return pl, nil
}

// GET /api/admin/playlists
func (p *PlaylistController) listPlaylists(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListPlaylists(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] list: could not list playlists")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlists"}
	}

	out := make([]packets.PlaylistResponse, 0, len(all))
	for _, pl := range all {
		out = append(out, mapPlaylist(pl))
	}
	return out, nil
}

// POST /api/admin/playlists
func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	pl, err := p.store.CreatePlaylist(req.Name, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] create: could not create playlist")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}
	return mapPlaylist(pl), nil
}

// GET /api/admin/playlists/:id
func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapPlaylist(pl), nil
}

// PUT /api/admin/playlists/:id
func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylist(pl.ID, req.Name); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update playlist"}
	}

	go p.notifier.PlaylistChanged(pl.ID)

	full, _ := p.store.GetPlaylistByID(pl.ID)
	return mapPlaylist(full), nil
}

// DELETE /api/admin/playlists/:id
// Assignments referencing the playlist become dangling and simply stop
// matching at resolve time.
func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	// Snapshot the affected screens before the rows go away.
	screenIDs, _ := p.store.ListScreenIDsUsingPlaylist(pl.ID)

	if err := p.store.DeletePlaylist(pl.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete playlist"}
	}

	go func() {
		for _, id := range screenIDs {
			p.notifier.ScreenChanged(id)
		}
	}()

	return gin.H{"deleted": pl.ID}, nil
}

// POST /api/admin/playlists/:id/items
func (p *PlaylistController) addItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AddPlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	media, err := p.store.GetMediaItemByID(req.MediaItemID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "media item not found"}
	}
	if media.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	position := req.Position
	if position <= 0 {
		position = len(pl.Items) + 1
	}

	item, err := p.store.AddPlaylistItem(pl.ID, req.MediaItemID, position)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add item"}
	}

	go p.notifier.PlaylistChanged(pl.ID)
	return item, nil
}

// DELETE /api/admin/playlists/:id/items/:item_id
func (p *PlaylistController) removeItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	itemID, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	// scoped to the playlist so ids in other playlists stay out of reach
	if err := p.store.RemovePlaylistItem(pl.ID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "item not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove item"}
	}

	go p.notifier.PlaylistChanged(pl.ID)
	return gin.H{"deleted": itemID}, nil
}

// PUT /api/admin/playlists/:id/items
// Replaces the playback order; the body lists every item id in the new
// order.
func (p *PlaylistController) reorderItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.requirePlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.ReorderPlaylistItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.ReorderPlaylistItems(pl.ID, req.ItemIDs); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reorder items"}
	}

	go p.notifier.PlaylistChanged(pl.ID)

	full, _ := p.store.GetPlaylistByID(pl.ID)
	return mapPlaylist(full), nil
}
