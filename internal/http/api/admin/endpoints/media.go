package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/admin/packets"
	"github.com/lumacast/lumacast/internal/model"
	"github.com/lumacast/lumacast/internal/storage"
)

type MediaController struct {
	store   db.Store
	uploads storage.Storage
}

// MediaModule mounts the media library endpoints.
func MediaModule(store db.Store, uploads storage.Storage) api.Module {
	ctl := &MediaController{store: store, uploads: uploads}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/media", ctl.listMediaItems)
		c.POST("/media", ctl.createMediaItem)
		c.POST("/media/upload", ctl.uploadMediaFile)
		c.GET("/media/:id", ctl.getMediaItem)
		c.PUT("/media/:id", ctl.updateMediaItem)
		c.DELETE("/media/:id", ctl.deleteMediaItem)
	})
}

// GET /api/admin/media
func (m *MediaController) listMediaItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := m.store.ListMediaItems(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}

	out := make([]packets.MediaItemResponse, 0, len(all))
	for _, item := range all {
		out = append(out, mapMediaItem(item))
	}
	return out, nil
}

// POST /api/admin/media
func (m *MediaController) createMediaItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateMediaItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := m.store.CreateMediaItem(req.Title, req.Type, req.URL, req.Duration, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media item"}
	}
	return mapMediaItem(item), nil
}

// POST /api/admin/media/upload
// Accepts a multipart file, stores it, and returns the URL plus the
// media type inferred from the extension, ready for a create call.
func (m *MediaController) uploadMediaFile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	url, err := m.uploads.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("media upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store file"}
	}

	return packets.UploadResponse{
		URL:  url,
		Type: storage.MediaKind(fileHeader.Filename),
	}, nil
}

// GET /api/admin/media/:id
func (m *MediaController) getMediaItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	item, err := m.store.GetMediaItemByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "media item not found"}
	}
	if item.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return mapMediaItem(item), nil
}

// PUT /api/admin/media/:id
func (m *MediaController) updateMediaItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := m.store.GetMediaItemByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "media item not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var req packets.UpdateMediaItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := m.store.UpdateMediaItem(id, req.Title, req.URL, req.Duration); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update media item"}
	}

	updated, _ := m.store.GetMediaItemByID(id)
	return mapMediaItem(updated), nil
}

// DELETE /api/admin/media/:id
// Playlists referencing the item keep their rows; the display resolver
// drops the dangling ids when it expands playlists.
func (m *MediaController) deleteMediaItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := m.store.GetMediaItemByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "media item not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := m.store.DeleteMediaItem(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete media item"}
	}
	return gin.H{"deleted": id}, nil
}
