package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/display/packets"
)

type SessionController struct {
	store db.Store
}

// SessionModule mounts the presence endpoints a display drives: create
// on mount, heartbeat while open, close on teardown. Closing is
// best-effort by design; a display that dies mid-session just ages out
// of the active count.
func SessionModule(store db.Store) api.Module {
	ctl := &SessionController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/screens/:id/sessions", ctl.createSession)
		c.PUBLIC_PUT("/sessions/:id/heartbeat", ctl.heartbeat)
		c.PUBLIC_DELETE("/sessions/:id", ctl.closeSession)
	})
}

// POST /api/display/screens/:id/sessions
func (s *SessionController) createSession(ctx *gin.Context) (any, *api.APIError) {
	screenID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := s.store.GetScreenByID(screenID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load screen"}
	}

	sess, err := s.store.CreateSession(screenID, ctx.GetHeader("User-Agent"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create session"}
	}

	return packets.SessionResponse{
		ID:        sess.ID,
		ScreenID:  sess.ScreenID,
		Status:    sess.Status,
		StartedAt: sess.StartedAt.Format(time.RFC3339),
		UpdatedAt: sess.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// PUT /api/display/sessions/:id/heartbeat
func (s *SessionController) heartbeat(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := s.store.GetSessionByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "session not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load session"}
	}

	if err := s.store.TouchSession(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update session"}
	}
	return gin.H{"ok": true}, nil
}

// DELETE /api/display/sessions/:id
func (s *SessionController) closeSession(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if err := s.store.CloseSession(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not close session"}
	}
	return gin.H{"ok": true}, nil
}
