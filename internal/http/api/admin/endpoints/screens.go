package endpoints

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/admin/packets"
	"github.com/lumacast/lumacast/internal/model"
	"github.com/lumacast/lumacast/internal/redis"
)

// activeCountTTL is how long a liveness count may be served from cache.
const activeCountTTL = 10 * time.Second

var clockRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ScreenController struct {
	store    db.Store
	cache    *redis.Cache
	notifier *ScreenNotifier
}

// ScreenModule mounts screen CRUD, schedule assignment, and liveness
// endpoints.
func ScreenModule(store db.Store, cache *redis.Cache, notifier *ScreenNotifier) api.Module {
	ctl := &ScreenController{store: store, cache: cache, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens", ctl.listScreens)
		c.POST("/screens", ctl.createScreen)
		c.GET("/screens/:id", ctl.getScreen)
		c.PUT("/screens/:id", ctl.updateScreen)
		c.DELETE("/screens/:id", ctl.deleteScreen)

		c.PUT("/screens/:id/assignments", ctl.setAssignments)
		c.POST("/screens/:id/assignments", ctl.addAssignment)
		c.DELETE("/screens/:id/assignments/:assignment_id", ctl.removeAssignment)

		c.GET("/screens/:id/active_displays", ctl.activeDisplays)
	})
}

func (t *ScreenController) requireScreen(ctx *gin.Context, user *model.User) (model.Screen, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Screen{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	s, err := t.store.GetScreenByID(id)
	if err != nil {
		return model.Screen{}, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	if s.CreatedBy != user.ID {
		return model.Screen{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return s, nil
}

// validateAssignment enforces the schedule window invariants: real
// playlist owned by the caller, weekday numbers in 0..6, well-formed
// zero-padded HH:MM times, and start strictly before end (windows never
// span midnight).
func (t *ScreenController) validateAssignment(req packets.AssignmentRequest, user *model.User) *api.APIError {
	pl, err := t.store.GetPlaylistByID(req.PlaylistID)
	if err != nil {
		return &api.APIError{Code: http.StatusBadRequest, Message: "playlist not found"}
	}
	if pl.CreatedBy != user.ID {
		return &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	for _, d := range req.Days {
		if d < 0 || d > 6 {
			return &api.APIError{Code: http.StatusBadRequest, Message: "days must be in 0..6"}
		}
	}
	if !clockRE.MatchString(req.StartTime) || !clockRE.MatchString(req.EndTime) {
		return &api.APIError{Code: http.StatusBadRequest, Message: "times must be HH:MM"}
	}
	if req.StartTime >= req.EndTime {
		return &api.APIError{Code: http.StatusBadRequest, Message: "start_time must be before end_time"}
	}
	return nil
}

// GET /api/admin/screens
func (t *ScreenController) listScreens(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListScreens(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list screens"}
	}

	out := make([]packets.ScreenResponse, 0, len(all))
	for _, s := range all {
		out = append(out, mapScreen(s))
	}
	return out, nil
}

// POST /api/admin/screens
func (t *ScreenController) createScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateScreenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.CreateScreen(req.Name, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create screen"}
	}
	return mapScreen(screen), nil
}

// GET /api/admin/screens/:id
func (t *ScreenController) getScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapScreen(s), nil
}

// PUT /api/admin/screens/:id
func (t *ScreenController) updateScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateScreenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateScreen(s.ID, req.Name); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}

	updated, _ := t.store.GetScreenByID(s.ID)
	return mapScreen(updated), nil
}

// DELETE /api/admin/screens/:id
func (t *ScreenController) deleteScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := t.store.DeleteScreen(s.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete screen"}
	}
	return gin.H{"deleted": s.ID}, nil
}

// PUT /api/admin/screens/:id/assignments
// Replaces the whole schedule. Body order becomes list order, which is
// also the resolver's tie-break for overlapping windows.
func (t *ScreenController) setAssignments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.SetAssignmentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	assignments := make([]model.Assignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		if apiErr := t.validateAssignment(a, user); apiErr != nil {
			return nil, apiErr
		}
		assignments = append(assignments, model.Assignment{
			ScreenID:   s.ID,
			PlaylistID: a.PlaylistID,
			Days:       a.Days,
			StartTime:  a.StartTime,
			EndTime:    a.EndTime,
		})
	}

	if err := t.store.SetAssignments(s.ID, assignments); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save assignments"}
	}

	go t.notifier.ScreenChanged(s.ID)

	updated, _ := t.store.GetScreenByID(s.ID)
	return mapScreen(updated), nil
}

// POST /api/admin/screens/:id/assignments
func (t *ScreenController) addAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if apiErr := t.validateAssignment(req, user); apiErr != nil {
		return nil, apiErr
	}

	a, err := t.store.AddAssignment(s.ID, req.PlaylistID, req.Days, req.StartTime, req.EndTime)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add assignment"}
	}

	go t.notifier.ScreenChanged(s.ID)
	return mapAssignment(a), nil
}

// DELETE /api/admin/screens/:id/assignments/:assignment_id
func (t *ScreenController) removeAssignment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	assignmentID, err := strconv.Atoi(ctx.Param("assignment_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid assignment id"}
	}

	// scoped to the screen so ids on other screens stay out of reach
	if err := t.store.RemoveAssignment(s.ID, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "assignment not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove assignment"}
	}

	go t.notifier.ScreenChanged(s.ID)
	return gin.H{"deleted": assignmentID}, nil
}

// GET /api/admin/screens/:id/active_displays
// Live display count for the dashboard badge: open sessions whose
// heartbeat landed within the liveness window. Served from cache when
// fresh enough.
func (t *ScreenController) activeDisplays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	s, apiErr := t.requireScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if t.cache != nil {
		if count, ok := t.cache.GetActiveCount(ctx.Request.Context(), s.ID); ok {
			return packets.ActiveDisplaysResponse{ScreenID: s.ID, Active: count}, nil
		}
	}

	count, err := t.store.CountActiveSessions(s.ID, time.Now())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not count sessions"}
	}

	if t.cache != nil {
		t.cache.SetActiveCount(context.Background(), s.ID, count, activeCountTTL)
	}

	return packets.ActiveDisplaysResponse{ScreenID: s.ID, Active: count}, nil
}
