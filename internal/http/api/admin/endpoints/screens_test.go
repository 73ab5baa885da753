package endpoints

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/http/api/admin/packets"
	"github.com/lumacast/lumacast/internal/model"
)

// newAdminRouter mounts modules behind a stub that authenticates every
// request as the given user.
func newAdminRouter(user *model.User, modules ...api.Module) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Middleware: []gin.HandlerFunc{func(c *gin.Context) {
			c.Set("currentUser", user)
		}},
	}, modules...)
	return r
}

type fakePlaylistStore struct {
	db.Store
	playlists map[int]model.Playlist
}

func (f *fakePlaylistStore) GetPlaylistByID(id int) (model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	return p, nil
}

func validationController() *ScreenController {
	return &ScreenController{
		store: &fakePlaylistStore{playlists: map[int]model.Playlist{
			10: {ID: 10, CreatedBy: 1},
			20: {ID: 20, CreatedBy: 2},
		}},
	}
}

func validRequest() packets.AssignmentRequest {
	return packets.AssignmentRequest{
		PlaylistID: 10,
		Days:       []int64{1, 2, 3},
		StartTime:  "09:00",
		EndTime:    "17:00",
	}
}

func TestValidateAssignment(t *testing.T) {
	owner := &model.User{ID: 1}
	ctl := validationController()

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, ctl.validateAssignment(validRequest(), owner))
	})

	t.Run("unknown playlist", func(t *testing.T) {
		req := validRequest()
		req.PlaylistID = 99
		apiErr := ctl.validateAssignment(req, owner)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	})

	t.Run("someone else's playlist", func(t *testing.T) {
		req := validRequest()
		req.PlaylistID = 20
		apiErr := ctl.validateAssignment(req, owner)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.Code)
	})

	t.Run("weekday out of range", func(t *testing.T) {
		for _, days := range [][]int64{{7}, {-1}, {0, 8}} {
			req := validRequest()
			req.Days = days
			apiErr := ctl.validateAssignment(req, owner)
			require.NotNil(t, apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Code)
		}
	})

	t.Run("malformed clock values", func(t *testing.T) {
		bad := []struct{ start, end string }{
			{"9:00", "17:00"},  // not zero-padded
			{"09:00", "24:00"}, // hour out of range
			{"09:60", "17:00"}, // minute out of range
			{"0900", "1700"},   // missing colon
			{"", "17:00"},
		}
		for _, tc := range bad {
			req := validRequest()
			req.StartTime = tc.start
			req.EndTime = tc.end
			apiErr := ctl.validateAssignment(req, owner)
			require.NotNil(t, apiErr, "start=%q end=%q", tc.start, tc.end)
			assert.Equal(t, http.StatusBadRequest, apiErr.Code)
		}
	})

	t.Run("start must precede end", func(t *testing.T) {
		for _, tc := range []struct{ start, end string }{
			{"17:00", "09:00"}, // overnight window
			{"09:00", "09:00"}, // empty window
		} {
			req := validRequest()
			req.StartTime = tc.start
			req.EndTime = tc.end
			apiErr := ctl.validateAssignment(req, owner)
			require.NotNil(t, apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Code)
		}
	})
}

// fakeAssignmentStore tracks assignments per screen; RemoveAssignment
// only deletes within the given screen, like the real store.
type fakeAssignmentStore struct {
	db.Store
	mu          sync.Mutex
	screens     map[int]model.Screen
	assignments map[int]int // assignment id -> screen id
	removed     []int
}

func (f *fakeAssignmentStore) GetScreenByID(id int) (model.Screen, error) {
	s, ok := f.screens[id]
	if !ok {
		return model.Screen{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeAssignmentStore) RemoveAssignment(screenID, assignmentID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignments[assignmentID] != screenID {
		return sql.ErrNoRows
	}
	delete(f.assignments, assignmentID)
	f.removed = append(f.removed, assignmentID)
	return nil
}

func TestRemoveAssignment_ScopedToOwnScreen(t *testing.T) {
	// screen 5 belongs to user 1, screen 6 (with assignment 99) to user 2
	store := &fakeAssignmentStore{
		screens: map[int]model.Screen{
			5: {ID: 5, CreatedBy: 1},
			6: {ID: 6, CreatedBy: 2},
		},
		assignments: map[int]int{42: 5, 99: 6},
	}
	r := newAdminRouter(&model.User{ID: 1},
		ScreenModule(store, nil, NewScreenNotifier(store, nil, nil)))

	// reaching across to another screen's assignment must not delete it
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/screens/5/assignments/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.mu.Lock()
	assert.Empty(t, store.removed)
	store.mu.Unlock()

	// the screen's own assignment deletes fine
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/screens/5/assignments/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	store.mu.Lock()
	assert.Equal(t, []int{42}, store.removed)
	store.mu.Unlock()
}
