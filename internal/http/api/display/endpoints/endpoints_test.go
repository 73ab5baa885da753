package endpoints

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	"github.com/lumacast/lumacast/internal/model"
)

// fakeStore satisfies db.Store for the handful of reads the display
// endpoints perform; everything else panics via the embedded nil.
type fakeStore struct {
	db.Store
	screens    map[int]model.Screen
	sessions   map[int]model.DisplaySession
	sessionErr error
	nextID     int
	touched    []int
	closed     []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		screens:  make(map[int]model.Screen),
		sessions: make(map[int]model.DisplaySession),
	}
}

func (f *fakeStore) GetScreenByID(id int) (model.Screen, error) {
	s, ok := f.screens[id]
	if !ok {
		return model.Screen{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) ListPlaylists(ownerID int) ([]model.Playlist, error) {
	return []model.Playlist{
		{
			ID:        10,
			Name:      "loop",
			CreatedBy: ownerID,
			Items: []model.PlaylistItem{
				{ID: 1, PlaylistID: 10, MediaItemID: 1, Position: 0},
				{ID: 2, PlaylistID: 10, MediaItemID: 2, Position: 1},
			},
		},
	}, nil
}

func (f *fakeStore) ListMediaItems(ownerID int) ([]model.MediaItem, error) {
	dur := 8
	return []model.MediaItem{
		{ID: 1, Title: "poster", Type: model.MediaTypeImage, URL: "/m/1.png", Duration: &dur},
		{ID: 2, Title: "promo", Type: model.MediaTypeVideo, URL: "/m/2.mp4"},
	}, nil
}

func (f *fakeStore) CreateSession(screenID int, userAgent string) (model.DisplaySession, error) {
	f.nextID++
	sess := model.DisplaySession{
		ID:        f.nextID,
		ScreenID:  screenID,
		Status:    model.SessionOpen,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
		UserAgent: userAgent,
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeStore) GetSessionByID(id int) (model.DisplaySession, error) {
	if f.sessionErr != nil {
		return model.DisplaySession{}, f.sessionErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return model.DisplaySession{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) TouchSession(id int) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) CloseSession(id int) error {
	f.closed = append(f.closed, id)
	return nil
}

func testScreen() model.Screen {
	return model.Screen{
		ID:        7,
		Name:      "lobby",
		CreatedBy: 1,
		Assignments: []model.Assignment{
			{
				ID:         1,
				ScreenID:   7,
				PlaylistID: 10,
				Days:       pq.Int64Array{0, 1, 2, 3, 4, 5, 6},
				StartTime:  "00:00",
				EndTime:    "23:59",
			},
		},
	}
}

func newFeedRouter(store db.Store, now func() time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctl := &FeedController{store: store, now: now}
	r.GET("/api/display/screens/:id/feed", ctl.getFeed)
	return r
}

func newSessionRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/display"}, SessionModule(store))
	return r
}

func fixedNoon() time.Time {
	// a Monday
	return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
}

func TestGetFeed_ResolvesSequence(t *testing.T) {
	store := newFakeStore()
	store.screens[7] = testScreen()
	r := newFeedRouter(store, fixedNoon)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/display/screens/7/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var resp struct {
		ScreenID   int    `json:"screen_id"`
		ScreenName string `json:"screen_name"`
		Items      []struct {
			ID       int    `json:"id"`
			Type     string `json:"type"`
			Duration int    `json:"duration"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.ScreenID)
	assert.Equal(t, "lobby", resp.ScreenName)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 8, resp.Items[0].Duration)
	assert.Equal(t, model.DefaultImageDuration, resp.Items[1].Duration)
}

func TestGetFeed_NotModifiedOnMatchingETag(t *testing.T) {
	store := newFakeStore()
	store.screens[7] = testScreen()
	r := newFeedRouter(store, fixedNoon)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/display/screens/7/feed", nil))
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/display/screens/7/feed", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestGetFeed_OutsideWindowIsEmpty(t *testing.T) {
	store := newFakeStore()
	screen := testScreen()
	screen.Assignments[0].StartTime = "09:00"
	screen.Assignments[0].EndTime = "10:00"
	store.screens[7] = screen
	r := newFeedRouter(store, fixedNoon)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/display/screens/7/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestGetFeed_UnknownScreen(t *testing.T) {
	r := newFeedRouter(newFakeStore(), fixedNoon)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/display/screens/99/feed", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	store := newFakeStore()
	store.screens[7] = testScreen()
	r := newSessionRouter(store)

	// open
	req := httptest.NewRequest(http.MethodPost, "/api/display/screens/7/sessions", nil)
	req.Header.Set("User-Agent", "display-page/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var sess struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, model.SessionOpen, sess.Status)
	assert.Equal(t, "display-page/1.0", store.sessions[sess.ID].UserAgent)

	// heartbeat
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/display/sessions/1/heartbeat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1}, store.touched)

	// close
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/display/sessions/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1}, store.closed)
}

func TestCreateSession_UnknownScreen(t *testing.T) {
	r := newSessionRouter(newFakeStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/display/screens/99/sessions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHeartbeat_UnknownSession(t *testing.T) {
	r := newSessionRouter(newFakeStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/display/sessions/42/heartbeat", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHeartbeat_TransientReadErrorIsNot404(t *testing.T) {
	// a flaky database must not look like a deleted session to the display
	store := newFakeStore()
	store.sessionErr = errors.New("connection reset")
	r := newSessionRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/display/sessions/42/heartbeat", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
