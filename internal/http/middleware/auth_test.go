package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/model"
)

const testSecret = "test-secret"

type fakeUserStore struct {
	db.Store
	users map[int]*model.User
}

func (f *fakeUserStore) GetUserByID(id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("not-a-hash", "hunter2"))
}

func newProtectedRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTMiddleware(testSecret, store))
	r.GET("/whoami", func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	store := &fakeUserStore{users: map[int]*model.User{
		1: {ID: 1, Email: "a@b.c"},
	}}
	r := newProtectedRouter(store)

	token, err := GenerateJWT(1, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	store := &fakeUserStore{users: map[int]*model.User{
		1: {ID: 1},
	}}
	r := newProtectedRouter(store)

	wrongSecret, err := GenerateJWT(1, "other-secret")
	require.NoError(t, err)
	deletedUser, err := GenerateJWT(99, testSecret)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"user no longer exists", "Bearer " + deletedUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
