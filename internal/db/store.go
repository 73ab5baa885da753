// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumacast/lumacast/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// media functions
	CreateMediaItem(title, mediaType, url string, duration *int, createdBy int) (model.MediaItem, error)
	GetMediaItemByID(id int) (model.MediaItem, error)
	ListMediaItems(ownerID int) ([]model.MediaItem, error)
	UpdateMediaItem(id int, title, url *string, duration *int) error
	DeleteMediaItem(id int) error

	// playlist functions
	CreatePlaylist(name string, createdBy int) (model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	ListPlaylists(ownerID int) ([]model.Playlist, error)
	UpdatePlaylist(id int, name *string) error
	DeletePlaylist(id int) error
	AddPlaylistItem(playlistID, mediaItemID, position int) (model.PlaylistItem, error)
	RemovePlaylistItem(playlistID, itemID int) error
	ReorderPlaylistItems(playlistID int, itemIDs []int) error
	ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error)
	ListScreenIDsUsingPlaylist(playlistID int) ([]int, error)

	// screen functions
	CreateScreen(name string, createdBy int) (model.Screen, error)
	GetScreenByID(id int) (model.Screen, error)
	ListScreens(ownerID int) ([]model.Screen, error)
	UpdateScreen(id int, name *string) error
	DeleteScreen(id int) error
	ListAssignments(screenID int) ([]model.Assignment, error)
	AddAssignment(screenID, playlistID int, days []int64, startTime, endTime string) (model.Assignment, error)
	RemoveAssignment(screenID, assignmentID int) error
	SetAssignments(screenID int, assignments []model.Assignment) error

	// display session functions
	CreateSession(screenID int, userAgent string) (model.DisplaySession, error)
	TouchSession(id int) error
	CloseSession(id int) error
	GetSessionByID(id int) (model.DisplaySession, error)
	CountActiveSessions(screenID int, now time.Time) (int, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
