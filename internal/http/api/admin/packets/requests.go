package packets

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCurrentProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type CreateMediaItemRequest struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type"  binding:"required,oneof=image video"`
	URL   string `json:"url"   binding:"required,url"`
	// seconds on screen; images only, nil = default
	Duration *int `json:"duration" binding:"omitempty,min=1"`
}

type UpdateMediaItemRequest struct {
	Title    *string `json:"title"`
	URL      *string `json:"url" binding:"omitempty,url"`
	Duration *int    `json:"duration" binding:"omitempty,min=1"`
}

type CreatePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdatePlaylistRequest struct {
	Name *string `json:"name"`
}

type AddPlaylistItemRequest struct {
	MediaItemID int `json:"media_item_id" binding:"required"`
	Position    int `json:"position"`
}

type ReorderPlaylistItemsRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required"`
}

type CreateScreenRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateScreenRequest struct {
	Name *string `json:"name"`
}

// AssignmentRequest is one schedule entry in a screen's assignment
// list. Days use 0=Sunday..6=Saturday; times are zero-padded 24-hour
// "HH:MM" and the window must not span midnight.
type AssignmentRequest struct {
	PlaylistID int     `json:"playlist_id" binding:"required"`
	Days       []int64 `json:"days" binding:"required,min=1"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
}

type SetAssignmentsRequest struct {
	Assignments []AssignmentRequest `json:"assignments"`
}
