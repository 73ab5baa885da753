package packets

// Responses flatten times to RFC3339 strings the way the rest of the
// API does; the models keep time.Time for the database layer.

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type MediaItemResponse struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Duration  *int   `json:"duration,omitempty"`
	CreatedAt string `json:"created_at"`
}

type PlaylistItemResponse struct {
	ID          int                `json:"id"`
	MediaItemID int                `json:"media_item_id"`
	Position    int                `json:"position"`
	Media       *MediaItemResponse `json:"media,omitempty"`
}

type PlaylistResponse struct {
	ID        int                    `json:"id"`
	Name      string                 `json:"name"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
	Items     []PlaylistItemResponse `json:"items"`
}

type AssignmentResponse struct {
	ID         int     `json:"id"`
	PlaylistID int     `json:"playlist_id"`
	Days       []int64 `json:"days"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Position   int     `json:"position"`
}

type ScreenResponse struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
	Assignments []AssignmentResponse `json:"assignments"`
}

type ActiveDisplaysResponse struct {
	ScreenID int `json:"screen_id"`
	Active   int `json:"active"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}
