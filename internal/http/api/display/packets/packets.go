package packets

// FeedResponse is what a display polls: the sequence that should be
// playing right now, already expanded and ordered. An empty item list
// means "nothing scheduled" and is a valid state, not an error.
type FeedResponse struct {
	ScreenID   int                `json:"screen_id"`
	ScreenName string             `json:"screen_name"`
	ResolvedAt string             `json:"resolved_at"`
	Items      []FeedItemResponse `json:"items"`
}

type FeedItemResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Duration int    `json:"duration"`
}

type SessionResponse struct {
	ID        int    `json:"id"`
	ScreenID  int    `json:"screen_id"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	UpdatedAt string `json:"updated_at"`
}
