package model

// Post represents a user-submitted review of a source. Ratings and
// agree/disagree counts are aggregates over the post's votes.
type Post struct {
	ID            string  `json:"postId"`
	SourceID      string  `json:"sourceId,omitempty"`
	UserID        string  `json:"userId"`
	Title         string  `json:"title"`
	Comment       string  `json:"comment"`
	Reputation    float64 `json:"reputation"`
	AgreeCount    int     `json:"agreeCount"`
	DisagreeCount int     `json:"disagreeCount"`
	CreatedAt     int64   `json:"createdAt"`
	SourceURL     string  `json:"sourceUrl,omitempty"`
	SourceTitle   *string `json:"sourceTitle,omitempty"`
}

// PostRequest is the API request body for submitting a post.
type PostRequest struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// PostResponse is the API response after creating a post.
type PostResponse struct {
	OK          bool    `json:"ok"`
	PostID      string  `json:"postId"`
	SourceID    string  `json:"sourceId"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Comment     string  `json:"comment"`
	CreatedAt   int64   `json:"createdAt"`
	SourceURL   string  `json:"sourceUrl"`
	SourceTitle *string `json:"sourceTitle"`
}

// UserPostsResponse is the API response for a user's post history.
type UserPostsResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"userId"`
	Posts  []Post `json:"posts"`
}
