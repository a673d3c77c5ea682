package model

// Vote represents one user's agree/disagree + rating judgment on a post.
// At most one vote per (user, post), enforced by a unique constraint.
type Vote struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	Agree     bool   `json:"agree"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"createdAt"`
}

// VoteRequest is the API request body for submitting a vote.
type VoteRequest struct {
	PostID string `json:"postId"`
	Agree  bool   `json:"agree"`
	Rating int    `json:"rating"`
}

// VoteResponse is the API response after submitting a vote.
type VoteResponse struct {
	OK bool `json:"ok"`
}
