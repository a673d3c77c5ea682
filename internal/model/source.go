package model

import "time"

// Source represents a web page with aggregated reputation. Sources are
// created implicitly when the first post targets their URL.
type Source struct {
	ID          string    `json:"sourceId"`
	URL         string    `json:"url"`
	URLHash     string    `json:"-"`
	Title       *string   `json:"title"`
	Reputation  float64   `json:"reputation"`
	PostCount   int       `json:"postCount"`
	CreatedAt   time.Time `json:"-"`
	LastUpdated time.Time `json:"-"`
}

// SourceInfoResponse is the API response for source lookups: the aggregate
// reputation plus every post attached to the source.
type SourceInfoResponse struct {
	SourceID      string  `json:"sourceId"`
	URL           string  `json:"url"`
	Title         *string `json:"title"`
	Reputation    float64 `json:"reputation"`
	AgreeCount    int     `json:"agreeCount"`
	DisagreeCount int     `json:"disagreeCount"`
	PostCount     int     `json:"postCount"`
	Posts         []Post  `json:"posts"`
}

// SearchResult is one row of a /search response. Only the fields relevant
// to the requested type are populated.
type SearchResult struct {
	PostID      string `json:"postId,omitempty"`
	SourceID    string `json:"sourceId,omitempty"`
	Title       string `json:"title,omitempty"`
	Comment     string `json:"comment,omitempty"`
	UserID      string `json:"userId,omitempty"`
	URL         string `json:"url,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	SourceTitle string `json:"sourceTitle,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// SearchResponse is the envelope for GET /search.
type SearchResponse struct {
	OK      bool           `json:"ok"`
	Type    string         `json:"type"`
	Results []SearchResult `json:"results"`
}

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	OK           bool `json:"ok"`
	TotalUsers   int  `json:"totalUsers"`
	TotalSources int  `json:"totalSources"`
	TotalPosts   int  `json:"totalPosts"`
	TotalVotes   int  `json:"totalVotes"`
}
