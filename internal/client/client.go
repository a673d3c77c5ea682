// Package client talks to the CrowdTruth reputation backend. All requests
// identify pages by their hashed identity, never by raw URL.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/pkg/pageid"
)

var (
	// ErrAlreadyVoted is returned when the backend rejects a duplicate vote.
	ErrAlreadyVoted = errors.New("already voted on this post")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError marks input rejected locally, before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// APIError carries an error message returned by the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// ReputationClient is an HTTP client for the CrowdTruth backend.
type ReputationClient struct {
	baseURL string
	http    *http.Client
}

// New creates a ReputationClient for the given base URL.
func New(baseURL string, timeout time.Duration) *ReputationClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReputationClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchPosts retrieves all posts for a page identity hash. An unknown page
// yields an empty slice, not an error.
func (c *ReputationClient) FetchPosts(ctx context.Context, hash string) ([]model.Post, error) {
	var posts []model.Post
	err := c.get(ctx, "/posts?url="+url.QueryEscape(hash), &posts)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// FetchSourceInfo retrieves aggregate source info for a page identity hash.
func (c *ReputationClient) FetchSourceInfo(ctx context.Context, hash string) (*model.SourceInfoResponse, error) {
	var info model.SourceInfoResponse
	if err := c.get(ctx, "/sources?hash="+url.QueryEscape(hash), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SubmitPost validates the report locally and submits it. The raw page URL is
// sent so the backend can record the source; the identity hash is derived
// server-side from the same normalization.
func (c *ReputationClient) SubmitPost(ctx context.Context, token string, req model.PostRequest) (*model.PostResponse, error) {
	if _, err := pageid.FromURL(req.URL); err != nil {
		return nil, &ValidationError{Field: "url", Reason: "not a valid http(s) URL"}
	}
	if _, errMsg := middleware.ValidateTitle(req.Title); errMsg != "" {
		return nil, &ValidationError{Field: "title", Reason: errMsg}
	}
	if _, errMsg := middleware.ValidateComment(req.Comment); errMsg != "" {
		return nil, &ValidationError{Field: "comment", Reason: errMsg}
	}

	var resp model.PostResponse
	if err := c.post(ctx, "/posts", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitVote validates the rating locally and submits the vote. A duplicate
// vote surfaces as ErrAlreadyVoted.
func (c *ReputationClient) SubmitVote(ctx context.Context, token string, req model.VoteRequest) error {
	if errMsg := middleware.ValidateRating(req.Rating); errMsg != "" {
		return &ValidationError{Field: "rating", Reason: errMsg}
	}
	if req.PostID == "" {
		return &ValidationError{Field: "postId", Reason: "missing post id"}
	}

	var resp model.VoteResponse
	err := c.post(ctx, "/votes", token, req, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return ErrAlreadyVoted
	}
	return err
}

// Register creates an account and returns the auth response.
func (c *ReputationClient) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if _, errMsg := middleware.ValidateEmail(req.Email); errMsg != "" {
		return nil, &ValidationError{Field: "email", Reason: errMsg}
	}
	if errMsg := middleware.ValidatePassword(req.Password); errMsg != "" {
		return nil, &ValidationError{Field: "password", Reason: errMsg}
	}

	var resp model.AuthResponse
	if err := c.post(ctx, "/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token.
func (c *ReputationClient) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.post(ctx, "/login", "", req, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserPosts retrieves a user's post history.
func (c *ReputationClient) UserPosts(ctx context.Context, userID string, limit, offset int) (*model.UserPostsResponse, error) {
	path := "/users/" + url.PathEscape(userID) + "/posts?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	var resp model.UserPostsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserStats retrieves a user's activity counters.
func (c *ReputationClient) UserStats(ctx context.Context, userID string) (*model.UserStatsResponse, error) {
	var resp model.UserStatsResponse
	if err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ReputationClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *ReputationClient) post(ctx context.Context, path, token string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *ReputationClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiResp struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &apiResp) == nil && apiResp.Error != "" {
			msg = apiResp.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
