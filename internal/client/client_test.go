package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

// noNetworkServer fails the test if any request reaches it. Used to prove
// that local validation short-circuits before the network.
func noNetworkServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call: %s %s", r.Method, r.URL.Path)
	}))
}

func TestSubmitPost_ShortTitleRejectedLocally(t *testing.T) {
	srv := noNetworkServer(t)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.SubmitPost(context.Background(), "token", model.PostRequest{
		URL:     "https://example.com/article",
		Title:   "ab",
		Comment: "this is a long enough comment",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)
}

func TestSubmitPost_BadURLRejectedLocally(t *testing.T) {
	srv := noNetworkServer(t)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.SubmitPost(context.Background(), "token", model.PostRequest{
		URL:     "not a url",
		Title:   "valid title",
		Comment: "this is a long enough comment",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "url", vErr.Field)
}

func TestSubmitVote_RatingOutOfRangeRejectedLocally(t *testing.T) {
	srv := noNetworkServer(t)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	for _, rating := range []int{-1, 6} {
		err := c.SubmitVote(context.Background(), "token", model.VoteRequest{
			PostID: "p1",
			Rating: rating,
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "rating %d", rating)
		assert.Equal(t, "rating", vErr.Field)
	}
}

func TestSubmitVote_DuplicateSurfacesAsAlreadyVoted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/votes", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":    false,
			"error": "Already voted or invalid post",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.SubmitVote(context.Background(), "tok-1", model.VoteRequest{PostID: "p1", Agree: true, Rating: 4})
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestSubmitVote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.VoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.PostID)
		assert.Equal(t, 5, req.Rating)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.VoteResponse{OK: true})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.SubmitVote(context.Background(), "tok", model.VoteRequest{PostID: "p1", Agree: true, Rating: 5})
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "wrongwrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		json.NewEncoder(w).Encode(model.AuthResponse{OK: true, Token: "tok-9", UserID: "alice"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.Login(context.Background(), model.LoginRequest{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-9", resp.Token)
	assert.Equal(t, "alice", resp.UserID)
}

func TestFetchPosts_EmptyForUnknownPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("url"))
		json.NewEncoder(w).Encode([]model.Post{})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	posts, err := c.FetchPosts(context.Background(), "somehash")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestFetchSourceInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "Source not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.FetchSourceInfo(context.Background(), "missinghash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchSourceInfo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sources", r.URL.Path)
		require.Equal(t, "h123", r.URL.Query().Get("hash"))
		json.NewEncoder(w).Encode(model.SourceInfoResponse{
			SourceID:   "s1",
			Reputation: 3.5,
			PostCount:  2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	info, err := c.FetchSourceInfo(context.Background(), "h123")
	require.NoError(t, err)
	assert.Equal(t, 3.5, info.Reputation)
	assert.Equal(t, 2, info.PostCount)
}

func TestRegister_ValidatesLocally(t *testing.T) {
	srv := noNetworkServer(t)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Register(context.Background(), model.RegisterRequest{ID: "u", Email: "not-an-email", Password: "password1"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	_, err = c.Register(context.Background(), model.RegisterRequest{ID: "u", Email: "a@b.c", Password: "short"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestAPIError_MessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "Missing url parameter"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.FetchPosts(context.Background(), "h")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Missing url parameter", apiErr.Message)
}
