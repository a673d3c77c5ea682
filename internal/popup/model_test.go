package popup

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

// update runs one message through the model and returns the typed result.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got
}

func TestInitialState_TokenPresentGoesToMain(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1", userID: "alice"})

	assert.Equal(t, StateMain, m.state)
	assert.Equal(t, "tok-1", m.token)
	assert.False(t, m.loading)
}

func TestInitialState_NoTokenGoesToAuth(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{})

	assert.Equal(t, StateAuth, m.state)
	assert.Empty(t, m.token)
}

func TestAuthToMainOnLogin(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{})
	require.Equal(t, StateAuth, m.state)

	m = update(t, m, authResultMsg{auth: &model.AuthResponse{OK: true, Token: "tok-2", UserID: "bob"}})

	assert.Equal(t, StateMain, m.state)
	assert.Equal(t, "tok-2", m.token)
	assert.Equal(t, "bob", m.userID)
}

func TestAuthFailureStaysInAuth(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{})

	m = update(t, m, authResultMsg{err: errors.New("boom")})

	assert.Equal(t, StateAuth, m.state)
	assert.NotEmpty(t, m.lastErr)
}

func TestMainToAnonymousOnLogout(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1", userID: "alice"})
	require.Equal(t, StateMain, m.state)

	// The logout round-trip completes with an empty credsLoadedMsg.
	m = update(t, m, credsLoadedMsg{})

	assert.Equal(t, StateAnonymous, m.state)
}

func TestSourceLoadedClassifiesPosts(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1"})

	m = update(t, m, sourceLoadedMsg{posts: []model.Post{
		{ID: "p1", Title: "a", Reputation: 0.5},
		{ID: "p2", Title: "b", Reputation: 4.2},
		{ID: "p3", Title: "c", Reputation: 3.0},
	}})

	assert.True(t, m.indicator.Render)
	assert.Equal(t, 4.2, m.indicator.Reputation)
	assert.Len(t, m.posts, 3)
}

func TestSourceLoadedEmptyRendersNoIndicator(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1"})

	m = update(t, m, sourceLoadedMsg{posts: nil})

	assert.False(t, m.indicator.Render)
	assert.Contains(t, m.View(), "No reports")
}

func TestAnonymousCanReachAuth(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, StateAnonymous, m.state)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Equal(t, StateAuth, m.state)
}

func TestVoteModeKeys(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1"})
	m = update(t, m, sourceLoadedMsg{posts: []model.Post{{ID: "p1", Title: "a", Reputation: 2.0}}})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	require.True(t, m.voting)
	assert.True(t, m.voteAgree)
	assert.Equal(t, 3, m.voteRating)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.False(t, m.voteAgree)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	assert.Equal(t, 5, m.voteRating)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.voting)
}

func TestDuplicateVoteShowsAlreadyVoted(t *testing.T) {
	m := New(nil, nil, "https://example.com")
	m = update(t, m, credsLoadedMsg{token: "tok-1"})
	m.voting = true

	m = update(t, m, voteSubmittedMsg{err: client.ErrAlreadyVoted})

	assert.False(t, m.voting)
	assert.Equal(t, "You already voted on this post", m.lastErr)
}
