// Package popup is the user-facing control surface: a terminal UI that
// shows the crowd's posts for the current page, lets a signed-in user
// submit posts and votes, and drives the in-page indicator refresh.
package popup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/injector"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/relay"
)

// State is one of the three mutually exclusive popup views.
type State int

const (
	// StateAuth shows the email/password form. No token is present.
	StateAuth State = iota
	// StateAnonymous shows page reputation read-only.
	StateAnonymous
	// StateMain shows the full posting and voting UI. A token is present.
	StateMain
)

// focus identifies which input has keyboard focus in a form.
type focus int

const (
	focusEmail focus = iota
	focusPassword
	focusTitle
	focusComment
)

type credsLoadedMsg struct {
	token  string
	userID string
	err    error
}

type sourceLoadedMsg struct {
	posts []model.Post
	err   error
}

type authResultMsg struct {
	auth *model.AuthResponse
	err  error
}

type postSubmittedMsg struct {
	err error
}

type voteSubmittedMsg struct {
	err error
}

type refreshedMsg struct {
	err error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(injector.ColorRed))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
)

// badgeStyle renders the reputation badge in the indicator's color.
func badgeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// Model is the popup's bubbletea model.
type Model struct {
	state   State
	api     *client.ReputationClient
	agent   *RelayConn
	pageURL string

	token  string
	userID string

	posts     []model.Post
	indicator injector.Indicator
	cursor    int

	email    textinput.Model
	password textinput.Model
	title    textinput.Model
	comment  textarea.Model
	focused  focus

	composing  bool
	voting     bool
	voteAgree  bool
	voteRating int

	status  string
	lastErr string
	loading bool
}

// New creates the popup model for the given page URL.
func New(api *client.ReputationClient, agent *RelayConn, pageURL string) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Placeholder = "title (at least 3 characters)"
	title.CharLimit = 200

	comment := textarea.New()
	comment.Placeholder = "what did you find? (at least 10 characters)"
	comment.CharLimit = 5000

	return Model{
		state:      StateAuth,
		api:        api,
		agent:      agent,
		pageURL:    pageURL,
		email:      email,
		password:   password,
		title:      title,
		comment:    comment,
		voteRating: 3,
		voteAgree:  true,
		loading:    true,
	}
}

// Init loads stored credentials and the page's posts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCreds(), m.loadSource())
}

func (m Model) loadCreds() tea.Cmd {
	return func() tea.Msg {
		var resp relay.TokenResponse
		if err := m.agent.Send(relay.Message{Action: relay.ActionGetAuthToken}, &resp); err != nil {
			return credsLoadedMsg{err: err}
		}
		return credsLoadedMsg{token: resp.Token, userID: resp.UserID}
	}
}

func (m Model) loadSource() tea.Cmd {
	url := m.pageURL
	agent := m.agent
	return func() tea.Msg {
		var resp relay.IndicatorResponse
		err := agent.Send(relay.Message{Action: relay.ActionPageStatus, URL: url}, &resp)
		if err != nil {
			return sourceLoadedMsg{err: err}
		}
		if !resp.OK {
			return sourceLoadedMsg{err: errors.New(resp.Error)}
		}
		return fetchPosts(agent, url)
	}
}

// fetchPosts pulls the post list through the relay's reputation proxy.
func fetchPosts(agent *RelayConn, url string) tea.Msg {
	var resp relay.FetchResponse
	err := agent.Send(relay.Message{Action: relay.ActionFetchReputation, URL: url}, &resp)
	if err != nil {
		return sourceLoadedMsg{err: err}
	}
	if !resp.OK {
		if resp.Status == 404 {
			return sourceLoadedMsg{posts: nil}
		}
		return sourceLoadedMsg{err: errors.New(resp.Error)}
	}

	// Data round-trips through JSON; re-decode into the typed response.
	info, err := decodeSourceInfo(resp.Data)
	if err != nil {
		return sourceLoadedMsg{err: err}
	}
	return sourceLoadedMsg{posts: info.Posts}
}

func (m Model) login() tea.Cmd {
	email, password := m.email.Value(), m.password.Value()
	api, agent := m.api, m.agent
	return func() tea.Msg {
		resp, err := api.Login(context.Background(), model.LoginRequest{Email: email, Password: password})
		if err != nil {
			return authResultMsg{err: err}
		}
		var ack relay.AckResponse
		err = agent.Send(relay.Message{
			Action: relay.ActionSetAuthToken,
			Token:  resp.Token,
			UserID: resp.UserID,
		}, &ack)
		if err != nil {
			return authResultMsg{err: err}
		}
		return authResultMsg{auth: resp}
	}
}

// register creates an account (the account id is derived from the email's
// local part) and then logs in, since registration alone returns no token.
func (m Model) register() tea.Cmd {
	email, password := m.email.Value(), m.password.Value()
	api, agent := m.api, m.agent
	return func() tea.Msg {
		id := email
		if at := strings.Index(email, "@"); at > 0 {
			id = email[:at]
		}
		_, err := api.Register(context.Background(), model.RegisterRequest{ID: id, Email: email, Password: password})
		if err != nil {
			return authResultMsg{err: err}
		}

		resp, err := api.Login(context.Background(), model.LoginRequest{Email: email, Password: password})
		if err != nil {
			return authResultMsg{err: err}
		}
		var ack relay.AckResponse
		err = agent.Send(relay.Message{
			Action: relay.ActionSetAuthToken,
			Token:  resp.Token,
			UserID: resp.UserID,
		}, &ack)
		if err != nil {
			return authResultMsg{err: err}
		}
		return authResultMsg{auth: resp}
	}
}

func (m Model) logout() tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		var ack relay.AckResponse
		if err := agent.Send(relay.Message{Action: relay.ActionClearAuthToken}, &ack); err != nil {
			return credsLoadedMsg{err: err}
		}
		return credsLoadedMsg{}
	}
}

func (m Model) submitPost() tea.Cmd {
	req := model.PostRequest{
		URL:     m.pageURL,
		Title:   m.title.Value(),
		Comment: m.comment.Value(),
	}
	api, token := m.api, m.token
	return func() tea.Msg {
		_, err := api.SubmitPost(context.Background(), token, req)
		return postSubmittedMsg{err: err}
	}
}

func (m Model) submitVote() tea.Cmd {
	if m.cursor >= len(m.posts) {
		return nil
	}
	req := model.VoteRequest{
		PostID: m.posts[m.cursor].ID,
		Agree:  m.voteAgree,
		Rating: m.voteRating,
	}
	api, token := m.api, m.token
	return func() tea.Msg {
		err := api.SubmitVote(context.Background(), token, req)
		return voteSubmittedMsg{err: err}
	}
}

// refreshIndicator asks the agent to re-fetch and re-render the in-page
// indicator after a mutation, keeping popup and page consistent.
func (m Model) refreshIndicator() tea.Cmd {
	agent, url := m.agent, m.pageURL
	return func() tea.Msg {
		var resp relay.IndicatorResponse
		if err := agent.Send(relay.Message{Action: relay.ActionRefreshReputation, URL: url}, &resp); err != nil {
			return refreshedMsg{err: err}
		}
		return refreshedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case credsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			m.state = StateAnonymous
			return m, nil
		}
		m.token, m.userID = msg.token, msg.userID
		if m.token != "" {
			m.state = StateMain
		} else if m.state == StateMain {
			// Logout completed.
			m.state = StateAnonymous
			m.status = "Logged out"
		} else {
			m.state = StateAuth
		}
		return m, nil

	case sourceLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.posts = msg.posts
		m.indicator = injector.Classify(msg.posts)
		if m.cursor >= len(m.posts) {
			m.cursor = 0
		}
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.lastErr = authErrorText(msg.err)
			return m, nil
		}
		m.token, m.userID = msg.auth.Token, msg.auth.UserID
		m.state = StateMain
		m.status = "Signed in"
		m.lastErr = ""
		m.password.SetValue("")
		return m, m.loadSource()

	case postSubmittedMsg:
		if msg.err != nil {
			m.lastErr = mutationErrorText(msg.err)
			return m, nil
		}
		m.composing = false
		m.title.SetValue("")
		m.comment.SetValue("")
		m.status = "Post submitted"
		m.lastErr = ""
		return m, tea.Batch(m.loadSource(), m.refreshIndicator())

	case voteSubmittedMsg:
		if msg.err != nil {
			m.lastErr = mutationErrorText(msg.err)
			m.voting = false
			return m, nil
		}
		m.voting = false
		m.status = "Vote recorded"
		m.lastErr = ""
		return m, tea.Batch(m.loadSource(), m.refreshIndicator())

	case refreshedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case StateAuth:
		return m.updateAuth(msg)
	case StateAnonymous:
		return m.updateAnonymous(msg)
	default:
		return m.updateMain(msg)
	}
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		if m.focused == focusEmail {
			m.focused = focusPassword
			m.email.Blur()
			m.password.Focus()
		} else {
			m.focused = focusEmail
			m.password.Blur()
			m.email.Focus()
		}
		return m, nil
	case tea.KeyEnter:
		m.lastErr = ""
		return m, m.login()
	case tea.KeyCtrlR:
		m.lastErr = ""
		return m, m.register()
	case tea.KeyEsc:
		m.state = StateAnonymous
		return m, nil
	}

	var cmd tea.Cmd
	if m.focused == focusEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAnonymous(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "l":
		m.state = StateAuth
		m.email.Focus()
		m.focused = focusEmail
		return m, nil
	case "r":
		m.loading = true
		return m, m.loadSource()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		return m.updateCompose(msg)
	}
	if m.voting {
		return m.updateVote(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		m.composing = true
		m.focused = focusTitle
		m.title.Focus()
		return m, nil
	case "v":
		if len(m.posts) > 0 {
			m.voting = true
			m.voteAgree = true
			m.voteRating = 3
		}
		return m, nil
	case "r":
		m.loading = true
		return m, m.loadSource()
	case "x":
		m.token, m.userID = "", ""
		m.state = StateMain // stays until credsLoadedMsg flips it
		return m, m.logout()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.composing = false
		return m, nil
	case tea.KeyTab:
		if m.focused == focusTitle {
			m.focused = focusComment
			m.title.Blur()
			m.comment.Focus()
		} else {
			m.focused = focusTitle
			m.comment.Blur()
			m.title.Focus()
		}
		return m, nil
	case tea.KeyCtrlD:
		m.lastErr = ""
		return m, m.submitPost()
	}

	var cmd tea.Cmd
	if m.focused == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.comment, cmd = m.comment.Update(msg)
	}
	return m, cmd
}

func (m Model) updateVote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.voting = false
		return m, nil
	case "a":
		m.voteAgree = true
	case "d":
		m.voteAgree = false
	case "0", "1", "2", "3", "4", "5":
		m.voteRating = int(msg.String()[0] - '0')
	case "enter":
		m.lastErr = ""
		return m, m.submitVote()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CrowdTruth"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.pageURL))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	switch m.state {
	case StateAuth:
		m.viewAuth(&b)
	case StateAnonymous:
		m.viewPosts(&b, false)
	case StateMain:
		if m.composing {
			m.viewCompose(&b)
		} else if m.voting {
			m.viewVote(&b)
		} else {
			m.viewPosts(&b, true)
		}
	}

	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.lastErr) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	return b.String()
}

func (m Model) viewAuth(b *strings.Builder) {
	b.WriteString("Sign in to post and vote\n\n")
	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.password.View() + "\n\n")
	b.WriteString(helpStyle.Render("enter: sign in • ctrl+r: register • esc: browse without account"))
	b.WriteString("\n")
}

func (m Model) viewPosts(b *strings.Builder, canMutate bool) {
	if m.indicator.Render {
		badge := fmt.Sprintf("● %.1f", m.indicator.Reputation)
		b.WriteString(badgeStyle(m.indicator.Color).Render(badge))
		b.WriteString(" " + m.indicator.Message + "\n\n")
	} else {
		b.WriteString(statusStyle.Render("No reports for this page yet") + "\n\n")
	}

	for i, p := range m.posts {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s (%.1f) +%d/-%d", prefix, p.Title, p.Reputation, p.AgreeCount, p.DisagreeCount)
		b.WriteString(line + "\n")
		if i == m.cursor && p.Comment != "" {
			b.WriteString(statusStyle.Render("    "+p.Comment) + "\n")
		}
	}

	b.WriteString("\n")
	if canMutate {
		b.WriteString(helpStyle.Render("n: new post • v: vote • r: refresh • x: log out • q: quit"))
	} else {
		b.WriteString(helpStyle.Render("l: sign in • r: refresh • q: quit"))
	}
	b.WriteString("\n")
}

func (m Model) viewCompose(b *strings.Builder) {
	b.WriteString("New report for this page\n\n")
	b.WriteString(m.title.View() + "\n")
	b.WriteString(m.comment.View() + "\n\n")
	b.WriteString(helpStyle.Render("tab: switch field • ctrl+d: submit • esc: cancel"))
	b.WriteString("\n")
}

func (m Model) viewVote(b *strings.Builder) {
	if m.cursor < len(m.posts) {
		b.WriteString("Voting on: " + m.posts[m.cursor].Title + "\n\n")
	}
	agreement := "agree"
	if !m.voteAgree {
		agreement = "disagree"
	}
	b.WriteString(fmt.Sprintf("You %s, rating %d/5\n\n", agreement, m.voteRating))
	b.WriteString(helpStyle.Render("a/d: agree/disagree • 0-5: rating • enter: submit • esc: cancel"))
	b.WriteString("\n")
}

func authErrorText(err error) string {
	if errors.Is(err, client.ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	var vErr *client.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Could not reach the server"
}

func mutationErrorText(err error) string {
	if errors.Is(err, client.ErrAlreadyVoted) {
		return "You already voted on this post"
	}
	var vErr *client.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Could not reach the server"
}
