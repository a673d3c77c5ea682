// Package relay routes action messages between extension contexts and the
// agent. It is the single writer for the credential store, so callers never
// touch storage directly, and it proxies reputation fetches so they need no
// network access of their own.
package relay

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/credstore"
	"github.com/ugackMiner53/CrowdTruth/internal/injector"
	"github.com/ugackMiner53/CrowdTruth/pkg/pageid"
)

// Known actions.
const (
	ActionOpenPopup         = "openPopup"
	ActionGetAuthToken      = "getAuthToken"
	ActionSetAuthToken      = "setAuthToken"
	ActionClearAuthToken    = "clearAuthToken"
	ActionFetchReputation   = "fetchReputation"
	ActionRefreshReputation = "refreshReputation"
	ActionPageStatus        = "pageStatus"
)

// Message is one request frame from an extension context.
type Message struct {
	Action string `json:"action"`
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
	URL    string `json:"url,omitempty"`
}

// TokenResponse answers getAuthToken.
type TokenResponse struct {
	OK     bool   `json:"ok"`
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// AckResponse answers setAuthToken and clearAuthToken.
type AckResponse struct {
	OK bool `json:"ok"`
}

// FetchResponse answers fetchReputation. Status 0 means the request never
// reached the backend.
type FetchResponse struct {
	OK     bool        `json:"ok"`
	Status int         `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// IndicatorResponse answers refreshReputation and pageStatus.
type IndicatorResponse struct {
	OK        bool                `json:"ok"`
	Indicator *injector.Indicator `json:"indicator,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Relay dispatches messages to the credential store, the reputation client
// and the injector.
type Relay struct {
	creds    *credstore.Store
	client   *client.ReputationClient
	injector *injector.Injector
	log      zerolog.Logger

	// OnOpenPopup is invoked for openPopup actions with the page URL the
	// request was made for. Nil means the action is a no-op (headless
	// runs, tests).
	OnOpenPopup func(url string) error
}

// New creates a Relay.
func New(creds *credstore.Store, c *client.ReputationClient, in *injector.Injector, log zerolog.Logger) *Relay {
	return &Relay{creds: creds, client: c, injector: in, log: log}
}

// Handle dispatches one message. A nil response with nil error means the
// action is unknown and no response frame should be written; callers are
// expected to apply their own timeout.
func (r *Relay) Handle(ctx context.Context, msg Message) (interface{}, error) {
	switch msg.Action {
	case ActionOpenPopup:
		// openPopup has no response payload; writing one would be read
		// as the answer to the caller's next request.
		r.openPopup(msg.URL)
		return nil, nil
	case ActionGetAuthToken:
		return r.getAuthToken(), nil
	case ActionSetAuthToken:
		return r.setAuthToken(msg), nil
	case ActionClearAuthToken:
		return r.clearAuthToken(), nil
	case ActionFetchReputation:
		return r.fetchReputation(ctx, msg.URL), nil
	case ActionRefreshReputation:
		return r.refreshReputation(ctx, msg.URL), nil
	case ActionPageStatus:
		return r.pageStatus(ctx, msg.URL), nil
	default:
		// Unknown actions are dropped without a response.
		r.log.Debug().Str("action", msg.Action).Msg("ignoring unknown action")
		return nil, nil
	}
}

func (r *Relay) openPopup(url string) {
	if r.OnOpenPopup == nil {
		return
	}
	if err := r.OnOpenPopup(url); err != nil {
		r.log.Error().Err(err).Str("url", url).Msg("open popup failed")
	}
}

func (r *Relay) getAuthToken() TokenResponse {
	creds, err := r.creds.Get()
	if errors.Is(err, credstore.ErrNoCredentials) {
		return TokenResponse{OK: true}
	}
	if err != nil {
		r.log.Error().Err(err).Msg("credential read failed")
		return TokenResponse{OK: false}
	}
	return TokenResponse{OK: true, Token: creds.Token, UserID: creds.UserID}
}

func (r *Relay) setAuthToken(msg Message) AckResponse {
	if msg.Token == "" {
		return AckResponse{OK: false}
	}
	err := r.creds.Set(credstore.Credentials{Token: msg.Token, UserID: msg.UserID})
	if err != nil {
		r.log.Error().Err(err).Msg("credential write failed")
		return AckResponse{OK: false}
	}
	return AckResponse{OK: true}
}

func (r *Relay) clearAuthToken() AckResponse {
	if err := r.creds.Clear(); err != nil {
		r.log.Error().Err(err).Msg("credential clear failed")
		return AckResponse{OK: false}
	}
	return AckResponse{OK: true}
}

func (r *Relay) fetchReputation(ctx context.Context, rawURL string) FetchResponse {
	hash, err := pageid.FromURL(rawURL)
	if err != nil {
		return FetchResponse{OK: false, Status: 0, Error: "invalid url"}
	}

	info, err := r.client.FetchSourceInfo(ctx, hash)
	if errors.Is(err, client.ErrNotFound) {
		return FetchResponse{OK: false, Status: http.StatusNotFound, Error: "Source not found"}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return FetchResponse{OK: false, Status: apiErr.StatusCode, Error: apiErr.Message}
	}
	if err != nil {
		// Network failure: the request never completed.
		return FetchResponse{OK: false, Status: 0, Error: err.Error()}
	}
	return FetchResponse{OK: true, Status: http.StatusOK, Data: info}
}

func (r *Relay) refreshReputation(ctx context.Context, rawURL string) IndicatorResponse {
	ind, err := r.injector.Refresh(ctx, rawURL)
	if err != nil {
		return IndicatorResponse{OK: false, Error: err.Error()}
	}
	return IndicatorResponse{OK: true, Indicator: &ind}
}

func (r *Relay) pageStatus(ctx context.Context, rawURL string) IndicatorResponse {
	ind, err := r.injector.ForURL(ctx, rawURL)
	if err != nil {
		return IndicatorResponse{OK: false, Error: err.Error()}
	}
	return IndicatorResponse{OK: true, Indicator: &ind}
}
