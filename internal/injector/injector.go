// Package injector decides what trust indicator, if any, a page should
// show, based on the crowd's posts for that page.
package injector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/pagecache"
	"github.com/ugackMiner53/CrowdTruth/pkg/pageid"
)

// Indicator severity colors.
const (
	ColorGreen  = "#28a745"
	ColorYellow = "#ffc107"
	ColorOrange = "#fd7e14"
	ColorRed    = "#dc3545"
	ColorGray   = "#6c757d"
)

// Indicator describes the banner a page should render. Render=false means
// no indicator at all (zero posts for this page).
type Indicator struct {
	Render     bool    `json:"render"`
	Reputation float64 `json:"reputation"`
	Color      string  `json:"color"`
	Message    string  `json:"message"`
	OfferPopup bool    `json:"offerPopup"`
	PostCount  int     `json:"postCount"`
	FromCache  bool    `json:"fromCache"`
}

// MaxReputation selects the highest reputation among the posts. Ties break
// to the first occurrence, so the result is stable for a given ordering.
func MaxReputation(posts []model.Post) (float64, bool) {
	if len(posts) == 0 {
		return 0, false
	}
	best := posts[0].Reputation
	for _, p := range posts[1:] {
		if p.Reputation > best {
			best = p.Reputation
		}
	}
	return best, true
}

// Classify maps a set of posts to an indicator. The color and message are a
// step function of the maximum post reputation.
func Classify(posts []model.Post) Indicator {
	rep, ok := MaxReputation(posts)
	if !ok {
		return Indicator{Render: false}
	}

	ind := Indicator{
		Render:     true,
		Reputation: rep,
		PostCount:  len(posts),
		OfferPopup: rep <= 1,
	}

	switch {
	case rep >= 4.0:
		ind.Color = ColorGreen
		ind.Message = "Users report this page contains serious misinformation"
	case rep >= 3.0:
		ind.Color = ColorYellow
		ind.Message = "Users report this page contains misinformation"
	case rep >= 2.0:
		ind.Color = ColorOrange
		ind.Message = "Users may have found misinformation on this page"
	case rep >= 1.0:
		ind.Color = ColorRed
		ind.Message = "Users report this page might be misinformation"
	default:
		ind.Color = ColorGray
		ind.Message = "This page has reports but no rating yet"
	}

	return ind
}

// Injector resolves a page's indicator, consulting the local cache before
// the backend.
type Injector struct {
	client *client.ReputationClient
	cache  *pagecache.Cache
	log    zerolog.Logger
}

// New creates an Injector. The cache may be nil, in which case every lookup
// goes to the backend.
func New(c *client.ReputationClient, cache *pagecache.Cache, log zerolog.Logger) *Injector {
	return &Injector{client: c, cache: cache, log: log}
}

// ForURL computes the page identity for a raw URL and resolves its
// indicator. Cache hits skip the network entirely.
func (in *Injector) ForURL(ctx context.Context, rawURL string) (Indicator, error) {
	hash, err := pageid.FromURL(rawURL)
	if err != nil {
		return Indicator{}, err
	}
	return in.ForHash(ctx, hash)
}

// ForHash resolves the indicator for a page identity hash.
func (in *Injector) ForHash(ctx context.Context, hash string) (Indicator, error) {
	if in.cache != nil {
		if entry, err := in.cache.Get(hash); err == nil {
			ind := Classify(entry.Posts)
			ind.FromCache = true
			return ind, nil
		} else if err != pagecache.ErrMiss {
			in.log.Warn().Err(err).Msg("page cache read failed")
		}
	}

	return in.refresh(ctx, hash)
}

// Refresh bypasses the cache, fetches fresh data, and repopulates the
// cache. The popup calls this after a successful post or vote.
func (in *Injector) Refresh(ctx context.Context, rawURL string) (Indicator, error) {
	hash, err := pageid.FromURL(rawURL)
	if err != nil {
		return Indicator{}, err
	}
	if in.cache != nil {
		if err := in.cache.Invalidate(hash); err != nil {
			in.log.Warn().Err(err).Msg("page cache invalidate failed")
		}
	}
	return in.refresh(ctx, hash)
}

func (in *Injector) refresh(ctx context.Context, hash string) (Indicator, error) {
	posts, err := in.client.FetchPosts(ctx, hash)
	if err != nil {
		return Indicator{}, err
	}

	ind := Classify(posts)

	if in.cache != nil {
		entry := pagecache.Entry{
			Posts:      posts,
			Reputation: ind.Reputation,
			FetchedAt:  time.Now().UnixMilli(),
		}
		if err := in.cache.Set(hash, entry); err != nil {
			in.log.Warn().Err(err).Msg("page cache write failed")
		}
	}

	return ind, nil
}
