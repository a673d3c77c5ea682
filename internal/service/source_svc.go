package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

type SourceService struct {
	repo  *repository.SourceRepo
	cache *CacheService
}

func NewSourceService(repo *repository.SourceRepo, cache *CacheService) *SourceService {
	return &SourceService{repo: repo, cache: cache}
}

// InfoByURL returns the aggregate view of the source for an exact URL.
func (s *SourceService) InfoByURL(ctx context.Context, url string) (*model.SourceInfoResponse, error) {
	id, err := s.repo.FindIDByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.info(ctx, id)
}

// InfoByHash returns the aggregate view of the source for a page-identity
// hash. This is the privacy-preserving path the agent uses.
func (s *SourceService) InfoByHash(ctx context.Context, hash string) (*model.SourceInfoResponse, error) {
	id, err := s.repo.FindIDByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	return s.info(ctx, id)
}

func (s *SourceService) info(ctx context.Context, sourceID string) (*model.SourceInfoResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSource(ctx, sourceID)
		if err != nil {
			log.Printf("cache: get source error: %v", err)
		} else if cached != nil {
			var info model.SourceInfoResponse
			if err := json.Unmarshal(cached, &info); err == nil {
				return &info, nil
			}
		}
	}

	info, err := s.repo.GetInfo(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSource(ctx, sourceID, info); err != nil {
			log.Printf("cache: set source error: %v", err)
		}
	}
	return info, nil
}

// Search dispatches a search to the requested entity type.
func (s *SourceService) Search(ctx context.Context, posts *repository.PostRepo, query, typ string, limit int) ([]model.SearchResult, error) {
	if typ == "sources" {
		return s.repo.Search(ctx, query, limit)
	}
	return posts.Search(ctx, query, limit)
}

// Stats returns global counters.
func (s *SourceService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	return s.repo.GetStats(ctx)
}

// IsNotFound reports whether an error means the source doesn't exist yet.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
