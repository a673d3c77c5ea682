package service

import (
	"context"
	"log"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

type PostService struct {
	repo  *repository.PostRepo
	cache *CacheService
}

func NewPostService(repo *repository.PostRepo, cache *CacheService) *PostService {
	return &PostService{repo: repo, cache: cache}
}

// Create submits a post on behalf of an authenticated user, creating the
// source on first use, and invalidates the source's cached aggregate.
func (s *PostService) Create(ctx context.Context, userID string, req model.PostRequest) (*model.PostResponse, error) {
	resp, err := s.repo.Create(ctx, userID, req.URL, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSource(ctx, resp.SourceID); err != nil {
			log.Printf("cache: invalidate source error: %v", err)
		}
	}
	return resp, nil
}

// ListBySourceHash returns the posts for a page-identity hash. Unknown
// hashes yield an empty list.
func (s *PostService) ListBySourceHash(ctx context.Context, hash string) ([]model.Post, error) {
	return s.repo.ListBySourceHash(ctx, hash)
}

// ListByUser returns a user's post history.
func (s *PostService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Post, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
