package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

type VoteService struct {
	repo  *repository.VoteRepo
	cache *CacheService
}

func NewVoteService(repo *repository.VoteRepo, cache *CacheService) *VoteService {
	return &VoteService{repo: repo, cache: cache}
}

// Submit processes a vote submission. Rating bounds are re-checked here so
// the service is safe regardless of handler validation.
func (s *VoteService) Submit(ctx context.Context, userID string, req model.VoteRequest) (*model.VoteResponse, error) {
	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("rating out of range: %d", req.Rating)
	}

	if err := s.repo.Submit(ctx, req.PostID, userID, req.Agree, req.Rating); err != nil {
		return nil, err
	}

	// Reputation recalculation is handled async by the reputation worker
	// via LISTEN/NOTIFY. Invalidate cache so next read re-fetches from DB.
	if s.cache != nil {
		sourceID, err := s.repo.SourceIDForPost(ctx, req.PostID)
		if err != nil {
			log.Printf("cache: source lookup for post %s failed: %v", req.PostID, err)
		} else if err := s.cache.InvalidateSource(ctx, sourceID); err != nil {
			log.Printf("cache: invalidate source error: %v", err)
		}
	}

	return &model.VoteResponse{OK: true}, nil
}
