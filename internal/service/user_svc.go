package service

import (
	"context"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

type UserService struct {
	users *repository.UserRepo
	votes *repository.VoteRepo
}

func NewUserService(users *repository.UserRepo, votes *repository.VoteRepo) *UserService {
	return &UserService{users: users, votes: votes}
}

// Profile returns the public profile for a user id.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Stats returns a user's activity counters.
func (s *UserService) Stats(ctx context.Context, userID string) (*model.UserStatsResponse, error) {
	postCount, err := s.users.CountPostsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	voteCount, err := s.votes.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserStatsResponse{
		OK:        true,
		UserID:    userID,
		PostCount: postCount,
		VoteCount: voteCount,
	}, nil
}
