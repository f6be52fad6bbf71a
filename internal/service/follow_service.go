package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes userID to the author named username. Following yourself is a no-op
// and repeated calls never create a second edge.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	if author.ID == userID {
		return author, nil
	}
	created, err := s.followRepo.Create(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		observability.ContentCreated.WithLabelValues("follow").Inc()
	}
	return author, nil
}

// Unfollow removes the edge and returns NOT_FOUND when userID was not following.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return nil, notFoundOr(err, "Follow", username)
	}
	return author, nil
}
