package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// EnsurePost returns NOT_FOUND when the post does not exist.
func (s *CommentService) EnsurePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return notFoundOr(err, "Post", postID)
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := s.EnsurePost(ctx, in.PostID); err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: in.UserID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.ContentCreated.WithLabelValues("comment").Inc()
	return comment, nil
}
