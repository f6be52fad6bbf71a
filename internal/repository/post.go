package repository

import (
	"context"
	"log/slog"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// Every listing is ordered newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	List(ctx context.Context, p pagination.Params) (*pagination.Page[*models.Post], error)
	ListByGroup(ctx context.Context, groupID uint, p pagination.Params) (*pagination.Page[*models.Post], error)
	ListByAuthor(ctx context.Context, authorID uint, p pagination.Params) (*pagination.Page[*models.Post], error)
	ListFeed(ctx context.Context, followerID uint, p pagination.Params) (*pagination.Page[*models.Post], error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("pub_date DESC").Order("id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, slog.Any("post_id", post.ID), slog.Any("author_id", post.AuthorID))
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Scopes(withPostDetails).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update saves the editable fields only; author and pub_date never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return err
	}
	r.log.LogUpdate(ctx, slog.Any("post_id", post.ID))
	return nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *postRepository) List(ctx context.Context, p pagination.Params) (*pagination.Page[*models.Post], error) {
	return paginate[*models.Post](ctx, r.db, &models.Post{}, "posts", p, noFilter, withPostDetails, newestFirst)
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, p pagination.Params) (*pagination.Page[*models.Post], error) {
	byGroup := func(db *gorm.DB) *gorm.DB {
		return db.Where("group_id = ?", groupID)
	}
	return paginate[*models.Post](ctx, r.db, &models.Post{}, "posts", p, byGroup, withPostDetails, newestFirst)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, p pagination.Params) (*pagination.Page[*models.Post], error) {
	byAuthor := func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", authorID)
	}
	return paginate[*models.Post](ctx, r.db, &models.Post{}, "posts", p, byAuthor, withPostDetails, newestFirst)
}

// ListFeed returns posts written by every author followerID follows.
func (r *postRepository) ListFeed(ctx context.Context, followerID uint, p pagination.Params) (*pagination.Page[*models.Post], error) {
	followed := func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id IN (SELECT author_id FROM follows WHERE user_id = ?)", followerID)
	}
	return paginate[*models.Post](ctx, r.db, &models.Post{}, "posts", p, followed, withPostDetails, newestFirst)
}
