package repository

import (
	"context"
	"log/slog"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	// Create inserts the edge, doing nothing when it already exists.
	// created reports whether a new row was written.
	Create(ctx context.Context, userID, authorID uint) (created bool, err error)
	Delete(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Omit("User", "Author").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "create")
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.log.LogCreate(ctx, slog.Any("user_id", userID), slog.Any("author_id", authorID))
	return true, nil
}

// Delete removes the edge, returning gorm.ErrRecordNotFound when there was none.
func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.log.LogDelete(ctx, slog.Any("user_id", userID), slog.Any("author_id", authorID))
	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}
