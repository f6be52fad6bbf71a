package repository

import (
	"context"
	"log/slog"

	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	Upsert(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type groupRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db, log: observability.NewRepoLogger("groups")}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, slog.Any("group_id", group.ID), slog.String("slug", group.Slug))
	return nil
}

// Upsert inserts the group or refreshes title and description of the one sharing its slug.
func (r *groupRepository) Upsert(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(group).Error
	if err != nil {
		r.log.LogError(ctx, err, "upsert")
		return err
	}
	r.log.LogUpdate(ctx, slog.String("slug", group.Slug))
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// DeleteBySlug removes a group; posts in it survive with no group.
func (r *groupRepository) DeleteBySlug(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Group{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.log.LogDelete(ctx, slog.String("slug", slug))
	return nil
}
