package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"yatube/internal/models"
	"yatube/internal/repository"
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	groupRepo repository.GroupRepository
}

type GroupInput struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (in GroupInput) toModel() (*models.Group, error) {
	title := strings.TrimSpace(in.Title)
	slug := strings.TrimSpace(in.Slug)
	switch {
	case title == "":
		return nil, models.NewValidationError("Group title is required")
	case utf8.RuneCountInString(title) > 200:
		return nil, models.NewValidationError("Group title must not exceed 200 characters")
	case !slugRegex.MatchString(slug) || len(slug) > 50:
		return nil, models.NewValidationError("Group slug may contain only letters, numbers, underscores or hyphens (max 50)")
	}
	return &models.Group{Title: title, Slug: slug, Description: strings.TrimSpace(in.Description)}, nil
}

func (s *GroupService) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	group, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ImportGroups creates or refreshes every group by slug. It stops at the first invalid entry.
func (s *GroupService) ImportGroups(ctx context.Context, in []GroupInput) (int, error) {
	groups := make([]*models.Group, 0, len(in))
	for _, g := range in {
		group, err := g.toModel()
		if err != nil {
			return 0, err
		}
		groups = append(groups, group)
	}
	for i, group := range groups {
		if err := s.groupRepo.Upsert(ctx, group); err != nil {
			return i, err
		}
	}
	return len(groups), nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	if err := s.groupRepo.DeleteBySlug(ctx, slug); err != nil {
		return notFoundOr(err, "Group", slug)
	}
	return nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}
