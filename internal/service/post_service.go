package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/storage"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	commentRepo repository.CommentRepository
	media       storage.MediaStore
	perPage     int
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *forms.Upload
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Text       string
	GroupID    *uint
	Image      *forms.Upload
	ClearImage bool
}

// ProfileView is everything the profile page shows about an author.
type ProfileView struct {
	Author    *models.User
	Page      *pagination.Page[*models.Post]
	PostCount int64
	Following bool
}

// PostDetail is everything the post detail page shows.
type PostDetail struct {
	Post            *models.Post
	AuthorPostCount int64
	Title           string
	Comments        []*models.Comment
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	commentRepo repository.CommentRepository,
	media storage.MediaStore,
	perPage int,
) *PostService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
		commentRepo: commentRepo,
		media:       media,
		perPage:     perPage,
	}
}

func (s *PostService) params(rawPage string) pagination.Params {
	return pagination.Params{Raw: rawPage, PerPage: s.perPage}
}

func (s *PostService) ListPosts(ctx context.Context, rawPage string) (*pagination.Page[*models.Post], error) {
	return s.postRepo.List(ctx, s.params(rawPage))
}

func (s *PostService) GroupPosts(ctx context.Context, slug, rawPage string) (*models.Group, *pagination.Page[*models.Post], error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, notFoundOr(err, "Group", slug)
	}
	page, err := s.postRepo.ListByGroup(ctx, group.ID, s.params(rawPage))
	if err != nil {
		return nil, nil, err
	}
	return group, page, nil
}

// Profile lists an author's posts. viewerID is zero for guests.
func (s *PostService) Profile(ctx context.Context, username, rawPage string, viewerID uint) (*ProfileView, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}

	page, err := s.postRepo.ListByAuthor(ctx, author.ID, s.params(rawPage))
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Author:    author,
		Page:      page,
		PostCount: page.TotalCount,
	}
	if viewerID != 0 {
		view.Following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Feed lists posts by the authors userID follows.
func (s *PostService) Feed(ctx context.Context, userID uint, rawPage string) (*pagination.Page[*models.Post], error) {
	return s.postRepo.ListFeed(ctx, userID, s.params(rawPage))
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return post, nil
}

func (s *PostService) Detail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:            post,
		AuthorPostCount: count,
		Title:           post.Title(),
		Comments:        comments,
	}, nil
}

func (s *PostService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}

	if in.Image != nil {
		name, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = name
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, err
	}

	observability.ContentCreated.WithLabelValues("post").Inc()
	return post, nil
}

// UpdatePost edits a post on behalf of its author. Anyone else gets a FORBIDDEN error.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	oldImage := post.Image
	newImage := oldImage
	if in.Image != nil {
		newImage, err = s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	} else if in.ClearImage {
		newImage = ""
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Image = newImage

	if err := s.postRepo.Update(ctx, post); err != nil {
		if newImage != oldImage {
			s.discardImage(ctx, newImage)
		}
		return nil, err
	}
	if oldImage != "" && newImage != oldImage {
		s.discardImage(ctx, oldImage)
	}

	return s.GetPost(ctx, post.ID)
}

func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groupRepo.GetByID(ctx, *groupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return forms.Errors{"group": {"Select a valid choice. That choice is not one of the available choices."}}
	}
	return err
}

func (s *PostService) saveImage(ctx context.Context, upload *forms.Upload) (string, error) {
	if s.media == nil {
		return "", models.NewInternalError(errors.New("media storage is not configured"))
	}
	f, err := upload.Header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	name := storage.NewPostImageName(upload.Ext)
	ctx, span := observability.StartMediaSpan(ctx, "save", name)
	err = s.media.Save(ctx, name, f, upload.Header.Size, upload.ContentType)
	observability.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	observability.MediaUploadBytes.Observe(float64(upload.Header.Size))
	return name, nil
}

func (s *PostService) discardImage(ctx context.Context, name string) {
	if name == "" || s.media == nil {
		return
	}
	ctx, span := observability.StartMediaSpan(ctx, "delete", name)
	err := s.media.Delete(ctx, name)
	observability.EndSpan(span, err)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to delete media object",
			slog.String("object_name", name),
			slog.String("error", err.Error()),
		)
	}
}
