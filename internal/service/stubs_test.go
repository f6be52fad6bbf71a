package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type postPage = pagination.Page[*models.Post]

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	countByAuthorFn func(context.Context, uint) (int64, error)
	listFn          func(context.Context, pagination.Params) (*postPage, error)
	listByGroupFn   func(context.Context, uint, pagination.Params) (*postPage, error)
	listByAuthorFn  func(context.Context, uint, pagination.Params) (*postPage, error)
	listFeedFn      func(context.Context, uint, pagination.Params) (*postPage, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) List(ctx context.Context, p pagination.Params) (*postPage, error) {
	return s.listFn(ctx, p)
}
func (s *postRepoStub) ListByGroup(ctx context.Context, groupID uint, p pagination.Params) (*postPage, error) {
	return s.listByGroupFn(ctx, groupID, p)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, p pagination.Params) (*postPage, error) {
	return s.listByAuthorFn(ctx, authorID, p)
}
func (s *postRepoStub) ListFeed(ctx context.Context, followerID uint, p pagination.Params) (*postPage, error) {
	return s.listFeedFn(ctx, followerID, p)
}

func emptyPage(_ context.Context, p pagination.Params) (*postPage, error) {
	return pagination.NewPage[*models.Post](pagination.Resolve(p.Raw, 0, p.PerPage), nil, 0), nil
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id, AuthorID: 1}, nil },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFn:          emptyPage,
		listByGroupFn: func(ctx context.Context, _ uint, p pagination.Params) (*postPage, error) {
			return emptyPage(ctx, p)
		},
		listByAuthorFn: func(ctx context.Context, _ uint, p pagination.Params) (*postPage, error) {
			return emptyPage(ctx, p)
		},
		listFeedFn: func(ctx context.Context, _ uint, p pagination.Params) (*postPage, error) {
			return emptyPage(ctx, p)
		},
	}
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	createFn    func(context.Context, *models.Group) error
	upsertFn    func(context.Context, *models.Group) error
	getByIDFn   func(context.Context, uint) (*models.Group, error)
	getBySlugFn func(context.Context, string) (*models.Group, error)
	listFn      func(context.Context) ([]*models.Group, error)
	deleteFn    func(context.Context, string) error
}

func (s *groupRepoStub) Create(ctx context.Context, g *models.Group) error { return s.createFn(ctx, g) }
func (s *groupRepoStub) Upsert(ctx context.Context, g *models.Group) error { return s.upsertFn(ctx, g) }
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) List(ctx context.Context) ([]*models.Group, error) { return s.listFn(ctx) }
func (s *groupRepoStub) DeleteBySlug(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn: func(_ context.Context, _ *models.Group) error { return nil },
		upsertFn: func(_ context.Context, _ *models.Group) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Group, error) {
			return &models.Group{ID: id, Slug: "g"}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) {
			return &models.Group{ID: 1, Slug: slug}, nil
		},
		listFn:   func(_ context.Context) ([]*models.Group, error) { return nil, nil },
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	usernameExistsFn func(context.Context, string) (bool, error)
	setAdminFn       func(context.Context, string, bool) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	return s.setAdminFn(ctx, username, isAdmin)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "leo"}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		},
		usernameExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		setAdminFn:       func(_ context.Context, _ string, _ bool) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn func(context.Context, uint, uint) (bool, error)
	deleteFn func(context.Context, uint, uint) error
	existsFn func(context.Context, uint, uint) (bool, error)
}

func (s *followRepoStub) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.createFn(ctx, userID, authorID)
}
func (s *followRepoStub) Delete(ctx context.Context, userID, authorID uint) error {
	return s.deleteFn(ctx, userID, authorID)
}
func (s *followRepoStub) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.existsFn(ctx, userID, authorID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn: func(_ context.Context, _, _ uint) error { return nil },
		existsFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	listByPostFn  func(context.Context, uint) ([]*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		listByPostFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// memoryMedia is an in-memory storage.MediaStore.
type memoryMedia struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newMemoryMedia() *memoryMedia {
	return &memoryMedia{objects: map[string][]byte{}}
}

func (m *memoryMedia) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

func (m *memoryMedia) Open(_ context.Context, name string) (io.ReadCloser, *storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &storage.ObjectInfo{Size: int64(len(data))}, nil
}

func (m *memoryMedia) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, name)
	return nil
}

func (m *memoryMedia) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[name]
	return ok
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

var errNotFound = gorm.ErrRecordNotFound
