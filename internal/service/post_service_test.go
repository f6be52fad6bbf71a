package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"testing"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngUpload(t *testing.T) *forms.Upload {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "small.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.PNGBytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	upload, err := forms.ValidateImage(form.File["image"][0], 1<<20)
	require.NoError(t, err)
	return upload
}

func newPostService(posts *postRepoStub, groups *groupRepoStub, media *memoryMedia) *PostService {
	return NewPostService(posts, groups, noopUserRepo(), noopFollowRepo(), noopCommentRepo(), media, 10)
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()
	groupID := uint(4)

	t.Run("author comes from the input", func(t *testing.T) {
		posts := noopPostRepo()
		var created *models.Post
		posts.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 11
			created = p
			return nil
		}
		svc := newPostService(posts, noopGroupRepo(), newMemoryMedia())

		post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 3, Text: "hello", GroupID: &groupID})
		require.NoError(t, err)
		assert.Equal(t, uint(11), post.ID)
		require.NotNil(t, created)
		assert.Equal(t, uint(3), created.AuthorID)
		assert.Equal(t, &groupID, created.GroupID)
		assert.Empty(t, created.Image)
	})

	t.Run("empty text", func(t *testing.T) {
		svc := newPostService(noopPostRepo(), noopGroupRepo(), newMemoryMedia())
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 3})
		assertAppError(t, err, models.CodeValidation)
	})

	t.Run("unknown group is a field error", func(t *testing.T) {
		groups := noopGroupRepo()
		groups.getByIDFn = func(_ context.Context, _ uint) (*models.Group, error) { return nil, errNotFound }
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("Create must not be called")
			return nil
		}
		svc := newPostService(posts, groups, newMemoryMedia())

		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 3, Text: "x", GroupID: &groupID})
		fieldErrs, ok := forms.AsErrors(err)
		require.True(t, ok)
		assert.True(t, fieldErrs.Has("group"))
	})

	t.Run("image is stored under posts/", func(t *testing.T) {
		media := newMemoryMedia()
		svc := newPostService(noopPostRepo(), noopGroupRepo(), media)

		post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 3, Text: "pic", Image: pngUpload(t)})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(post.Image, "posts/"))
		assert.True(t, strings.HasSuffix(post.Image, ".png"))
		assert.True(t, media.has(post.Image))
	})

	t.Run("image is discarded when the insert fails", func(t *testing.T) {
		media := newMemoryMedia()
		posts := noopPostRepo()
		var name string
		posts.createFn = func(_ context.Context, p *models.Post) error {
			name = p.Image
			return errors.New("db down")
		}
		svc := newPostService(posts, noopGroupRepo(), media)

		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 3, Text: "pic", Image: pngUpload(t)})
		require.Error(t, err)
		require.NotEmpty(t, name)
		assert.False(t, media.has(name))
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()

	stored := func() *models.Post {
		return &models.Post{ID: 5, AuthorID: 1, Text: "old", Image: "posts/old.png"}
	}

	t.Run("non-author is forbidden", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return stored(), nil }
		posts.updateFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("Update must not be called")
			return nil
		}
		svc := newPostService(posts, noopGroupRepo(), newMemoryMedia())

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 5, Text: "new"})
		assertAppError(t, err, models.CodeForbidden)
	})

	t.Run("missing post", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return nil, errNotFound }
		svc := newPostService(posts, noopGroupRepo(), newMemoryMedia())

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "new"})
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("keeps the image when none is uploaded", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return stored(), nil }
		var updated *models.Post
		posts.updateFn = func(_ context.Context, p *models.Post) error {
			updated = p
			return nil
		}
		media := newMemoryMedia()
		media.objects["posts/old.png"] = []byte("x")
		svc := newPostService(posts, noopGroupRepo(), media)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "new"})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "new", updated.Text)
		assert.Equal(t, uint(1), updated.AuthorID)
		assert.Equal(t, "posts/old.png", updated.Image)
		assert.True(t, media.has("posts/old.png"))
	})

	t.Run("clearing removes the old object", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return stored(), nil }
		var updated *models.Post
		posts.updateFn = func(_ context.Context, p *models.Post) error {
			updated = p
			return nil
		}
		media := newMemoryMedia()
		media.objects["posts/old.png"] = []byte("x")
		svc := newPostService(posts, noopGroupRepo(), media)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "new", ClearImage: true})
		require.NoError(t, err)
		assert.Empty(t, updated.Image)
		assert.False(t, media.has("posts/old.png"))
	})

	t.Run("replacing stores the new image", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return stored(), nil }
		var updated *models.Post
		posts.updateFn = func(_ context.Context, p *models.Post) error {
			updated = p
			return nil
		}
		media := newMemoryMedia()
		media.objects["posts/old.png"] = []byte("x")
		svc := newPostService(posts, noopGroupRepo(), media)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "new", Image: pngUpload(t)})
		require.NoError(t, err)
		assert.NotEqual(t, "posts/old.png", updated.Image)
		assert.True(t, media.has(updated.Image))
		assert.False(t, media.has("posts/old.png"))
	})

	t.Run("failed cleanup is logged", func(t *testing.T) {
		var logs bytes.Buffer
		prev := observability.GlobalLogger
		observability.GlobalLogger = slog.New(slog.NewJSONHandler(&logs, nil))
		t.Cleanup(func() { observability.GlobalLogger = prev })

		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return stored(), nil }
		media := newMemoryMedia()
		media.objects["posts/old.png"] = []byte("x")
		media.deleteErr = errors.New("bucket unavailable")
		svc := newPostService(posts, noopGroupRepo(), media)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 5, Text: "new", ClearImage: true})
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "failed to delete media object")
		assert.Contains(t, logs.String(), `"object_name":"posts/old.png"`)
		assert.Contains(t, logs.String(), "bucket unavailable")
	})
}

func TestPostService_GroupPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown slug", func(t *testing.T) {
		groups := noopGroupRepo()
		groups.getBySlugFn = func(_ context.Context, _ string) (*models.Group, error) { return nil, errNotFound }
		svc := newPostService(noopPostRepo(), groups, nil)

		_, _, err := svc.GroupPosts(ctx, "nope", "")
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("filters by group id", func(t *testing.T) {
		posts := noopPostRepo()
		var gotGroup uint
		var gotParams pagination.Params
		posts.listByGroupFn = func(ctx context.Context, groupID uint, p pagination.Params) (*postPage, error) {
			gotGroup = groupID
			gotParams = p
			return emptyPage(ctx, p)
		}
		groups := noopGroupRepo()
		groups.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
			return &models.Group{ID: 9, Slug: slug}, nil
		}
		svc := newPostService(posts, groups, nil)

		group, page, err := svc.GroupPosts(ctx, "cats", "2")
		require.NoError(t, err)
		assert.Equal(t, "cats", group.Slug)
		assert.NotNil(t, page)
		assert.Equal(t, uint(9), gotGroup)
		assert.Equal(t, pagination.Params{Raw: "2", PerPage: 10}, gotParams)
	})
}

func TestPostService_Profile(t *testing.T) {
	ctx := context.Background()

	followRepo := noopFollowRepo()
	followRepo.existsFn = func(_ context.Context, userID, authorID uint) (bool, error) {
		return userID == 7 && authorID == 2, nil
	}
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopUserRepo(), followRepo, noopCommentRepo(), nil, 10)

	view, err := svc.Profile(ctx, "leo", "", 7)
	require.NoError(t, err)
	assert.Equal(t, "leo", view.Author.Username)
	assert.True(t, view.Following)

	guest, err := svc.Profile(ctx, "leo", "", 0)
	require.NoError(t, err)
	assert.False(t, guest.Following)

	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) { return nil, errNotFound }
	missing := NewPostService(noopPostRepo(), noopGroupRepo(), users, followRepo, noopCommentRepo(), nil, 10)
	_, err = missing.Profile(ctx, "ghost", "", 0)
	assertAppError(t, err, models.CodeNotFound)
}

func TestPostService_Detail(t *testing.T) {
	ctx := context.Background()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 2, Text: strings.Repeat("a", 40)}, nil
	}
	posts.countByAuthorFn = func(_ context.Context, authorID uint) (int64, error) {
		assert.Equal(t, uint(2), authorID)
		return 3, nil
	}
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID uint) ([]*models.Comment, error) {
		return []*models.Comment{{ID: 1, PostID: postID, Text: "first"}}, nil
	}
	svc := NewPostService(posts, noopGroupRepo(), noopUserRepo(), noopFollowRepo(), comments, nil, 10)

	detail, err := svc.Detail(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3), detail.AuthorPostCount)
	assert.Equal(t, strings.Repeat("a", 30), detail.Title)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, uint(8), detail.Comments[0].PostID)
}

func TestNewPostService_DefaultPerPage(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopUserRepo(), noopFollowRepo(), noopCommentRepo(), nil, 0)
	assert.Equal(t, pagination.DefaultPerPage, svc.perPage)
}
