package repository

import (
	"context"
	"fmt"
	"testing"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	users    UserRepository
	groups   GroupRepository
	posts    PostRepository
	comments CommentRepository
	follows  FollowRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	return &fixture{
		db:       db,
		users:    NewUserRepository(db),
		groups:   NewGroupRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		follows:  NewFollowRepository(db),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	u := &models.User{Username: username, Password: "hash"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) post(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func page(raw string) pagination.Params {
	return pagination.Params{Raw: raw, PerPage: 10}
}

func TestPostRepository_ListSplitsIntoPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "leo")
	for i := 0; i < 13; i++ {
		f.post(t, author, nil, fmt.Sprintf("post %d", i))
	}

	first, err := f.posts.List(ctx, page(""))
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, int64(13), first.TotalCount)
	assert.Equal(t, "post 12", first.Items[0].Text)
	assert.Equal(t, "leo", first.Items[0].Author.Username)

	second, err := f.posts.List(ctx, page("2"))
	require.NoError(t, err)
	assert.Len(t, second.Items, 3)
	assert.Equal(t, "post 0", second.Items[2].Text)

	overflow, err := f.posts.List(ctx, page("7"))
	require.NoError(t, err)
	assert.Equal(t, 2, overflow.Number)
}

func TestPostRepository_FilteredListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leo := f.user(t, "leo")
	anna := f.user(t, "anna")
	reader := f.user(t, "reader")
	books := &models.Group{Title: "Books", Slug: "books"}
	require.NoError(t, f.groups.Create(ctx, books))

	f.post(t, leo, books, "leo in books")
	f.post(t, leo, nil, "leo alone")
	f.post(t, anna, books, "anna in books")

	byGroup, err := f.posts.ListByGroup(ctx, books.ID, page(""))
	require.NoError(t, err)
	require.Len(t, byGroup.Items, 2)
	assert.Equal(t, "anna in books", byGroup.Items[0].Text)
	assert.Equal(t, "books", byGroup.Items[0].Group.Slug)

	byAuthor, err := f.posts.ListByAuthor(ctx, leo.ID, page(""))
	require.NoError(t, err)
	assert.Len(t, byAuthor.Items, 2)

	count, err := f.posts.CountByAuthor(ctx, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	feed, err := f.posts.ListFeed(ctx, reader.ID, page(""))
	require.NoError(t, err)
	assert.Empty(t, feed.Items)

	_, err = f.follows.Create(ctx, reader.ID, anna.ID)
	require.NoError(t, err)
	feed, err = f.posts.ListFeed(ctx, reader.ID, page(""))
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "anna in books", feed.Items[0].Text)
}

func TestPostRepository_UpdateKeepsAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.user(t, "leo")
	p := f.post(t, leo, nil, "draft")

	require.NoError(t, f.posts.Update(ctx, &models.Post{ID: p.ID, Text: "final", AuthorID: 999}))

	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, leo.ID, got.AuthorID)
	assert.Equal(t, p.PubDate.Unix(), got.PubDate.Unix())
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.user(t, "leo")
	p := f.post(t, leo, nil, "text")
	require.NoError(t, f.comments.Create(ctx, &models.Comment{Text: "hi", AuthorID: leo.ID, PostID: p.ID}))

	require.NoError(t, f.db.Delete(&models.Post{}, p.ID).Error)
	_, err := f.posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := f.comments.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommentRepository_ListByPostOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.user(t, "leo")
	p := f.post(t, leo, nil, "text")
	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, f.comments.Create(ctx, &models.Comment{Text: text, AuthorID: leo.ID, PostID: p.ID}))
	}

	comments, err := f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "third", comments[2].Text)
	assert.Equal(t, "leo", comments[0].Author.Username)
}

func TestFollowRepository_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reader := f.user(t, "reader")
	leo := f.user(t, "leo")

	created, err := f.follows.Create(ctx, reader.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.follows.Create(ctx, reader.ID, leo.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, f.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	exists, err := f.follows.Exists(ctx, reader.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.follows.Exists(ctx, leo.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, f.follows.Delete(ctx, reader.ID, leo.ID))
	assert.ErrorIs(t, f.follows.Delete(ctx, reader.ID, leo.ID), gorm.ErrRecordNotFound)
}

func TestGroupRepository_UpsertAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.groups.Upsert(ctx, &models.Group{Title: "Books", Slug: "books", Description: "old"}))
	require.NoError(t, f.groups.Upsert(ctx, &models.Group{Title: "Great Books", Slug: "books", Description: "new"}))

	groups, err := f.groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Great Books", groups[0].Title)
	assert.Equal(t, "new", groups[0].Description)

	leo := f.user(t, "leo")
	p := f.post(t, leo, groups[0], "grouped")

	require.NoError(t, f.groups.DeleteBySlug(ctx, "books"))
	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	assert.ErrorIs(t, f.groups.DeleteBySlug(ctx, "books"), gorm.ErrRecordNotFound)
}

func TestUserRepository_SetAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "leo")

	require.NoError(t, f.users.SetAdmin(ctx, "leo", true))
	u, err := f.users.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	assert.ErrorIs(t, f.users.SetAdmin(ctx, "ghost", true), gorm.ErrRecordNotFound)

	exists, err := f.users.UsernameExists(ctx, "leo")
	require.NoError(t, err)
	assert.True(t, exists)
}
