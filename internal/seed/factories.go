package seed

import (
	"fmt"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	password string
	maxDays  int
	userSeq  int
}

// NewFactory creates a Factory. All users it creates share one bcrypt hash of opts.Password.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.password()), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{db: db, faker: gofakeit.New(seed), password: string(hash), maxDays: maxDays}, nil
}

// CreateUser persists a user with a unique generated username.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.userSeq++
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", f.faker.Username(), f.userSeq),
		Email:     f.faker.Email(),
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Password:  f.password,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post with a publication date spread over the last maxDays.
func (f *Factory) BuildPost(author *models.User, group *models.Group) *models.Post {
	post := &models.Post{
		Text:     f.faker.Paragraph(1, 3, 12, "\n"),
		AuthorID: author.ID,
		PubDate:  f.pastTime(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePostsBatch persists posts in batches of 100.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(posts, 100).Error
}

// CreateComment persists a comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     f.faker.Sentence(f.faker.Number(3, 15)),
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow subscribes follower to author. Existing edges and self-follows are skipped.
func (f *Factory) Follow(follower, author *models.User) error {
	if follower.ID == author.ID {
		return nil
	}
	return f.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{UserID: follower.ID, AuthorID: author.ID}).Error
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) pick(n int) int {
	return f.faker.Number(0, n-1)
}
