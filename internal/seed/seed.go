// Package seed fills a database with groups and fake demo content for development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated user unless Options.Password is set.
const DefaultPassword = "yatube-demo-2024"

// Options control how much content Run generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	// MaxFollows is the upper bound of authors each user subscribes to.
	MaxFollows  int
	ShouldClean bool
	Password    string
	BcryptCost  int
	MaxDays     int
	// RandomSeed makes the generated content reproducible. Zero means random.
	RandomSeed int64
}

func (o Options) password() string {
	if o.Password == "" {
		return DefaultPassword
	}
	return o.Password
}

// Result counts what Run created.
type Result struct {
	Groups   int
	Users    int
	Posts    int
	Comments int
	Follows  int
}

// Seeder populates the database.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll deletes all content tables, children first.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.Info("seed: database cleared")
	return nil
}

// Run seeds the built-in groups, then users, posts, comments and follows.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	n, err := Groups(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("seed groups: %w", err)
	}
	res.Groups = n

	var groups []*models.Group
	if err := s.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}

	f, err := NewFactory(s.db.WithContext(ctx), opts)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)
	if len(users) == 0 {
		return res, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		var group *models.Group
		// Roughly a third of the posts stay outside any group.
		if len(groups) > 0 && f.pick(3) > 0 {
			group = groups[f.pick(len(groups))]
		}
		posts = append(posts, f.BuildPost(users[f.pick(len(users))], group))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	res.Posts = len(posts)

	if len(posts) > 0 {
		for i := 0; i < opts.NumComments; i++ {
			if _, err := f.CreateComment(users[f.pick(len(users))], posts[f.pick(len(posts))]); err != nil {
				return nil, fmt.Errorf("seed comment: %w", err)
			}
		}
		res.Comments = opts.NumComments
	}

	if opts.MaxFollows > 0 && len(users) > 1 {
		for _, u := range users {
			for i := f.pick(opts.MaxFollows + 1); i > 0; i-- {
				if err := f.Follow(u, users[f.pick(len(users))]); err != nil {
					return nil, fmt.Errorf("seed follow: %w", err)
				}
			}
		}
		var follows int64
		if err := s.db.WithContext(ctx).Model(&models.Follow{}).Count(&follows).Error; err != nil {
			return nil, err
		}
		res.Follows = int(follows)
	}

	middleware.Logger.InfoContext(ctx, "seed: done",
		slog.Int("groups", res.Groups),
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("follows", res.Follows),
	)
	return res, nil
}
