package server

import (
	"strconv"
	"strings"
	"time"

	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
	fibercache "github.com/gofiber/fiber/v2/middleware/cache"
)

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if strings.HasPrefix(s.config.MediaURL, "/") && s.media != nil {
		app.Get(strings.TrimSuffix(s.config.MediaURL, "/")+"/*", s.ServeMedia)
	}

	// Posts
	app.Get("/", append(s.pageCache(), s.Index)...)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/posts/:id/", s.PostDetail)

	app.Get("/create/", middleware.AuthRequired, s.CreatePostForm)
	app.Post("/create/", middleware.AuthRequired, s.CreatePost)
	app.Get("/posts/:id/edit/", middleware.AuthRequired, s.EditPostForm)
	app.Post("/posts/:id/edit/", middleware.AuthRequired, s.EditPost)
	app.Post("/posts/:id/comment/", middleware.AuthRequired, s.AddComment)
	app.Get("/follow/", middleware.AuthRequired, s.FollowIndex)
	app.Get("/profile/:username/follow/", middleware.AuthRequired, s.ProfileFollow)
	app.Post("/profile/:username/follow/", middleware.AuthRequired, s.ProfileFollow)
	app.Get("/profile/:username/unfollow/", middleware.AuthRequired, s.ProfileUnfollow)
	app.Post("/profile/:username/unfollow/", middleware.AuthRequired, s.ProfileUnfollow)

	// Users
	auth := app.Group("/auth")
	auth.Get("/signup/", s.SignupForm)
	auth.Post("/signup/", s.Signup)
	auth.Get("/login/", s.LoginForm)
	auth.Post("/login/", s.Login)
	auth.Get("/logout/", s.Logout)
	auth.Post("/logout/", s.Logout)

	// About
	about := app.Group("/about")
	about.Get("/author/", s.AboutAuthor)
	about.Get("/tech/", s.AboutTech)

	// Admin
	// Group handlers run as Use on the whole prefix, so guards are attached per route.
	admin := app.Group("/admin")
	admin.Post("/cache/clear/", middleware.AdminRequired, s.ClearPageCache)
}

// pageCache caches rendered pages in Redis for PAGE_CACHE_TTL_SECONDS. Signed-in users
// get their own entries because the layout shows who is logged in.
func (s *Server) pageCache() []fiber.Handler {
	if s.pages == nil {
		return nil
	}
	return []fiber.Handler{
		middleware.PageCacheMetrics(),
		fibercache.New(fibercache.Config{
			Expiration:   time.Duration(s.config.PageCacheTTLSeconds) * time.Second,
			CacheControl: false,
			Storage:      s.pages,
			KeyGenerator: func(c *fiber.Ctx) string {
				key := c.OriginalURL()
				if u := middleware.CurrentUser(c); u != nil {
					key += "|" + strconv.FormatUint(uint64(u.ID), 10)
				}
				return key
			},
		}),
	}
}
