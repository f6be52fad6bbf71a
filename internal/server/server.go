// Package server contains the HTTP handlers, routing and middleware wiring for the web application.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yatube/internal/bootstrap"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/internal/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const csrfContextKey = "csrf"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	media          storage.MediaStore
	pages          *cache.Store
	views          *html.Engine
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *middleware.Sessions
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	userService    *service.UserService
}

// NewServer connects to the database, Redis and media storage and creates a server.
// An unreachable Redis disables the page cache and session revocation instead of failing.
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	media, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, rdb, media)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis. redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, media storage.MediaStore) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("config and database are required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		media:          media,
		views:          web.NewEngine(cfg.MediaURL),
		promMiddleware: middleware.InitMetrics("yatube"),
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}
	if redisClient != nil {
		s.pages = cache.NewPageStore(redisClient)
	}

	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.userRepo, s.followRepo, s.commentRepo, media, cfg.PostsPerPage)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.sessions = middleware.NewSessions(cfg, redisClient, s.userService.GetUserByID)

	return s, nil
}

// App returns the configured Fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "Yatube",
		Views:        s.views,
		ViewsLayout:  web.BaseLayout,
		ErrorHandler: s.ErrorHandler,
		BodyLimit:    s.bodyLimit(),
		UnescapePath: true,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func (s *Server) bodyLimit() int {
	// Room for the form fields next to the largest accepted image.
	return (s.config.ImageMaxUploadSizeMB + 1) * 1024 * 1024
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware("/health/", "/metrics", s.config.MediaURL))
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Session before context so the user ID reaches the logger
	app.Use(s.sessions.Load())
	app.Use(middleware.ContextMiddleware())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger("/health/", "/metrics", s.config.MediaURL))

	if s.config.CSRFEnabled {
		app.Use(csrf.New(s.csrfConfig()))
	}
}

func (s *Server) csrfConfig() csrf.Config {
	cfg := csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "csrftoken",
		CookieSameSite: "Lax",
		CookieSecure:   s.config.IsProduction(),
		CookieHTTPOnly: true,
		Expiration:     12 * time.Hour,
		ContextKey:     csrfContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.WarnContext(c.UserContext(), "csrf check failed",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return s.renderStatus(c, fiber.StatusForbidden, "core/403csrf", nil)
		},
	}
	if s.redis != nil {
		cfg.Storage = cache.NewCSRFStore(s.redis)
	}
	return cfg
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
