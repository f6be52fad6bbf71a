package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "yatube_session"
	// LoginURL is where guests are sent for protected pages.
	LoginURL = "/auth/login/"

	sessionIssuer   = "yatube"
	sessionAudience = "yatube-web"
)

// UserLoader resolves the user a session belongs to.
type UserLoader func(ctx context.Context, id uint) (*models.User, error)

// Sessions issues and verifies cookie sessions. A session is an HS256 JWT whose jti
// can be revoked in Redis on logout.
type Sessions struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	redis    *redis.Client
	loadUser UserLoader
}

// NewSessions creates the session manager. rdb may be nil, in which case logouts only
// clear the cookie.
func NewSessions(cfg *config.Config, rdb *redis.Client, loadUser UserLoader) *Sessions {
	return &Sessions{
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.SessionTTLHours) * time.Hour,
		secure:   cfg.IsProduction(),
		redis:    rdb,
		loadUser: loadUser,
	}
}

// Token signs a session token for user.
func (s *Sessions) Token(user *models.User, now time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": sessionIssuer,
		"aud": sessionAudience,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID    uint
	ID        string
	ExpiresAt time.Time
}

// Parse verifies a session token and extracts its claims.
func (s *Sessions) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	jti, _ := claims["jti"].(string)

	return &SessionClaims{UserID: uint(userID), ID: jti, ExpiresAt: exp.Time}, nil
}

// Login starts a session for user by setting the session cookie.
func (s *Sessions) Login(c *fiber.Ctx, user *models.User) error {
	now := time.Now()
	token, err := s.Token(user, now)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Logout revokes the current token and clears the cookie. It is safe to call for guests.
func (s *Sessions) Logout(c *fiber.Ctx) {
	if raw := c.Cookies(SessionCookie); raw != "" && s.redis != nil {
		if claims, err := s.Parse(raw); err == nil && claims.ID != "" {
			ttl := time.Until(claims.ExpiresAt)
			if err := cache.RevokeSession(c.UserContext(), s.redis, claims.ID, ttl); err != nil {
				Logger.WarnContext(c.UserContext(), "failed to revoke session",
					slog.String("error", err.Error()),
				)
			}
		}
	}
	c.ClearCookie(SessionCookie)
}

// Load resolves the session cookie into Locals "userID" and "user". Requests without
// a usable session continue as guests.
func (s *Sessions) Load() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return c.Next()
		}

		claims, err := s.Parse(raw)
		if err != nil {
			c.ClearCookie(SessionCookie)
			return c.Next()
		}

		if claims.ID != "" && s.redis != nil {
			revoked, err := cache.IsSessionRevoked(c.UserContext(), s.redis, claims.ID)
			if err == nil && revoked {
				c.ClearCookie(SessionCookie)
				return c.Next()
			}
		}

		user, err := s.loadUser(c.UserContext(), claims.UserID)
		if err != nil {
			if !models.IsNotFound(err) {
				return err
			}
			c.ClearCookie(SessionCookie)
			return c.Next()
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil for guests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// LoginRedirect sends the client to the login page, returning afterwards to the current URL.
func LoginRedirect(c *fiber.Ctx) error {
	return c.Redirect(LoginURL+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}

// AuthRequired redirects guests to the login page.
func AuthRequired(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return LoginRedirect(c)
	}
	return c.Next()
}

// AdminRequired allows only administrators through.
func AdminRequired(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return LoginRedirect(c)
	}
	if !user.IsAdmin {
		return models.NewForbiddenError("Administrator access required")
	}
	return c.Next()
}
