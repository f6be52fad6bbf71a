package server

import (
	"log/slog"

	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ClearPageCache handles POST /admin/cache/clear/
func (s *Server) ClearPageCache(c *fiber.Ctx) error {
	if s.pages == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "page cache is disabled",
		})
	}

	removed, err := s.pages.Clear(c.UserContext())
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "page cache cleared",
		slog.Int("removed", removed),
	)
	return c.JSON(fiber.Map{"removed": removed})
}
