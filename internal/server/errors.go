package server

import (
	"errors"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders failures as branded pages. Unknown routes arrive here as
// fiber.ErrNotFound.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var code int
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		code = models.HTTPStatus(err)
	}
	if code == fiber.StatusUnauthorized {
		return middleware.LoginRedirect(c)
	}

	var name string
	switch {
	case code == fiber.StatusNotFound:
		name = "core/404"
	case code == fiber.StatusForbidden:
		name = "core/403"
	case code >= fiber.StatusInternalServerError:
		name = "core/500"
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	default:
		return c.Status(code).SendString(err.Error())
	}

	if rerr := s.renderStatus(c, code, name, fiber.Map{"Path": c.Path()}); rerr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to render error page",
			slog.String("template", name),
			slog.String("error", rerr.Error()),
		)
		return c.Status(code).SendString(fiber.ErrInternalServerError.Message)
	}
	return nil
}
