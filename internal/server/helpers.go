package server

import (
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// render fills in the values every page needs and renders name inside the base layout.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["User"] = middleware.CurrentUser(c)
	if token, ok := c.Locals(csrfContextKey).(string); ok {
		data["CSRFToken"] = token
	}
	return c.Render(name, data)
}

func (s *Server) renderStatus(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	c.Status(status)
	return s.render(c, name, data)
}

// parseID reads a positive numeric route parameter. Anything else is a missing page.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// currentUser returns the requester on routes guarded by AuthRequired.
func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}

// viewerID is zero for guests.
func viewerID(c *fiber.Ctx) uint {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// safeNext accepts only local absolute paths so login cannot redirect off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

func redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusFound)
}
