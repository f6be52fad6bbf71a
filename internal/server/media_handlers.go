package server

import (
	"errors"
	"net/http"
	"strconv"

	"yatube/internal/observability"
	"yatube/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// ServeMedia handles GET <MEDIA_URL>* by streaming the stored object.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	name, err := storage.CleanName(c.Params("*"))
	if err != nil {
		return fiber.ErrNotFound
	}

	ctx, span := observability.StartMediaSpan(c.UserContext(), "open", name)
	rc, info, err := s.media.Open(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		span.End()
		return fiber.ErrNotFound
	}
	observability.EndSpan(span, err)
	if err != nil {
		return err
	}

	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if !info.ModTime.IsZero() {
		c.Set(fiber.HeaderLastModified, info.ModTime.UTC().Format(http.TimeFormat))
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age="+strconv.Itoa(365*24*3600))
	return c.SendStream(rc, int(info.Size))
}
