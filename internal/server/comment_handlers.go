package server

import (
	"log/slog"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment/. It always ends on the post page;
// an empty comment is dropped without feedback.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.commentService.EnsurePost(c.UserContext(), id); err != nil {
		return err
	}

	form := &forms.CommentForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if !form.Validate() {
		middleware.Logger.DebugContext(c.UserContext(), "comment rejected",
			slog.Uint64("post_id", uint64(id)),
		)
		return redirect(c, postURL(id))
	}

	_, err = s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: currentUser(c).ID,
		PostID: id,
		Text:   form.Text,
	})
	if err != nil {
		return err
	}
	return redirect(c, postURL(id))
}
