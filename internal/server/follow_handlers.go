package server

import (
	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles /profile/:username/follow/
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), currentUser(c).ID, c.Params("username"))
	if err != nil {
		return err
	}
	return redirect(c, profileURL(author.Username))
}

// ProfileUnfollow handles /profile/:username/unfollow/
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), currentUser(c).ID, c.Params("username"))
	if err != nil {
		return err
	}
	return redirect(c, profileURL(author.Username))
}
