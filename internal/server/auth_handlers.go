package server

import (
	"errors"
	"log/slog"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /auth/signup/
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, "users/signup", fiber.Map{"Title": "Sign up", "Form": &forms.SignupForm{}})
}

// Signup handles POST /auth/signup/
func (s *Server) Signup(c *fiber.Ctx) error {
	form := &forms.SignupForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}

	rerender := func() error {
		return s.render(c, "users/signup", fiber.Map{"Title": "Sign up", "Form": form})
	}
	if !form.Validate() {
		return rerender()
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  form.Password1,
	})
	if fieldErrs, ok := forms.AsErrors(err); ok {
		mergeErrors(form.Errors, fieldErrs)
		return rerender()
	}
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "user signed up",
		slog.Uint64("user_id", uint64(user.ID)),
	)
	return redirect(c, "/")
}

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	form := &forms.LoginForm{Next: safeNext(c.Query("next"))}
	return s.render(c, "users/login", fiber.Map{"Title": "Log in", "Form": form})
}

// Login handles POST /auth/login/
func (s *Server) Login(c *fiber.Ctx) error {
	form := &forms.LoginForm{}
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	form.Next = safeNext(form.Next)

	rerender := func() error {
		return s.render(c, "users/login", fiber.Map{"Title": "Log in", "Form": form})
	}
	if !form.Validate() {
		return rerender()
	}

	user, err := s.userService.Authenticate(c.UserContext(), form.Username, form.Password)
	if models.ErrorCode(err) == models.CodeUnauthorized {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			form.Errors.Add(forms.NonFieldErrors, appErr.Message)
		}
		return rerender()
	}
	if err != nil {
		return err
	}

	if err := s.sessions.Login(c, user); err != nil {
		return err
	}

	next := form.Next
	if next == "" {
		next = "/"
	}
	return redirect(c, next)
}

// Logout handles /auth/logout/
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.Logout(c)
	c.Locals("user", nil)
	c.Locals("userID", nil)
	return s.render(c, "users/logged_out", fiber.Map{"Title": "Logged out"})
}
