package forms

import (
	"strings"

	"yatube/internal/validation"
)

// SignupForm creates a new account.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"omitempty,max=254,email"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	Errors    Errors `form:"-"`
}

func (f *SignupForm) Validate() bool {
	f.Errors = Errors{}
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	check(f, f.Errors)

	if f.Username != "" && !f.Errors.Has("username") {
		if err := validation.ValidateUsername(f.Username); err != nil {
			f.Errors.Add("username", capitalize(err.Error()))
		}
	}
	if f.Password2 != "" && !f.Errors.Has("password2") {
		if err := validation.ValidatePassword(f.Password2, f.Username); err != nil {
			f.Errors.Add("password2", capitalize(err.Error()))
		}
	}

	return !f.Errors.Any()
}

// LoginForm authenticates an existing account.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
	Errors   Errors `form:"-"`
}

func (f *LoginForm) Validate() bool {
	f.Errors = Errors{}
	f.Username = strings.TrimSpace(f.Username)
	check(f, f.Errors)
	return !f.Errors.Any()
}
