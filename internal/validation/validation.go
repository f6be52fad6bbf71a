// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxUsernameLength = 150
	MaxEmailLength    = 254
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwertyuiop": {},
	"qwerty123":  {},
	"iloveyou":   {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"baseball":   {},
	"welcome1":   {},
	"abc12345":   {},
	"letmein1":   {},
	"trustno1":   {},
	"11111111":   {},
	"00000000":   {},
}

// ValidatePassword checks a password against the account password policy.
// username may be empty when it is not known yet.
func ValidatePassword(password, username string) error {
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		return errors.New("this password is too short, it must contain at least 8 characters")
	}
	if length > MaxPasswordLength {
		return errors.New("password must not exceed 128 characters")
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return errors.New("this password is entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("this password is too common")
	}

	if u := strings.ToLower(username); len(u) >= 3 && strings.Contains(strings.ToLower(password), u) {
		return errors.New("the password is too similar to the username")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return errors.New("username must not exceed 150 characters")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("enter a valid username, it may contain only letters, numbers, and @/./+/-/_ characters")
	}
	return nil
}

// ValidateEmail checks basic email format. An empty email is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > MaxEmailLength {
		return errors.New("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("enter a valid email address")
	}
	return nil
}
