// Package forms binds and validates user-submitted HTML forms.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors that do not belong to one field.
const NonFieldErrors = "__all__"

// Errors maps a form field name to its messages. A non-empty Errors is an error
// so services can report field problems that only the store can detect.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the messages for field, for use in templates.
func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return strings.Join(parts, ", ")
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) && fe.Any() {
		return fe, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// check runs struct tag validation and appends translated messages to errs.
func check(s interface{}, errs Errors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, err.Error())
		return
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return "Enter a valid value."
	}
}

// capitalize turns a lower-case error message into a sentence.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
