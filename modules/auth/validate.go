package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/example/task-api/domain/apperr"
)

const (
	maxNameLength     = 255
	maxEmailLength    = 255
	minPasswordLength = 6
)

// normalizeEmail trims and lowercases an address so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address only, not the "Name <addr>" form.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validateRegistration(req RegisterRequest) apperr.Fields {
	fields := apperr.Fields{}

	switch {
	case req.Name == "":
		fields.Add("name", "The name field is required.")
	case utf8.RuneCountInString(req.Name) > maxNameLength:
		fields.Add("name", "The name may not be greater than 255 characters.")
	}

	switch {
	case req.Email == "":
		fields.Add("email", "The email field is required.")
	case utf8.RuneCountInString(req.Email) > maxEmailLength:
		fields.Add("email", "The email may not be greater than 255 characters.")
	case !validEmail(req.Email):
		fields.Add("email", "The email must be a valid email address.")
	}

	switch {
	case req.Password == "":
		fields.Add("password", "The password field is required.")
	case utf8.RuneCountInString(req.Password) < minPasswordLength:
		fields.Add("password", "The password must be at least 6 characters.")
	case len(req.Password) > MaxPasswordBytes:
		fields.Add("password", "The password may not be greater than 72 bytes.")
	case req.Password != req.PasswordConfirmation:
		fields.Add("password", "The password confirmation does not match.")
	}

	return fields
}

func validateLogin(req LoginRequest) apperr.Fields {
	fields := apperr.Fields{}

	switch {
	case req.Email == "":
		fields.Add("email", "The email field is required.")
	case !validEmail(req.Email):
		fields.Add("email", "The email must be a valid email address.")
	}

	if req.Password == "" {
		fields.Add("password", "The password field is required.")
	}

	return fields
}
