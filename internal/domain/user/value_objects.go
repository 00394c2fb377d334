package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrInvalidRole    = errors.New("invalid role")
	ErrMissingSubject = errors.New("identity subject is required")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}
