package validators

import (
	"errors"
	"regexp"
)

var (
	ErrUsernameEmpty    = errors.New("no username provided")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrUsernameTooLong  = errors.New("username must be 30 characters or less")
	ErrUsernameInvalid  = errors.New("username can only contain letters, numbers, underscores and hyphens")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) < 3 {
		return ErrUsernameTooShort
	}

	if len(u) > 30 {
		return ErrUsernameTooLong
	}

	if !usernamePattern.MatchString(u) {
		return ErrUsernameInvalid
	}

	return nil
}
