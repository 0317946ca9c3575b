package validators

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordInvalid  = errors.New("password contains invalid characters")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

// Argon hashes any length but a cap keeps hashing cost bounded per request
const maxPasswordLen = 255

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > maxPasswordLen {
		return ErrPasswordTooLong
	}

	if strings.IndexFunc(p, unicode.IsControl) >= 0 {
		return ErrPasswordInvalid
	}

	return nil
}
