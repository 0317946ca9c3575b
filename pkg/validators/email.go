// Package validators checks and normalizes the credentials users sign up and
// sign in with
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

// NormalizeEmail validates e and returns the bare address, trimmed and
// lowercased. Accounts are looked up by the normalized form only.
func NormalizeEmail(e string) (string, error) {
	e = strings.TrimSpace(e)
	if e == "" {
		return "", ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return "", ErrEmailInvalid
	}

	// "Name <user@host>" parses fine but isn't an address on its own
	if addr.Name != "" || addr.Address != e {
		return "", ErrEmailInvalid
	}

	return strings.ToLower(addr.Address), nil
}
